package notification

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type represents notification type
type Type string

const (
	TypeTestRequired       Type = "test_required"       // Module entered im_test
	TypeAcceptanceRequired Type = "acceptance_required" // Acceptance criteria await review
	TypeProjectUpdate      Type = "project_update"      // Module status or progress changed
	TypeSchulungAssigned   Type = "schulung_assigned"   // Training assigned
	TypeMessageReceived    Type = "message_received"    // New inbox message
)

// Notification is a customer-addressed, potentially actionable event record
type Notification struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	CustomerID      uuid.UUID      `db:"customer_id" json:"customer_id"`
	Type            Type           `db:"type" json:"type"`
	Title           string         `db:"title" json:"title"`
	Body            sql.NullString `db:"body" json:"body,omitempty"`
	ActionRequired  bool           `db:"action_required" json:"action_required"`
	Read            bool           `db:"read" json:"read"`
	ReadAt          sql.NullTime   `db:"read_at" json:"read_at,omitempty"`
	RelatedModuleID uuid.NullUUID  `db:"related_module_id" json:"related_module_id,omitempty"`
	RelatedURL      sql.NullString `db:"related_url" json:"related_url,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}
