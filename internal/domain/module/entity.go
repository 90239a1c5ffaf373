package module

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is a module's kanban column. Transitions are unordered; any status
// may follow any other.
type Status string

const (
	StatusGeplant       Status = "geplant"
	StatusInArbeit      Status = "in_arbeit"
	StatusImTest        Status = "im_test"
	StatusAbgeschlossen Status = "abgeschlossen"
)

// StatusLabels maps a status to the label shown in audit messages
var StatusLabels = map[Status]string{
	StatusGeplant:       "Geplant",
	StatusInArbeit:      "In Arbeit",
	StatusImTest:        "Im Test",
	StatusAbgeschlossen: "Abgeschlossen",
}

// AcceptanceStatus tracks the customer's verdict on the acceptance criteria
type AcceptanceStatus string

const (
	AcceptanceAusstehend AcceptanceStatus = "ausstehend"
	AcceptanceAkzeptiert AcceptanceStatus = "akzeptiert"
	AcceptanceAbgelehnt  AcceptanceStatus = "abgelehnt"
)

// LiveStatus is only meaningful once a module is abgeschlossen
type LiveStatus string

const (
	LiveAktiv       LiveStatus = "aktiv"
	LivePausiert    LiveStatus = "pausiert"
	LiveDeaktiviert LiveStatus = "deaktiviert"
)

// Module is a deliverable on a customer's project board
type Module struct {
	ID                       uuid.UUID        `db:"id" json:"id"`
	CustomerID               uuid.UUID        `db:"customer_id" json:"customer_id"`
	Title                    string           `db:"title" json:"title"`
	Description              sql.NullString   `db:"description" json:"description,omitempty"`
	Status                   Status           `db:"status" json:"status"`
	AcceptanceStatus         AcceptanceStatus `db:"acceptance_status" json:"acceptance_status"`
	LiveStatus               LiveStatus       `db:"live_status" json:"live_status"`
	MonthlyMaintenancePoints float64          `db:"monthly_maintenance_points" json:"monthly_maintenance_points"`
	Progress                 int              `db:"progress" json:"progress"`
	Assignee                 sql.NullString   `db:"assignee" json:"assignee,omitempty"`
	CustomerContact          sql.NullString   `db:"customer_contact" json:"customer_contact,omitempty"`
	AcceptedAt               sql.NullTime     `db:"accepted_at" json:"accepted_at,omitempty"`
	AcceptedBy               sql.NullString   `db:"accepted_by" json:"accepted_by,omitempty"`
	TestCompletedAt          sql.NullTime     `db:"test_completed_at" json:"test_completed_at,omitempty"`
	TestCompletedBy          sql.NullString   `db:"test_completed_by" json:"test_completed_by,omitempty"`
	CreatedAt                time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time        `db:"updated_at" json:"updated_at"`
}

// AcceptanceCriterion is one checklist item the customer signs off on
type AcceptanceCriterion struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	ModuleID   uuid.UUID    `db:"module_id" json:"module_id"`
	Text       string       `db:"text" json:"text"`
	Accepted   bool         `db:"accepted" json:"accepted"`
	AcceptedAt sql.NullTime `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// TestFeedback is a comment left during the im_test phase
type TestFeedback struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ModuleID  uuid.UUID `db:"module_id" json:"module_id"`
	Author    string    `db:"author" json:"author"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
