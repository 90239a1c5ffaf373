package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the billable category of a point transaction.
type Category string

const (
	CategoryEntwicklung Category = "entwicklung"
	CategoryWartung     Category = "wartung"
	CategorySchulung    Category = "schulung"
	CategoryBeratung    Category = "beratung"
	CategoryAnalyse     Category = "analyse"
)

// PointTransaction is one ledger entry debiting points against a membership.
// Points are always interpreted as a debit.
type PointTransaction struct {
	ID                   uuid.UUID     `db:"id" json:"id"`
	CustomerID           uuid.UUID     `db:"customer_id" json:"customer_id"`
	Description          string        `db:"description" json:"description"`
	Points               float64       `db:"points" json:"points"`
	Date                 time.Time     `db:"date" json:"date"`
	Category             Category      `db:"category" json:"category"`
	ModuleID             uuid.NullUUID `db:"module_id" json:"module_id,omitempty"`
	SchulungAssignmentID uuid.NullUUID `db:"schulung_assignment_id" json:"schulung_assignment_id,omitempty"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
}
