package schulung

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus mirrors the module kanban for training progress
type AssignmentStatus string

const (
	AssignmentOffen         AssignmentStatus = "offen"
	AssignmentInBearbeitung AssignmentStatus = "in_bearbeitung"
	AssignmentAbgeschlossen AssignmentStatus = "abgeschlossen"
)

// StatusLabels maps an assignment status to its audit label
var StatusLabels = map[AssignmentStatus]string{
	AssignmentOffen:         "Offen",
	AssignmentInBearbeitung: "In Bearbeitung",
	AssignmentAbgeschlossen: "Abgeschlossen",
}

// Serie is an ordered bundle of trainings
type Serie struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	Position    int            `db:"position" json:"position"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Schulung is a single training unit inside a serie
type Schulung struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	SerieID         uuid.UUID      `db:"serie_id" json:"serie_id"`
	Title           string         `db:"title" json:"title"`
	Description     sql.NullString `db:"description" json:"description,omitempty"`
	Position        int            `db:"position" json:"position"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`
	VideoURL        sql.NullString `db:"video_url" json:"video_url,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// SchulungAssignment links a customer to a training unit
type SchulungAssignment struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	CustomerID  uuid.UUID        `db:"customer_id" json:"customer_id"`
	SchulungID  uuid.UUID        `db:"schulung_id" json:"schulung_id"`
	Status      AssignmentStatus `db:"status" json:"status"`
	CompletedAt sql.NullTime     `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
