package schulung

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines schulung data access
type Repository interface {
	CreateSerie(ctx context.Context, s *Serie) error
	GetSerie(ctx context.Context, id uuid.UUID) (*Serie, error)
	ListSerien(ctx context.Context) ([]*Serie, error)

	CreateSchulung(ctx context.Context, s *Schulung) error
	GetSchulung(ctx context.Context, id uuid.UUID) (*Schulung, error)
	ListSchulungen(ctx context.Context, serieID uuid.UUID) ([]*Schulung, error)
	ListAllSchulungen(ctx context.Context) ([]*Schulung, error)

	CreateAssignment(ctx context.Context, a *SchulungAssignment) error
	GetAssignment(ctx context.Context, customerID, assignmentID uuid.UUID) (*SchulungAssignment, error)
	UpdateAssignment(ctx context.Context, a *SchulungAssignment) error
	ListAssignmentsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*SchulungAssignment, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates schulung repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSerie(ctx context.Context, s *Serie) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO serien (id, title, description, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.Title, s.Description, s.Position, s.CreatedAt)
	return err
}

func (r *repository) GetSerie(ctx context.Context, id uuid.UUID) (*Serie, error) {
	var s Serie
	err := r.db.GetContext(ctx, &s, `SELECT * FROM serien WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSerieNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListSerien(ctx context.Context) ([]*Serie, error) {
	var serien []*Serie
	err := r.db.SelectContext(ctx, &serien, `SELECT * FROM serien ORDER BY position ASC, created_at ASC`)
	return serien, err
}

func (r *repository) CreateSchulung(ctx context.Context, s *Schulung) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schulungen (id, serie_id, title, description, position, duration_minutes, video_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.SerieID, s.Title, s.Description, s.Position, s.DurationMinutes, s.VideoURL, s.CreatedAt)
	return err
}

func (r *repository) GetSchulung(ctx context.Context, id uuid.UUID) (*Schulung, error) {
	var s Schulung
	err := r.db.GetContext(ctx, &s, `SELECT * FROM schulungen WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSchulungNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListSchulungen(ctx context.Context, serieID uuid.UUID) ([]*Schulung, error) {
	var schulungen []*Schulung
	err := r.db.SelectContext(ctx, &schulungen, `
		SELECT * FROM schulungen
		WHERE serie_id = $1
		ORDER BY position ASC, created_at ASC
	`, serieID)
	return schulungen, err
}

func (r *repository) ListAllSchulungen(ctx context.Context) ([]*Schulung, error) {
	var schulungen []*Schulung
	err := r.db.SelectContext(ctx, &schulungen,
		`SELECT * FROM schulungen ORDER BY serie_id, position ASC`)
	return schulungen, err
}

func (r *repository) CreateAssignment(ctx context.Context, a *SchulungAssignment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schulung_assignments (id, customer_id, schulung_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.CustomerID, a.SchulungID, a.Status, a.CreatedAt, a.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyAssigned
	}
	return err
}

func (r *repository) GetAssignment(ctx context.Context, customerID, assignmentID uuid.UUID) (*SchulungAssignment, error) {
	var a SchulungAssignment
	err := r.db.GetContext(ctx, &a,
		`SELECT * FROM schulung_assignments WHERE id = $1 AND customer_id = $2`, assignmentID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateAssignment(ctx context.Context, a *SchulungAssignment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schulung_assignments
		SET status = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1 AND customer_id = $2
	`, a.ID, a.CustomerID, a.Status, a.CompletedAt)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *repository) ListAssignmentsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*SchulungAssignment, error) {
	var assignments []*SchulungAssignment
	err := r.db.SelectContext(ctx, &assignments, `
		SELECT * FROM schulung_assignments
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	return assignments, err
}
