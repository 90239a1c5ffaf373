package module

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines module data access
type Repository interface {
	Create(ctx context.Context, m *Module, criteria []*AcceptanceCriterion) error
	GetByID(ctx context.Context, id uuid.UUID) (*Module, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Module, error)
	ListAll(ctx context.Context) ([]*Module, error)
	Update(ctx context.Context, m *Module) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListCriteria(ctx context.Context, moduleID uuid.UUID) ([]*AcceptanceCriterion, error)
	GetCriterion(ctx context.Context, moduleID, criterionID uuid.UUID) (*AcceptanceCriterion, error)
	AddCriterion(ctx context.Context, c *AcceptanceCriterion) error
	SetCriterionAccepted(ctx context.Context, moduleID, criterionID uuid.UUID, accepted bool, at time.Time) error
	SetAllCriteriaAccepted(ctx context.Context, moduleID uuid.UUID, accepted bool, at time.Time) error

	AddFeedback(ctx context.Context, f *TestFeedback) error
	ListFeedback(ctx context.Context, moduleID uuid.UUID) ([]*TestFeedback, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates module repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Module, criteria []*AcceptanceCriterion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO modules (id, customer_id, title, description, status, acceptance_status, live_status,
			monthly_maintenance_points, progress, assignee, customer_contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, m.ID, m.CustomerID, m.Title, m.Description, m.Status, m.AcceptanceStatus, m.LiveStatus,
		m.MonthlyMaintenancePoints, m.Progress, m.Assignee, m.CustomerContact, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return err
	}

	for _, c := range criteria {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO acceptance_criteria (id, module_id, text, accepted, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, c.ModuleID, c.Text, c.Accepted, c.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Module, error) {
	var m Module
	err := r.db.GetContext(ctx, &m, `SELECT * FROM modules WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Module, error) {
	var modules []*Module
	err := r.db.SelectContext(ctx, &modules, `
		SELECT * FROM modules
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	return modules, err
}

func (r *repository) ListAll(ctx context.Context) ([]*Module, error) {
	var modules []*Module
	err := r.db.SelectContext(ctx, &modules, `SELECT * FROM modules ORDER BY created_at DESC`)
	return modules, err
}

func (r *repository) Update(ctx context.Context, m *Module) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE modules
		SET title = $2, description = $3, status = $4, acceptance_status = $5, live_status = $6,
			monthly_maintenance_points = $7, progress = $8, assignee = $9, customer_contact = $10,
			accepted_at = $11, accepted_by = $12, test_completed_at = $13, test_completed_by = $14,
			updated_at = NOW()
		WHERE id = $1
	`, m.ID, m.Title, m.Description, m.Status, m.AcceptanceStatus, m.LiveStatus,
		m.MonthlyMaintenancePoints, m.Progress, m.Assignee, m.CustomerContact,
		m.AcceptedAt, m.AcceptedBy, m.TestCompletedAt, m.TestCompletedBy)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListCriteria(ctx context.Context, moduleID uuid.UUID) ([]*AcceptanceCriterion, error) {
	var criteria []*AcceptanceCriterion
	err := r.db.SelectContext(ctx, &criteria, `
		SELECT * FROM acceptance_criteria
		WHERE module_id = $1
		ORDER BY created_at ASC
	`, moduleID)
	return criteria, err
}

func (r *repository) GetCriterion(ctx context.Context, moduleID, criterionID uuid.UUID) (*AcceptanceCriterion, error) {
	var c AcceptanceCriterion
	err := r.db.GetContext(ctx, &c,
		`SELECT * FROM acceptance_criteria WHERE id = $1 AND module_id = $2`, criterionID, moduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCriterionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) AddCriterion(ctx context.Context, c *AcceptanceCriterion) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO acceptance_criteria (id, module_id, text, accepted, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.ModuleID, c.Text, c.Accepted, c.CreatedAt)
	return err
}

func (r *repository) SetCriterionAccepted(ctx context.Context, moduleID, criterionID uuid.UUID, accepted bool, at time.Time) error {
	acceptedAt := sql.NullTime{Time: at, Valid: accepted}
	res, err := r.db.ExecContext(ctx, `
		UPDATE acceptance_criteria SET accepted = $3, accepted_at = $4
		WHERE id = $1 AND module_id = $2
	`, criterionID, moduleID, accepted, acceptedAt)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCriterionNotFound
	}
	return nil
}

func (r *repository) SetAllCriteriaAccepted(ctx context.Context, moduleID uuid.UUID, accepted bool, at time.Time) error {
	acceptedAt := sql.NullTime{Time: at, Valid: accepted}
	_, err := r.db.ExecContext(ctx, `
		UPDATE acceptance_criteria SET accepted = $2, accepted_at = $3
		WHERE module_id = $1
	`, moduleID, accepted, acceptedAt)
	return err
}

func (r *repository) AddFeedback(ctx context.Context, f *TestFeedback) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO test_feedback (id, module_id, author, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, f.ID, f.ModuleID, f.Author, f.Content, f.CreatedAt)
	return err
}

func (r *repository) ListFeedback(ctx context.Context, moduleID uuid.UUID) ([]*TestFeedback, error) {
	var feedback []*TestFeedback
	err := r.db.SelectContext(ctx, &feedback, `
		SELECT * FROM test_feedback
		WHERE module_id = $1
		ORDER BY created_at DESC
	`, moduleID)
	return feedback, err
}
