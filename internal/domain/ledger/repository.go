package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines ledger data access. Every counter-affecting operation
// runs in a single database transaction with the membership row locked, so
// the counters always reflect the live transaction set.
type Repository interface {
	Book(ctx context.Context, t *PointTransaction) error
	GetByID(ctx context.Context, customerID, txID uuid.UUID) (*PointTransaction, error)
	Update(ctx context.Context, t *PointTransaction, pointsDiff float64) error
	Delete(ctx context.Context, customerID, txID uuid.UUID) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*PointTransaction, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates ledger repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// lockMembership locks the customer's membership row and returns its id.
func (r *repository) lockMembership(ctx context.Context, tx *sqlx.Tx, customerID uuid.UUID) (uuid.UUID, error) {
	var membershipID uuid.UUID
	err := tx.GetContext(ctx, &membershipID,
		`SELECT id FROM memberships WHERE customer_id = $1 FOR UPDATE`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrCustomerNotFound
	}
	return membershipID, err
}

// applyPoints shifts the membership counters by delta points:
// used += delta, remaining -= delta.
func (r *repository) applyPoints(ctx context.Context, tx *sqlx.Tx, membershipID uuid.UUID, delta float64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE memberships
		SET used_points = used_points + $2,
			remaining_points = remaining_points - $2,
			updated_at = NOW()
		WHERE id = $1
	`, membershipID, delta)
	return err
}

func (r *repository) Book(ctx context.Context, t *PointTransaction) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	membershipID, err := r.lockMembership(ctx, tx, t.CustomerID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO point_transactions (id, customer_id, description, points, date, category, module_id, schulung_assignment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.CustomerID, t.Description, t.Points, t.Date, t.Category, t.ModuleID, t.SchulungAssignmentID, t.CreatedAt)
	if err != nil {
		return err
	}

	if err := r.applyPoints(ctx, tx, membershipID, t.Points); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, customerID, txID uuid.UUID) (*PointTransaction, error) {
	var t PointTransaction
	err := r.db.GetContext(ctx, &t,
		`SELECT * FROM point_transactions WHERE id = $1 AND customer_id = $2`, txID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *PointTransaction, pointsDiff float64) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	membershipID, err := r.lockMembership(ctx, tx, t.CustomerID)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE point_transactions
		SET description = $3, points = $4, date = $5, category = $6, module_id = $7
		WHERE id = $1 AND customer_id = $2
	`, t.ID, t.CustomerID, t.Description, t.Points, t.Date, t.Category, t.ModuleID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	if pointsDiff != 0 {
		if err := r.applyPoints(ctx, tx, membershipID, pointsDiff); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) Delete(ctx context.Context, customerID, txID uuid.UUID) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	membershipID, err := r.lockMembership(ctx, tx, customerID)
	if err != nil {
		return err
	}

	var points float64
	err = tx.GetContext(ctx, &points,
		`SELECT points FROM point_transactions WHERE id = $1 AND customer_id = $2`, txID, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM point_transactions WHERE id = $1 AND customer_id = $2`, txID, customerID); err != nil {
		return err
	}

	// Reverse the debit
	if err := r.applyPoints(ctx, tx, membershipID, -points); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*PointTransaction, error) {
	var transactions []*PointTransaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM point_transactions
		WHERE customer_id = $1
		ORDER BY date DESC, created_at DESC
	`, customerID)
	return transactions, err
}
