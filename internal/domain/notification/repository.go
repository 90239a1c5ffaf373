package notification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines notification data access
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Notification, error)
	CountUnreadByCustomer(ctx context.Context, customerID uuid.UUID) (int, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error
	ClearActionRequired(ctx context.Context, moduleID uuid.UUID, notifType Type) (int64, error)
	ListActionRequiredByModule(ctx context.Context, moduleID uuid.UUID, notifType Type) ([]*Notification, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates notification repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, customer_id, type, title, body, action_required, read, related_module_id, related_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.CustomerID,
		n.Type,
		n.Title,
		n.Body,
		n.ActionRequired,
		n.Read,
		n.RelatedModuleID,
		n.RelatedURL,
		n.CreatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	var n Notification
	err := r.db.GetContext(ctx, &n, `SELECT * FROM notifications WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var notifications []*Notification
	err := r.db.SelectContext(ctx, &notifications, query, customerID, limit, offset)
	return notifications, err
}

func (r *repository) CountUnreadByCustomer(ctx context.Context, customerID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE customer_id = $1 AND NOT read`
	var count int
	err := r.db.GetContext(ctx, &count, query, customerID)
	return count, err
}

func (r *repository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET read = true, read_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error {
	query := `UPDATE notifications SET read = true, read_at = NOW() WHERE customer_id = $1 AND NOT read`
	_, err := r.db.ExecContext(ctx, query, customerID)
	return err
}

// ClearActionRequired clears the action flag on all notifications of the
// given type for a module. The notifications themselves are kept.
func (r *repository) ClearActionRequired(ctx context.Context, moduleID uuid.UUID, notifType Type) (int64, error) {
	query := `
		UPDATE notifications
		SET action_required = false
		WHERE related_module_id = $1 AND type = $2 AND action_required
	`
	result, err := r.db.ExecContext(ctx, query, moduleID, notifType)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *repository) ListActionRequiredByModule(ctx context.Context, moduleID uuid.UUID, notifType Type) ([]*Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE related_module_id = $1 AND type = $2 AND action_required
		ORDER BY created_at DESC
	`
	var notifications []*Notification
	err := r.db.SelectContext(ctx, &notifications, query, moduleID, notifType)
	return notifications, err
}

// DeleteOlderThan removes all notifications older than the specified duration
func (r *repository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
