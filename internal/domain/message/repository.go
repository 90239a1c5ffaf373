package message

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines message data access
type Repository interface {
	Create(ctx context.Context, m *AdminMessage) error
	GetByID(ctx context.Context, customerID, messageID uuid.UUID) (*AdminMessage, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*AdminMessage, error)
	MarkRead(ctx context.Context, customerID, messageID uuid.UUID) error
	MarkCustomerRead(ctx context.Context, customerID, messageID uuid.UUID) error
	MarkAllCustomerRead(ctx context.Context, customerID uuid.UUID) error
	CountUnread(ctx context.Context, customerID uuid.UUID) (int, error)
	CountCustomerUnread(ctx context.Context, customerID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates message repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *AdminMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_messages (id, customer_id, subject, content, from_name, direction, is_read, customer_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, m.ID, m.CustomerID, m.Subject, m.Content, m.FromName, m.Direction, m.Read, m.CustomerRead, m.CreatedAt)
	return err
}

func (r *repository) GetByID(ctx context.Context, customerID, messageID uuid.UUID) (*AdminMessage, error) {
	var m AdminMessage
	err := r.db.GetContext(ctx, &m,
		`SELECT * FROM admin_messages WHERE id = $1 AND customer_id = $2`, messageID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*AdminMessage, error) {
	var messages []*AdminMessage
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM admin_messages
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	return messages, err
}

func (r *repository) MarkRead(ctx context.Context, customerID, messageID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_messages SET is_read = true
		WHERE id = $1 AND customer_id = $2
	`, messageID, customerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) MarkCustomerRead(ctx context.Context, customerID, messageID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_messages SET customer_read = true
		WHERE id = $1 AND customer_id = $2
	`, messageID, customerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) MarkAllCustomerRead(ctx context.Context, customerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_messages SET customer_read = true
		WHERE customer_id = $1 AND customer_read = false
	`, customerID)
	return err
}

// CountUnread counts incoming messages not yet read by an advisor
func (r *repository) CountUnread(ctx context.Context, customerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM admin_messages
		WHERE customer_id = $1 AND direction = $2 AND is_read = false
	`, customerID, DirectionIncoming)
	return count, err
}

// CountCustomerUnread counts outgoing messages not yet read by the customer
func (r *repository) CountCustomerUnread(ctx context.Context, customerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM admin_messages
		WHERE customer_id = $1 AND direction = $2 AND customer_read = false
	`, customerID, DirectionOutgoing)
	return count, err
}
