package certificate

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines certificate data access
type Repository interface {
	Create(ctx context.Context, c *Certificate) error
	GetByHash(ctx context.Context, hash string) (*Certificate, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Certificate, error)
	ListAll(ctx context.Context) ([]*Certificate, error)
	IncrementDownloads(ctx context.Context, hash string) (*Certificate, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates certificate repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Certificate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO certificates (id, serie_id, customer_id, participant_name, hash, issued_at, download_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.SerieID, c.CustomerID, c.ParticipantName, c.Hash, c.IssuedAt, c.DownloadCount, c.CreatedAt)
	return err
}

func (r *repository) GetByHash(ctx context.Context, hash string) (*Certificate, error) {
	var c Certificate
	err := r.db.GetContext(ctx, &c, `SELECT * FROM certificates WHERE hash = $1`, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Certificate, error) {
	var certs []*Certificate
	err := r.db.SelectContext(ctx, &certs, `
		SELECT * FROM certificates
		WHERE customer_id = $1
		ORDER BY issued_at DESC
	`, customerID)
	return certs, err
}

func (r *repository) ListAll(ctx context.Context) ([]*Certificate, error) {
	var certs []*Certificate
	err := r.db.SelectContext(ctx, &certs, `SELECT * FROM certificates ORDER BY issued_at DESC`)
	return certs, err
}

func (r *repository) IncrementDownloads(ctx context.Context, hash string) (*Certificate, error) {
	var c Certificate
	err := r.db.GetContext(ctx, &c, `
		UPDATE certificates SET download_count = download_count + 1
		WHERE hash = $1
		RETURNING *
	`, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
