package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AdminRepository defines admin account data access
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
}

type adminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates admin repository
func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.db.GetContext(ctx, &a,
		`SELECT * FROM admins WHERE LOWER(email) = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	var a Admin
	err := r.db.GetContext(ctx, &a, `SELECT * FROM admins WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}
