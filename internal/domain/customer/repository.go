package customer

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines customer data access
type Repository interface {
	Create(ctx context.Context, c *Customer, m *Membership) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByCode(ctx context.Context, code string) (*Customer, error)
	GetMembership(ctx context.Context, customerID uuid.UUID) (*Membership, error)
	List(ctx context.Context, limit, offset int) ([]*Customer, int, error)
	Update(ctx context.Context, c *Customer) error
	UpdateMembership(ctx context.Context, m *Membership) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	SetCustomerCode(ctx context.Context, id uuid.UUID, code string) error
	CodeExists(ctx context.Context, code string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates customer repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Customer, m *Membership) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO customers (id, name, company, email, phone, customer_code, password_hash, advisor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Name, c.Company, c.Email, c.Phone, c.CustomerCode, c.PasswordHash, c.Advisor, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapDBError(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (
			id, customer_id, tier, monthly_points, used_points, remaining_points,
			monthly_price, period_start, period_end, contract_start, contract_end,
			carried_over_month_1, carried_over_month_2, carried_over_month_3, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, m.ID, m.CustomerID, m.Tier, m.MonthlyPoints, m.UsedPoints, m.RemainingPoints,
		m.MonthlyPrice, m.PeriodStart, m.PeriodEnd, m.ContractStart, m.ContractEnd,
		m.CarriedOverMonth1, m.CarriedOverMonth2, m.CarriedOverMonth3, m.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, `SELECT * FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, `SELECT * FROM customers WHERE customer_code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetMembership(ctx context.Context, customerID uuid.UUID) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `SELECT * FROM memberships WHERE customer_id = $1`, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Customer, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM customers`); err != nil {
		return nil, 0, err
	}

	var customers []*Customer
	err := r.db.SelectContext(ctx, &customers, `
		SELECT * FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return customers, total, err
}

func (r *repository) Update(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customers SET
			name = $2, company = $3, email = $4, phone = $5, advisor = $6,
			updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Company, c.Email, c.Phone, c.Advisor)
	return mapDBError(err)
}

func (r *repository) UpdateMembership(ctx context.Context, m *Membership) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE memberships SET
			tier = $2, monthly_points = $3, used_points = $4, remaining_points = $5,
			monthly_price = $6, period_start = $7, period_end = $8,
			contract_start = $9, contract_end = $10,
			carried_over_month_1 = $11, carried_over_month_2 = $12, carried_over_month_3 = $13,
			updated_at = NOW()
		WHERE id = $1
	`, m.ID, m.Tier, m.MonthlyPoints, m.UsedPoints, m.RemainingPoints,
		m.MonthlyPrice, m.PeriodStart, m.PeriodEnd,
		m.ContractStart, m.ContractEnd,
		m.CarriedOverMonth1, m.CarriedOverMonth2, m.CarriedOverMonth3)
	return err
}

func (r *repository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE customers SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	return err
}

func (r *repository) SetCustomerCode(ctx context.Context, id uuid.UUID, code string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE customers SET customer_code = $2, updated_at = NOW() WHERE id = $1`, id, code)
	return mapDBError(err)
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM customers WHERE customer_code = $1`, code)
	return count > 0, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "email") {
			return ErrDuplicateEmail
		}
		return ErrDuplicateCode
	}
	return err
}
