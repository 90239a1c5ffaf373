package customer

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Tier represents a membership tier
type Tier string

const (
	TierS Tier = "S"
	TierM Tier = "M"
	TierL Tier = "L"
)

// Customer represents a consulting customer account
type Customer struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Company      string         `db:"company" json:"company"`
	Email        string         `db:"email" json:"email"`
	Phone        sql.NullString `db:"phone" json:"phone,omitempty"`
	CustomerCode string         `db:"customer_code" json:"customer_code"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Advisor      sql.NullString `db:"advisor" json:"advisor,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Membership represents a customer's billing-period point allowance.
// UsedPoints and RemainingPoints are maintained in lockstep by the ledger:
// used + remaining == monthly after every transaction-affecting operation.
// RemainingPoints may go negative; over-budget spending is allowed.
type Membership struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	CustomerID      uuid.UUID    `db:"customer_id" json:"customer_id"`
	Tier            Tier         `db:"tier" json:"tier"`
	MonthlyPoints   float64      `db:"monthly_points" json:"monthly_points"`
	UsedPoints      float64      `db:"used_points" json:"used_points"`
	RemainingPoints float64      `db:"remaining_points" json:"remaining_points"`
	MonthlyPrice    float64      `db:"monthly_price" json:"monthly_price"`
	PeriodStart     time.Time    `db:"period_start" json:"period_start"`
	PeriodEnd       time.Time    `db:"period_end" json:"period_end"`
	ContractStart   sql.NullTime `db:"contract_start" json:"contract_start,omitempty"`
	ContractEnd     sql.NullTime `db:"contract_end" json:"contract_end,omitempty"`

	// Points rolled over from up to three prior periods (3-month expiry)
	CarriedOverMonth1 float64 `db:"carried_over_month_1" json:"carried_over_month_1"`
	CarriedOverMonth2 float64 `db:"carried_over_month_2" json:"carried_over_month_2"`
	CarriedOverMonth3 float64 `db:"carried_over_month_3" json:"carried_over_month_3"`

	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
