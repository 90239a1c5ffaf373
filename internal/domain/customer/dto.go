package customer

import "time"

// CreateCustomerRequest for POST /customers
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Company string `json:"company" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Advisor string `json:"advisor" validate:"omitempty,max=200"`

	Tier          string  `json:"tier" validate:"required,tier"`
	MonthlyPoints float64 `json:"monthly_points" validate:"required,gte=0"`
	MonthlyPrice  float64 `json:"monthly_price" validate:"omitempty,gte=0"`
	PeriodStart   string  `json:"period_start" validate:"omitempty"`
	PeriodEnd     string  `json:"period_end" validate:"omitempty"`
	ContractStart *string `json:"contract_start"`
	ContractEnd   *string `json:"contract_end"`
}

// UpdateCustomerRequest for PATCH /customers/{id}; only provided fields are applied
type UpdateCustomerRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=200"`
	Company *string `json:"company" validate:"omitempty,min=2,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Advisor *string `json:"advisor" validate:"omitempty,max=200"`
}

// UpdateMembershipRequest for PATCH /customers/{id}/membership (admin edit of
// the allowance and counters)
type UpdateMembershipRequest struct {
	Tier              *string  `json:"tier" validate:"omitempty,tier"`
	MonthlyPoints     *float64 `json:"monthly_points" validate:"omitempty,gte=0"`
	UsedPoints        *float64 `json:"used_points"`
	RemainingPoints   *float64 `json:"remaining_points"`
	MonthlyPrice      *float64 `json:"monthly_price" validate:"omitempty,gte=0"`
	PeriodStart       *string  `json:"period_start"`
	PeriodEnd         *string  `json:"period_end"`
	ContractStart     *string  `json:"contract_start"`
	ContractEnd       *string  `json:"contract_end"`
	CarriedOverMonth1 *float64 `json:"carried_over_month_1" validate:"omitempty,gte=0"`
	CarriedOverMonth2 *float64 `json:"carried_over_month_2" validate:"omitempty,gte=0"`
	CarriedOverMonth3 *float64 `json:"carried_over_month_3" validate:"omitempty,gte=0"`
}

// IssueCredentialRequest for POST /customers/{id}/credentials
type IssueCredentialRequest struct {
	Type string `json:"type" validate:"required,oneof=password pin"`
}

// IssueCredentialResponse is returned with the plaintext value exactly once
type IssueCredentialResponse struct {
	Success bool   `json:"success"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// CustomerResponse combines a customer with its membership for API responses
type CustomerResponse struct {
	*Customer
	Membership *Membership `json:"membership,omitempty"`
}

// parseDate parses a yyyy-mm-dd or RFC3339 date string
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
