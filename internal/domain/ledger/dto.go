package ledger

import "time"

// BookRequest for POST /customers/{id}/points
type BookRequest struct {
	Description          string  `json:"description" validate:"required,min=1,max=500"`
	Points               float64 `json:"points" validate:"gte=0"`
	Date                 string  `json:"date" validate:"required"`
	Category             string  `json:"category" validate:"required,point_category"`
	ModuleID             *string `json:"module_id" validate:"omitempty,uuid"`
	SchulungAssignmentID *string `json:"schulung_assignment_id" validate:"omitempty,uuid"`
}

// EditRequest for PATCH /customers/{id}/points/{txId}; only provided fields
// are applied.
type EditRequest struct {
	Description *string  `json:"description" validate:"omitempty,min=1,max=500"`
	Points      *float64 `json:"points" validate:"omitempty,gte=0"`
	Date        *string  `json:"date"`
	Category    *string  `json:"category" validate:"omitempty,point_category"`
	ModuleID    *string  `json:"module_id" validate:"omitempty,uuid"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
