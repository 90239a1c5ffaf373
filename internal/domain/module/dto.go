package module

// CreateModuleRequest creates a module on a customer's board
type CreateModuleRequest struct {
	CustomerID               string   `json:"customer_id" validate:"required,uuid"`
	Title                    string   `json:"title" validate:"required,max=200"`
	Description              string   `json:"description" validate:"omitempty"`
	Status                   string   `json:"status" validate:"omitempty,module_status"`
	MonthlyMaintenancePoints *float64 `json:"monthly_maintenance_points" validate:"omitempty,gte=0"`
	Progress                 *int     `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Assignee                 string   `json:"assignee" validate:"omitempty,max=100"`
	CustomerContact          string   `json:"customer_contact" validate:"omitempty,max=100"`
	AcceptanceCriteria       []string `json:"acceptance_criteria" validate:"omitempty,dive,required"`
}

// UpdateModuleRequest patches a module; only non-nil fields are applied.
// A status change is routed through the transition logic with its side
// effects, same as the dedicated status endpoint.
type UpdateModuleRequest struct {
	Title                    *string  `json:"title" validate:"omitempty,max=200"`
	Description              *string  `json:"description"`
	Status                   *string  `json:"status" validate:"omitempty,module_status"`
	LiveStatus               *string  `json:"live_status" validate:"omitempty,live_status"`
	MonthlyMaintenancePoints *float64 `json:"monthly_maintenance_points" validate:"omitempty,gte=0"`
	Progress                 *int     `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Assignee                 *string  `json:"assignee" validate:"omitempty,max=100"`
	CustomerContact          *string  `json:"customer_contact" validate:"omitempty,max=100"`
}

// UpdateStatusRequest moves a module to another kanban column
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,module_status"`
}

// AcceptRequest accepts the module's acceptance criteria
type AcceptRequest struct {
	AcceptedBy string `json:"accepted_by" validate:"required,max=100"`
}

// RejectRequest rejects the acceptance criteria; a rationale is mandatory
type RejectRequest struct {
	RejectedBy string `json:"rejected_by" validate:"required,max=100"`
	Comment    string `json:"comment" validate:"required"`
}

// CompleteTestRequest records who finished testing the module
type CompleteTestRequest struct {
	CompletedBy string `json:"completed_by" validate:"required,max=100"`
}

// AddCriterionRequest appends an acceptance criterion
type AddCriterionRequest struct {
	Text string `json:"text" validate:"required"`
}

// AddFeedbackRequest appends test feedback
type AddFeedbackRequest struct {
	Author  string `json:"author" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}
