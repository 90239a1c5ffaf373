package schulung

// CreateSerieRequest creates a training serie
type CreateSerieRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty"`
	Position    int    `json:"position" validate:"gte=0"`
}

// CreateSchulungRequest creates a training unit inside a serie
type CreateSchulungRequest struct {
	SerieID         string `json:"serie_id" validate:"required,uuid"`
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"omitempty"`
	Position        int    `json:"position" validate:"gte=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
}

// AssignRequest assigns a training unit to the customer in the URL
type AssignRequest struct {
	SchulungID string `json:"schulung_id" validate:"required,uuid"`
}

// UpdateAssignmentStatusRequest moves an assignment to another status
type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,assignment_status"`
}

// SerieWithSchulungen bundles a serie with its units for the catalog view
type SerieWithSchulungen struct {
	*Serie
	Schulungen []*Schulung `json:"schulungen"`
}
