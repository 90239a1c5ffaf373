package certificate

// IssueRequest issues certificates for a batch of participants. All
// certificates of one request share a single issuance timestamp.
type IssueRequest struct {
	SerieID      string   `json:"serie_id" validate:"required,uuid"`
	CustomerID   string   `json:"customer_id" validate:"required,uuid"`
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
}
