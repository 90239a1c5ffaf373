package message

// SendRequest creates a new message in a customer's thread. Direction is
// derived from the caller's role, not from the payload.
type SendRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	From    string `json:"from" validate:"omitempty,max=100"`
}

// UnreadCountResponse reports unread totals for one side of the thread
type UnreadCountResponse struct {
	Count int `json:"count"`
}
