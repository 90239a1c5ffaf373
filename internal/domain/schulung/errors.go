package schulung

import "errors"

var (
	ErrSerieNotFound      = errors.New("serie not found")
	ErrSchulungNotFound   = errors.New("schulung not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAlreadyAssigned    = errors.New("schulung already assigned to customer")
)
