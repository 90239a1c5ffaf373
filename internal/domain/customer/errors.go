package customer

import "errors"

var (
	ErrNotFound       = errors.New("customer not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrDuplicateCode  = errors.New("customer code already in use")

	ErrInvalidCredentialType = errors.New("credential type must be password or pin")
)
