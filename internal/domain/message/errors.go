package message

import "errors"

var (
	ErrNotFound         = errors.New("message not found")
	ErrInvalidDirection = errors.New("invalid message direction")
)
