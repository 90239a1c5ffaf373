package ledger

import "errors"

var (
	// ErrNotFound covers both an absent transaction and a cross-tenant miss:
	// a transaction owned by a different customer is reported as not found.
	ErrNotFound = errors.New("transaction not found")

	// ErrCustomerNotFound is returned when the customer or its membership is absent
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidPoints is returned when points are negative or not parseable
	ErrInvalidPoints = errors.New("points must be a non-negative number")
)
