package credentials

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrPinExhausted is returned when no free PIN is found within the attempt budget.
var ErrPinExhausted = errors.New("could not generate a unique PIN within attempt budget")

const (
	// DefaultPasswordLength is the length of generated customer passwords.
	DefaultPasswordLength = 12

	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%&*"

	pinMin = 1000
	pinMax = 9999

	maxPinAttempts = 100
)

// CodeChecker reports whether a customer code is already taken.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// GeneratePassword draws length characters uniformly from a fixed
// alphanumeric+symbol set using crypto/rand.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}

	alphabetSize := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}

// GenerateUniquePin draws 4-digit numeric codes (1000-9999) until one is not
// in use, retrying up to 100 times. Returns ErrPinExhausted when the attempt
// budget runs out.
func GenerateUniquePin(ctx context.Context, checker CodeChecker) (string, error) {
	for attempt := 0; attempt < maxPinAttempts; attempt++ {
		pin, err := randomPin()
		if err != nil {
			return "", err
		}

		exists, err := checker.CodeExists(ctx, pin)
		if err != nil {
			return "", err
		}
		if !exists {
			return pin, nil
		}
	}
	return "", ErrPinExhausted
}

func randomPin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(pinMax-pinMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", pinMin+n.Int64()), nil
}
