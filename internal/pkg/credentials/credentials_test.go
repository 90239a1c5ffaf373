package credentials

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
)

type checkerFunc func(ctx context.Context, code string) (bool, error)

func (f checkerFunc) CodeExists(ctx context.Context, code string) (bool, error) {
	return f(ctx, code)
}

func TestGeneratePasswordLength(t *testing.T) {
	pw, err := GeneratePassword(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pw) != 12 {
		t.Fatalf("expected 12 chars, got %d", len(pw))
	}
	for _, c := range pw {
		if !strings.ContainsRune(passwordAlphabet, c) {
			t.Fatalf("character %q not in alphabet", c)
		}
	}
}

func TestGeneratePasswordDefaultsLength(t *testing.T) {
	pw, err := GeneratePassword(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pw) != DefaultPasswordLength {
		t.Fatalf("expected %d chars, got %d", DefaultPasswordLength, len(pw))
	}
}

func TestGenerateUniquePinRange(t *testing.T) {
	pin, err := GenerateUniquePin(context.Background(), checkerFunc(func(context.Context, string) (bool, error) {
		return false, nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pin) != 4 {
		t.Fatalf("expected 4-digit pin, got %q", pin)
	}
	n, err := strconv.Atoi(pin)
	if err != nil {
		t.Fatalf("pin not numeric: %q", pin)
	}
	if n < pinMin || n > pinMax {
		t.Fatalf("pin %d out of range", n)
	}
}

func TestGenerateUniquePinSkipsTaken(t *testing.T) {
	calls := 0
	pin, err := GenerateUniquePin(context.Background(), checkerFunc(func(_ context.Context, code string) (bool, error) {
		calls++
		return calls < 3, nil // first two draws collide
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pin == "" {
		t.Fatal("expected a pin")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestGenerateUniquePinExhausted(t *testing.T) {
	calls := 0
	_, err := GenerateUniquePin(context.Background(), checkerFunc(func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}))
	if !errors.Is(err, ErrPinExhausted) {
		t.Fatalf("expected ErrPinExhausted, got %v", err)
	}
	if calls != maxPinAttempts {
		t.Fatalf("expected %d attempts, got %d", maxPinAttempts, calls)
	}
}

func TestGenerateUniquePinCheckerError(t *testing.T) {
	boom := errors.New("db down")
	_, err := GenerateUniquePin(context.Background(), checkerFunc(func(context.Context, string) (bool, error) {
		return false, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected checker error, got %v", err)
	}
}

func TestGeneratePasswordDrawsWholeAlphabet(t *testing.T) {
	// ~2400 draws from a 69-character set; a character that never shows up
	// points at a skewed draw.
	seen := make(map[rune]bool)
	for i := 0; i < 200; i++ {
		pw, err := GeneratePassword(12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, c := range pw {
			seen[c] = true
		}
	}
	for _, c := range passwordAlphabet {
		if !seen[c] {
			t.Fatalf("character %q never drawn", c)
		}
	}
}
