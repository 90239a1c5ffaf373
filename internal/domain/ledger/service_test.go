package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository that mirrors the counter bookkeeping the
// SQL repository performs, so the conservation invariant can be checked
// without a database.
type memRepo struct {
	customerID uuid.UUID

	monthly   float64
	used      float64
	remaining float64

	transactions map[uuid.UUID]*PointTransaction
}

func newMemRepo(customerID uuid.UUID, monthly float64) *memRepo {
	return &memRepo{
		customerID:   customerID,
		monthly:      monthly,
		remaining:    monthly,
		transactions: make(map[uuid.UUID]*PointTransaction),
	}
}

func (r *memRepo) apply(delta float64) {
	r.used += delta
	r.remaining -= delta
}

func (r *memRepo) Book(_ context.Context, t *PointTransaction) error {
	if t.CustomerID != r.customerID {
		return ErrCustomerNotFound
	}
	cp := *t
	r.transactions[t.ID] = &cp
	r.apply(t.Points)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, customerID, txID uuid.UUID) (*PointTransaction, error) {
	t, ok := r.transactions[txID]
	if !ok || t.CustomerID != customerID {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, t *PointTransaction, pointsDiff float64) error {
	existing, ok := r.transactions[t.ID]
	if !ok || existing.CustomerID != t.CustomerID {
		return ErrNotFound
	}
	cp := *t
	r.transactions[t.ID] = &cp
	r.apply(pointsDiff)
	return nil
}

func (r *memRepo) Delete(_ context.Context, customerID, txID uuid.UUID) error {
	t, ok := r.transactions[txID]
	if !ok || t.CustomerID != customerID {
		return ErrNotFound
	}
	delete(r.transactions, txID)
	r.apply(-t.Points)
	return nil
}

func (r *memRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*PointTransaction, error) {
	var out []*PointTransaction
	for _, t := range r.transactions {
		if t.CustomerID == customerID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) assertConserved(t *testing.T) {
	t.Helper()
	if r.used+r.remaining != r.monthly {
		t.Fatalf("conservation violated: used=%v remaining=%v monthly=%v", r.used, r.remaining, r.monthly)
	}
}

func ptrFloat(f float64) *float64 { return &f }
func ptrString(s string) *string  { return &s }

func TestBookEditDeleteConservation(t *testing.T) {
	customerID := uuid.New()
	repo := newMemRepo(customerID, 100)
	svc := NewService(repo)
	ctx := context.Background()

	// Book 15 points
	tx, err := svc.Book(ctx, customerID, &BookRequest{
		Description: "Chatbot Umsetzung",
		Points:      15,
		Date:        "2026-02-01",
		Category:    "entwicklung",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.used != 15 || repo.remaining != 85 {
		t.Fatalf("expected used=15 remaining=85, got used=%v remaining=%v", repo.used, repo.remaining)
	}
	repo.assertConserved(t)

	// Edit to 20 points: only the difference is applied
	_, err = svc.Edit(ctx, customerID, tx.ID, &EditRequest{Points: ptrFloat(20)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.used != 20 || repo.remaining != 80 {
		t.Fatalf("expected used=20 remaining=80, got used=%v remaining=%v", repo.used, repo.remaining)
	}
	repo.assertConserved(t)

	// Delete: the debit is reversed
	if err := svc.Delete(ctx, customerID, tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.used != 0 || repo.remaining != 100 {
		t.Fatalf("expected used=0 remaining=100, got used=%v remaining=%v", repo.used, repo.remaining)
	}
	repo.assertConserved(t)
}

func TestBookAllowsNegativeRemaining(t *testing.T) {
	customerID := uuid.New()
	repo := newMemRepo(customerID, 10)
	svc := NewService(repo)

	_, err := svc.Book(context.Background(), customerID, &BookRequest{
		Description: "Workshop",
		Points:      25,
		Date:        "2026-02-10",
		Category:    "beratung",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.remaining != -15 {
		t.Fatalf("expected remaining=-15, got %v", repo.remaining)
	}
	repo.assertConserved(t)
}

func TestEditNonPointsFieldsLeavesCounters(t *testing.T) {
	customerID := uuid.New()
	repo := newMemRepo(customerID, 50)
	svc := NewService(repo)
	ctx := context.Background()

	tx, err := svc.Book(ctx, customerID, &BookRequest{
		Description: "Analyse Bestandsdaten",
		Points:      5,
		Date:        "2026-01-20",
		Category:    "analyse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Edit(ctx, customerID, tx.ID, &EditRequest{
		Description: ptrString("Analyse Bestandsdaten (erweitert)"),
		Category:    ptrString("beratung"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != "Analyse Bestandsdaten (erweitert)" {
		t.Fatalf("description not applied: %q", updated.Description)
	}
	if updated.Category != CategoryBeratung {
		t.Fatalf("category not applied: %q", updated.Category)
	}
	if updated.Points != 5 {
		t.Fatalf("points changed unexpectedly: %v", updated.Points)
	}
	if repo.used != 5 || repo.remaining != 45 {
		t.Fatalf("counters moved on non-points edit: used=%v remaining=%v", repo.used, repo.remaining)
	}
}

func TestCrossTenantEditIsNotFound(t *testing.T) {
	owner := uuid.New()
	repo := newMemRepo(owner, 100)
	svc := NewService(repo)
	ctx := context.Background()

	tx, err := svc.Book(ctx, owner, &BookRequest{
		Description: "Wartung",
		Points:      8,
		Date:        "2026-02-05",
		Category:    "wartung",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intruder := uuid.New()
	_, err = svc.Edit(ctx, intruder, tx.ID, &EditRequest{Points: ptrFloat(999)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, intruder, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Counters untouched by the failed cross-tenant attempts
	if repo.used != 8 || repo.remaining != 92 {
		t.Fatalf("counters mutated: used=%v remaining=%v", repo.used, repo.remaining)
	}
}

func TestBookRejectsNegativePoints(t *testing.T) {
	customerID := uuid.New()
	svc := NewService(newMemRepo(customerID, 100))

	_, err := svc.Book(context.Background(), customerID, &BookRequest{
		Description: "invalid",
		Points:      -1,
		Date:        "2026-02-01",
		Category:    "entwicklung",
	})
	if !errors.Is(err, ErrInvalidPoints) {
		t.Fatalf("expected ErrInvalidPoints, got %v", err)
	}
}

func TestBookRejectsBadDate(t *testing.T) {
	customerID := uuid.New()
	svc := NewService(newMemRepo(customerID, 100))

	_, err := svc.Book(context.Background(), customerID, &BookRequest{
		Description: "invalid",
		Points:      1,
		Date:        "not-a-date",
		Category:    "entwicklung",
	})
	if !errors.Is(err, ErrInvalidPoints) {
		t.Fatalf("expected ErrInvalidPoints, got %v", err)
	}
}

func TestBookUnknownCustomer(t *testing.T) {
	repo := newMemRepo(uuid.New(), 100)
	svc := NewService(repo)

	_, err := svc.Book(context.Background(), uuid.New(), &BookRequest{
		Description: "no membership",
		Points:      3,
		Date:        "2026-02-01",
		Category:    "schulung",
	})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
