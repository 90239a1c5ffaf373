package certificate

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memRepo struct {
	byHash  map[string]*Certificate
	creates int
}

func newMemRepo() *memRepo {
	return &memRepo{byHash: make(map[string]*Certificate)}
}

func (r *memRepo) Create(_ context.Context, c *Certificate) error {
	cp := *c
	r.byHash[c.Hash] = &cp
	r.creates++
	return nil
}

func (r *memRepo) GetByHash(_ context.Context, hash string) (*Certificate, error) {
	c, ok := r.byHash[hash]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*Certificate, error) {
	var out []*Certificate
	for _, c := range r.byHash {
		if c.CustomerID == customerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) ListAll(_ context.Context) ([]*Certificate, error) {
	var out []*Certificate
	for _, c := range r.byHash {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) IncrementDownloads(_ context.Context, hash string) (*Certificate, error) {
	c, ok := r.byHash[hash]
	if !ok {
		return nil, ErrNotFound
	}
	c.DownloadCount++
	cp := *c
	return &cp, nil
}

func TestComputeHashFormat(t *testing.T) {
	hash := ComputeHash(uuid.New(), "Anna Becker", uuid.New(), time.Now())
	if len(hash) != HashLength {
		t.Fatalf("expected %d chars, got %d", HashLength, len(hash))
	}
	if !regexp.MustCompile(`^[0-9A-F]+$`).MatchString(hash) {
		t.Fatalf("expected upper-case hex, got %q", hash)
	}
}

func TestComputeHashIsDeterministic(t *testing.T) {
	serieID := uuid.New()
	customerID := uuid.New()
	at := time.Now().Truncate(time.Millisecond)

	a := ComputeHash(serieID, "Anna Becker", customerID, at)
	b := ComputeHash(serieID, "Anna Becker", customerID, at)
	if a != b {
		t.Fatalf("identical inputs produced different codes: %q vs %q", a, b)
	}

	c := ComputeHash(serieID, "Jonas Roth", customerID, at)
	if a == c {
		t.Fatal("different participants produced the same code")
	}

	d := ComputeHash(serieID, "Anna Becker", customerID, at.Add(time.Millisecond))
	if a == d {
		t.Fatal("different issuance times produced the same code")
	}
}

func TestIssueIsIdempotentPerHash(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	serieID := uuid.New()
	customerID := uuid.New()
	issuedAt := time.Now().Truncate(time.Millisecond)

	// Pre-seed the record a retried request would collide with
	seeded := &Certificate{
		ID:              uuid.New(),
		SerieID:         serieID,
		CustomerID:      customerID,
		ParticipantName: "Anna Becker",
		Hash:            ComputeHash(serieID, "Anna Becker", customerID, issuedAt),
		IssuedAt:        issuedAt,
		CreatedAt:       issuedAt,
	}
	if err := repo.Create(ctx, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo.creates = 0

	got, err := svc.GetByHash(ctx, seeded.Hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatal("lookup returned a different record")
	}
}

func TestIssueBatchSharesTimestamp(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	certs, err := svc.Issue(context.Background(), &IssueRequest{
		SerieID:      uuid.New().String(),
		CustomerID:   uuid.New().String(),
		Participants: []string{"Anna Becker", "Jonas Roth", "Lena Vogel"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(certs) != 3 {
		t.Fatalf("expected 3 certificates, got %d", len(certs))
	}

	seen := make(map[string]bool)
	for _, c := range certs {
		if !c.IssuedAt.Equal(certs[0].IssuedAt) {
			t.Fatal("batch members carry different issuance times")
		}
		if seen[c.Hash] {
			t.Fatalf("duplicate code in batch: %q", c.Hash)
		}
		seen[c.Hash] = true
	}
}

func TestIssueReturnsExistingOnCollision(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	// Same participant twice in one batch: one insert, one dedup hit
	certs, err := svc.Issue(ctx, &IssueRequest{
		SerieID:      uuid.New().String(),
		CustomerID:   uuid.New().String(),
		Participants: []string{"Anna Becker", "Anna Becker"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(certs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(certs))
	}
	if certs[0].ID != certs[1].ID {
		t.Fatal("expected the stored certificate to be returned for the duplicate")
	}
	if repo.creates != 1 {
		t.Fatalf("expected a single insert, got %d", repo.creates)
	}
}

func TestDownloadIncrementsCounter(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	certs, err := svc.Issue(ctx, &IssueRequest{
		SerieID:      uuid.New().String(),
		CustomerID:   uuid.New().String(),
		Participants: []string{"Anna Becker"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		c, err := svc.RecordDownload(ctx, certs[0].Hash)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.DownloadCount != i {
			t.Fatalf("expected download count %d, got %d", i, c.DownloadCount)
		}
	}
}
