package certificate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles certificate issuance and lookup
type Service struct {
	repo Repository
}

// NewService creates certificate service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Issue issues one certificate per participant, all stamped with the same
// issuance time. A participant whose hash already exists gets the stored
// certificate back instead of a duplicate, so retrying a failed batch is
// safe. Requests at a different time produce new codes; only literal
// retries are deduplicated.
func (s *Service) Issue(ctx context.Context, req *IssueRequest) ([]*Certificate, error) {
	serieID, err := uuid.Parse(req.SerieID)
	if err != nil {
		return nil, ErrNotFound
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, ErrNotFound
	}

	issuedAt := time.Now().Truncate(time.Millisecond)
	certs := make([]*Certificate, 0, len(req.Participants))

	for _, name := range req.Participants {
		hash := ComputeHash(serieID, name, customerID, issuedAt)

		existing, err := s.repo.GetByHash(ctx, hash)
		if err == nil {
			certs = append(certs, existing)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		c := &Certificate{
			ID:              uuid.New(),
			SerieID:         serieID,
			CustomerID:      customerID,
			ParticipantName: name,
			Hash:            hash,
			IssuedAt:        issuedAt,
			CreatedAt:       time.Now(),
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}

	log.Info().
		Str("serie_id", serieID.String()).
		Str("customer_id", customerID.String()).
		Int("count", len(certs)).
		Msg("certificates issued")

	return certs, nil
}

// GetByHash looks a certificate up by its public code
func (s *Service) GetByHash(ctx context.Context, hash string) (*Certificate, error) {
	return s.repo.GetByHash(ctx, hash)
}

// ListByCustomer returns a customer's certificates, newest first
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Certificate, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ListAll returns every certificate (admin view)
func (s *Service) ListAll(ctx context.Context) ([]*Certificate, error) {
	return s.repo.ListAll(ctx)
}

// RecordDownload bumps the download counter and returns the certificate
func (s *Service) RecordDownload(ctx context.Context, hash string) (*Certificate, error) {
	return s.repo.IncrementDownloads(ctx, hash)
}
