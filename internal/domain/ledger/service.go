package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles the points-ledger business logic. The membership counters
// are a materialized aggregate of the transaction log, maintained
// incrementally on every book/edit/delete.
type Service struct {
	repo Repository
}

// NewService creates ledger service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Book creates a point transaction and debits the membership:
// used += points, remaining -= points. Over-budget booking is allowed;
// remaining may go negative.
func (s *Service) Book(ctx context.Context, customerID uuid.UUID, req *BookRequest) (*PointTransaction, error) {
	if req.Points < 0 {
		return nil, ErrInvalidPoints
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidPoints
	}

	t := &PointTransaction{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Description: req.Description,
		Points:      req.Points,
		Date:        date,
		Category:    Category(req.Category),
		CreatedAt:   time.Now(),
	}
	if req.ModuleID != nil {
		if id, err := uuid.Parse(*req.ModuleID); err == nil {
			t.ModuleID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}
	if req.SchulungAssignmentID != nil {
		if id, err := uuid.Parse(*req.SchulungAssignmentID); err == nil {
			t.SchulungAssignmentID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}

	if err := s.repo.Book(ctx, t); err != nil {
		return nil, err
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("transaction_id", t.ID.String()).
		Float64("points", t.Points).
		Str("category", string(t.Category)).
		Msg("points booked")

	return t, nil
}

// Edit applies a partial update to a transaction. When points change, the
// difference between new and old value is applied to the membership counters
// in the same database transaction as the row update.
func (s *Service) Edit(ctx context.Context, customerID, txID uuid.UUID, req *EditRequest) (*PointTransaction, error) {
	t, err := s.repo.GetByID(ctx, customerID, txID)
	if err != nil {
		return nil, err
	}

	oldPoints := t.Points

	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Points != nil {
		if *req.Points < 0 {
			return nil, ErrInvalidPoints
		}
		t.Points = *req.Points
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, ErrInvalidPoints
		}
		t.Date = date
	}
	if req.Category != nil {
		t.Category = Category(*req.Category)
	}
	if req.ModuleID != nil {
		if *req.ModuleID == "" {
			t.ModuleID = uuid.NullUUID{}
		} else if id, err := uuid.Parse(*req.ModuleID); err == nil {
			t.ModuleID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}

	pointsDiff := t.Points - oldPoints

	if err := s.repo.Update(ctx, t, pointsDiff); err != nil {
		return nil, err
	}

	if pointsDiff != 0 {
		log.Info().
			Str("customer_id", customerID.String()).
			Str("transaction_id", txID.String()).
			Float64("points_diff", pointsDiff).
			Msg("transaction points adjusted")
	}

	return t, nil
}

// Delete removes a transaction and reverses its debit:
// used -= points, remaining += points.
func (s *Service) Delete(ctx context.Context, customerID, txID uuid.UUID) error {
	if err := s.repo.Delete(ctx, customerID, txID); err != nil {
		return err
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("transaction_id", txID.String()).
		Msg("transaction deleted")

	return nil
}

// List returns a customer's transactions, newest first
func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]*PointTransaction, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
