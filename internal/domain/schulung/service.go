package schulung

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier announces new assignments in the customer's notification inbox
type Notifier interface {
	NotifySchulungAssigned(ctx context.Context, customerID uuid.UUID, schulungTitle string) error
}

// AuditLog receives assignment status changes as system messages
type AuditLog interface {
	SendSystem(ctx context.Context, customerID uuid.UUID, subject, content string) error
}

// Service handles the training catalog and per-customer assignments
type Service struct {
	repo     Repository
	notifier Notifier
	audit    AuditLog
}

// NewService creates schulung service. notifier and audit may be nil.
func NewService(repo Repository, notifier Notifier, audit AuditLog) *Service {
	return &Service{repo: repo, notifier: notifier, audit: audit}
}

// CreateSerie adds a serie to the catalog
func (s *Service) CreateSerie(ctx context.Context, req *CreateSerieRequest) (*Serie, error) {
	serie := &Serie{
		ID:        uuid.New(),
		Title:     req.Title,
		Position:  req.Position,
		CreatedAt: time.Now(),
	}
	if req.Description != "" {
		serie.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if err := s.repo.CreateSerie(ctx, serie); err != nil {
		return nil, err
	}
	return serie, nil
}

// ListSerien returns the catalog with each serie's units in order
func (s *Service) ListSerien(ctx context.Context) ([]*SerieWithSchulungen, error) {
	serien, err := s.repo.ListSerien(ctx)
	if err != nil {
		return nil, err
	}
	schulungen, err := s.repo.ListAllSchulungen(ctx)
	if err != nil {
		return nil, err
	}

	bySerie := make(map[uuid.UUID][]*Schulung)
	for _, u := range schulungen {
		bySerie[u.SerieID] = append(bySerie[u.SerieID], u)
	}

	out := make([]*SerieWithSchulungen, 0, len(serien))
	for _, serie := range serien {
		units := bySerie[serie.ID]
		if units == nil {
			units = []*Schulung{}
		}
		out = append(out, &SerieWithSchulungen{Serie: serie, Schulungen: units})
	}
	return out, nil
}

// CreateSchulung adds a training unit to a serie
func (s *Service) CreateSchulung(ctx context.Context, req *CreateSchulungRequest) (*Schulung, error) {
	serieID, err := uuid.Parse(req.SerieID)
	if err != nil {
		return nil, ErrSerieNotFound
	}
	if _, err := s.repo.GetSerie(ctx, serieID); err != nil {
		return nil, err
	}

	schulung := &Schulung{
		ID:              uuid.New(),
		SerieID:         serieID,
		Title:           req.Title,
		Position:        req.Position,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       time.Now(),
	}
	if req.Description != "" {
		schulung.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.VideoURL != "" {
		schulung.VideoURL = sql.NullString{String: req.VideoURL, Valid: true}
	}

	if err := s.repo.CreateSchulung(ctx, schulung); err != nil {
		return nil, err
	}
	return schulung, nil
}

// ListSchulungen returns a serie's units in order
func (s *Service) ListSchulungen(ctx context.Context, serieID uuid.UUID) ([]*Schulung, error) {
	return s.repo.ListSchulungen(ctx, serieID)
}

// Assign assigns a training unit to a customer and notifies them
func (s *Service) Assign(ctx context.Context, customerID uuid.UUID, req *AssignRequest) (*SchulungAssignment, error) {
	schulungID, err := uuid.Parse(req.SchulungID)
	if err != nil {
		return nil, ErrSchulungNotFound
	}

	schulung, err := s.repo.GetSchulung(ctx, schulungID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	a := &SchulungAssignment{
		ID:         uuid.New(),
		CustomerID: customerID,
		SchulungID: schulungID,
		Status:     AssignmentOffen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifySchulungAssigned(ctx, customerID, schulung.Title); err != nil {
			log.Warn().Err(err).
				Str("customer_id", customerID.String()).
				Msg("failed to create assignment notification")
		}
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("schulung_id", schulungID.String()).
		Msg("schulung assigned")

	return a, nil
}

// UpdateAssignmentStatus moves an assignment between statuses. Reaching
// abgeschlossen stamps completedAt; leaving it clears the stamp.
func (s *Service) UpdateAssignmentStatus(ctx context.Context, customerID, assignmentID uuid.UUID, req *UpdateAssignmentStatusRequest) (*SchulungAssignment, error) {
	a, err := s.repo.GetAssignment(ctx, customerID, assignmentID)
	if err != nil {
		return nil, err
	}

	newStatus := AssignmentStatus(req.Status)
	if newStatus == a.Status {
		return a, nil
	}

	oldStatus := a.Status
	a.Status = newStatus
	if newStatus == AssignmentAbgeschlossen {
		a.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	} else {
		a.CompletedAt = sql.NullTime{}
	}

	if err := s.repo.UpdateAssignment(ctx, a); err != nil {
		return nil, err
	}

	if s.audit != nil {
		schulung, err := s.repo.GetSchulung(ctx, a.SchulungID)
		title := "Schulung"
		if err == nil {
			title = schulung.Title
		}
		content := fmt.Sprintf("Schulung \"%s\" wurde von %s nach %s verschoben.",
			title, StatusLabels[oldStatus], StatusLabels[newStatus])
		if err := s.audit.SendSystem(ctx, customerID, "Schulungsfortschritt: "+title, content); err != nil {
			log.Warn().Err(err).
				Str("assignment_id", a.ID.String()).
				Msg("failed to write assignment audit message")
		}
	}

	return a, nil
}

// ListAssignments returns a customer's assignments, newest first
func (s *Service) ListAssignments(ctx context.Context, customerID uuid.UUID) ([]*SchulungAssignment, error) {
	return s.repo.ListAssignmentsByCustomer(ctx, customerID)
}
