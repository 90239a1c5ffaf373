package module

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier is the slice of the notification service the status transitions
// need. Failures are logged and swallowed; a lost notification never rolls
// back a status change.
type Notifier interface {
	NotifyTestRequired(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle string) error
	NotifyAcceptanceRequired(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle string) error
	NotifyProjectUpdate(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle, statusLabel string) error
	ClearTestRequired(ctx context.Context, moduleID uuid.UUID) error
	ClearAcceptanceRequired(ctx context.Context, moduleID uuid.UUID) error
}

// AuditLog receives the system-authored audit trail of module changes.
// The message service satisfies this directly.
type AuditLog interface {
	SendSystem(ctx context.Context, customerID uuid.UUID, subject, content string) error
}

// ModuleDetail bundles a module with its children for the detail endpoint
type ModuleDetail struct {
	*Module
	AcceptanceCriteria []*AcceptanceCriterion `json:"acceptance_criteria"`
	TestFeedback       []*TestFeedback        `json:"test_feedback"`
}

// Service implements the module lifecycle: kanban status transitions with
// their notification and audit side effects, the acceptance sub-workflow,
// and test completion. The primary row update always commits first; side
// effects run sequentially afterwards, best-effort.
type Service struct {
	repo     Repository
	notifier Notifier
	audit    AuditLog
}

// NewService creates module service. notifier and audit may be nil.
func NewService(repo Repository, notifier Notifier, audit AuditLog) *Service {
	return &Service{repo: repo, notifier: notifier, audit: audit}
}

// Create creates a module, optionally seeded with acceptance criteria.
// A module created directly into im_test raises the test notification the
// same way a transition into im_test would.
func (s *Service) Create(ctx context.Context, req *CreateModuleRequest) (*ModuleDetail, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	m := &Module{
		ID:               uuid.New(),
		CustomerID:       customerID,
		Title:            req.Title,
		Status:           StatusGeplant,
		AcceptanceStatus: AcceptanceAusstehend,
		LiveStatus:       LiveAktiv,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Description != "" {
		m.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.Status != "" {
		m.Status = Status(req.Status)
	}
	if req.MonthlyMaintenancePoints != nil {
		m.MonthlyMaintenancePoints = *req.MonthlyMaintenancePoints
	}
	if req.Progress != nil {
		m.Progress = *req.Progress
	}
	if req.Assignee != "" {
		m.Assignee = sql.NullString{String: req.Assignee, Valid: true}
	}
	if req.CustomerContact != "" {
		m.CustomerContact = sql.NullString{String: req.CustomerContact, Valid: true}
	}

	criteria := make([]*AcceptanceCriterion, 0, len(req.AcceptanceCriteria))
	for _, text := range req.AcceptanceCriteria {
		criteria = append(criteria, &AcceptanceCriterion{
			ID:        uuid.New(),
			ModuleID:  m.ID,
			Text:      text,
			CreatedAt: now,
		})
	}

	if err := s.repo.Create(ctx, m, criteria); err != nil {
		return nil, err
	}

	if m.Status == StatusImTest {
		s.sideEffect(ctx, m, "test notification", func() error {
			if s.notifier == nil {
				return nil
			}
			return s.notifier.NotifyTestRequired(ctx, m.CustomerID, m.ID, m.Title)
		})
	}

	log.Info().
		Str("module_id", m.ID.String()).
		Str("customer_id", m.CustomerID.String()).
		Str("status", string(m.Status)).
		Msg("module created")

	return &ModuleDetail{Module: m, AcceptanceCriteria: criteria, TestFeedback: []*TestFeedback{}}, nil
}

// Get returns a module with its criteria and feedback
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ModuleDetail, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	criteria, err := s.repo.ListCriteria(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback, err := s.repo.ListFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ModuleDetail{Module: m, AcceptanceCriteria: criteria, TestFeedback: feedback}, nil
}

// ListByCustomer returns a customer's modules, newest first
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Module, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ListAll returns every module across customers (admin board)
func (s *Service) ListAll(ctx context.Context) ([]*Module, error) {
	return s.repo.ListAll(ctx)
}

// Update applies a partial patch. A status change in the patch goes through
// the same transition path as the dedicated status endpoint.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateModuleRequest) (*Module, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := m.Status

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Status != nil {
		m.Status = Status(*req.Status)
	}
	if req.LiveStatus != nil {
		m.LiveStatus = LiveStatus(*req.LiveStatus)
	}
	if req.MonthlyMaintenancePoints != nil {
		m.MonthlyMaintenancePoints = *req.MonthlyMaintenancePoints
	}
	if req.Progress != nil {
		m.Progress = *req.Progress
	}
	if req.Assignee != nil {
		m.Assignee = sql.NullString{String: *req.Assignee, Valid: *req.Assignee != ""}
	}
	if req.CustomerContact != nil {
		m.CustomerContact = sql.NullString{String: *req.CustomerContact, Valid: *req.CustomerContact != ""}
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	if m.Status != oldStatus {
		s.runTransitionEffects(ctx, m, oldStatus)
	}

	return m, nil
}

// UpdateStatus moves a module to another column. Any status may follow any
// other; there is no enforced order. Moving to the current status is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest) (*Module, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := Status(req.Status)
	if newStatus == m.Status {
		return m, nil
	}

	oldStatus := m.Status
	m.Status = newStatus

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.runTransitionEffects(ctx, m, oldStatus)

	log.Info().
		Str("module_id", m.ID.String()).
		Str("from", string(oldStatus)).
		Str("to", string(newStatus)).
		Msg("module status changed")

	return m, nil
}

// runTransitionEffects performs the post-commit side effects of a status
// change: audit entry, test notification on entering im_test, action-flag
// cleanup on leaving it. Effects run in order; a failed one is logged and
// the rest still run.
func (s *Service) runTransitionEffects(ctx context.Context, m *Module, oldStatus Status) {
	s.sideEffect(ctx, m, "audit message", func() error {
		if s.audit == nil {
			return nil
		}
		content := fmt.Sprintf("Modul \"%s\" wurde von %s nach %s verschoben.",
			m.Title, StatusLabels[oldStatus], StatusLabels[m.Status])
		return s.audit.SendSystem(ctx, m.CustomerID, "Statusänderung: "+m.Title, content)
	})

	if s.notifier == nil {
		return
	}

	switch {
	case m.Status == StatusImTest:
		// No test prompt when the test was already signed off
		if !m.TestCompletedAt.Valid {
			s.sideEffect(ctx, m, "test notification", func() error {
				return s.notifier.NotifyTestRequired(ctx, m.CustomerID, m.ID, m.Title)
			})
		}
	case oldStatus == StatusImTest:
		s.sideEffect(ctx, m, "clear test flag", func() error {
			return s.notifier.ClearTestRequired(ctx, m.ID)
		})
		fallthrough
	default:
		s.sideEffect(ctx, m, "project update notification", func() error {
			return s.notifier.NotifyProjectUpdate(ctx, m.CustomerID, m.ID, m.Title, StatusLabels[m.Status])
		})
	}
}

// CompleteTest records the customer's test sign-off and clears the pending
// test flag. The module's status does not change.
func (s *Service) CompleteTest(ctx context.Context, id uuid.UUID, req *CompleteTestRequest) (*Module, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.TestCompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	m.TestCompletedBy = sql.NullString{String: req.CompletedBy, Valid: true}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.sideEffect(ctx, m, "clear test flag", func() error {
			return s.notifier.ClearTestRequired(ctx, m.ID)
		})
	}
	s.sideEffect(ctx, m, "audit message", func() error {
		if s.audit == nil {
			return nil
		}
		return s.audit.SendSystem(ctx, m.CustomerID, "Test abgeschlossen: "+m.Title,
			fmt.Sprintf("Der Test für \"%s\" wurde von %s abgeschlossen.", m.Title, req.CompletedBy))
	})

	return m, nil
}

// RequestAcceptance puts the module's criteria up for customer review
func (s *Service) RequestAcceptance(ctx context.Context, id uuid.UUID) (*Module, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.AcceptanceStatus = AcceptanceAusstehend
	m.AcceptedAt = sql.NullTime{}
	m.AcceptedBy = sql.NullString{}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.sideEffect(ctx, m, "acceptance notification", func() error {
			return s.notifier.NotifyAcceptanceRequired(ctx, m.CustomerID, m.ID, m.Title)
		})
	}

	return m, nil
}

// AcceptCriteria accepts the module as a whole: every criterion is marked
// accepted and the pending acceptance flag is cleared.
func (s *Service) AcceptCriteria(ctx context.Context, id uuid.UUID, req *AcceptRequest) (*Module, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m.AcceptanceStatus = AcceptanceAkzeptiert
	m.AcceptedAt = sql.NullTime{Time: now, Valid: true}
	m.AcceptedBy = sql.NullString{String: req.AcceptedBy, Valid: true}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	if err := s.repo.SetAllCriteriaAccepted(ctx, m.ID, true, now); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.sideEffect(ctx, m, "clear acceptance flag", func() error {
			return s.notifier.ClearAcceptanceRequired(ctx, m.ID)
		})
	}
	s.sideEffect(ctx, m, "audit message", func() error {
		if s.audit == nil {
			return nil
		}
		return s.audit.SendSystem(ctx, m.CustomerID, "Abnahme erteilt: "+m.Title,
			fmt.Sprintf("\"%s\" wurde von %s abgenommen.", m.Title, req.AcceptedBy))
	})

	return m, nil
}

// RejectCriteria rejects the module's acceptance. A non-blank rationale is
// mandatory; nothing is written when it is missing.
func (s *Service) RejectCriteria(ctx context.Context, id uuid.UUID, req *RejectRequest) (*Module, error) {
	if strings.TrimSpace(req.Comment) == "" {
		return nil, ErrCommentRequired
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.AcceptanceStatus = AcceptanceAbgelehnt
	m.AcceptedAt = sql.NullTime{}
	m.AcceptedBy = sql.NullString{}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.sideEffect(ctx, m, "clear acceptance flag", func() error {
			return s.notifier.ClearAcceptanceRequired(ctx, m.ID)
		})
	}
	s.sideEffect(ctx, m, "rejection message", func() error {
		if s.audit == nil {
			return nil
		}
		return s.audit.SendSystem(ctx, m.CustomerID, "Abnahme abgelehnt: "+m.Title,
			fmt.Sprintf("%s hat die Abnahme abgelehnt: %s", req.RejectedBy, req.Comment))
	})

	log.Info().
		Str("module_id", m.ID.String()).
		Str("rejected_by", req.RejectedBy).
		Msg("module acceptance rejected")

	return m, nil
}

// AddCriterion appends an acceptance criterion to a module
func (s *Service) AddCriterion(ctx context.Context, moduleID uuid.UUID, req *AddCriterionRequest) (*AcceptanceCriterion, error) {
	if _, err := s.repo.GetByID(ctx, moduleID); err != nil {
		return nil, err
	}

	c := &AcceptanceCriterion{
		ID:        uuid.New(),
		ModuleID:  moduleID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddCriterion(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ToggleCriterion flips a single criterion's accepted flag
func (s *Service) ToggleCriterion(ctx context.Context, moduleID, criterionID uuid.UUID) (*AcceptanceCriterion, error) {
	c, err := s.repo.GetCriterion(ctx, moduleID, criterionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.Accepted = !c.Accepted
	c.AcceptedAt = sql.NullTime{Time: now, Valid: c.Accepted}

	if err := s.repo.SetCriterionAccepted(ctx, moduleID, criterionID, c.Accepted, now); err != nil {
		return nil, err
	}
	return c, nil
}

// AddFeedback appends test feedback to a module
func (s *Service) AddFeedback(ctx context.Context, moduleID uuid.UUID, req *AddFeedbackRequest) (*TestFeedback, error) {
	if _, err := s.repo.GetByID(ctx, moduleID); err != nil {
		return nil, err
	}

	f := &TestFeedback{
		ID:        uuid.New(),
		ModuleID:  moduleID,
		Author:    req.Author,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddFeedback(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a module with its criteria and feedback
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) sideEffect(ctx context.Context, m *Module, name string, fn func() error) {
	if err := fn(); err != nil {
		log.Warn().Err(err).
			Str("module_id", m.ID.String()).
			Str("effect", name).
			Msg("status side effect failed")
	}
}
