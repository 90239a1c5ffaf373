package notification

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RealtimePublisher pushes new in-app notifications to connected dashboard
// sessions. Best-effort; may be nil when realtime is disabled.
type RealtimePublisher interface {
	NotifyNew(ctx context.Context, customerID uuid.UUID, n *Notification, unreadCount int) error
}

// Service handles notification logic
type Service struct {
	repo     Repository
	realtime RealtimePublisher
}

// NewService creates notification service
func NewService(repo Repository, realtime RealtimePublisher) *Service {
	return &Service{repo: repo, realtime: realtime}
}

// Create creates a notification and pushes it to live sessions
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, notifType Type, title, body string, actionRequired bool, moduleID *uuid.UUID, relatedURL string) (*Notification, error) {
	n := &Notification{
		ID:             uuid.New(),
		CustomerID:     customerID,
		Type:           notifType,
		Title:          title,
		ActionRequired: actionRequired,
		Read:           false,
		CreatedAt:      time.Now(),
	}
	if body != "" {
		n.Body = sql.NullString{String: body, Valid: true}
	}
	if moduleID != nil {
		n.RelatedModuleID = uuid.NullUUID{UUID: *moduleID, Valid: true}
	}
	if relatedURL != "" {
		n.RelatedURL = sql.NullString{String: relatedURL, Valid: true}
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.realtime != nil {
		unread, _ := s.repo.CountUnreadByCustomer(ctx, customerID)
		if err := s.realtime.NotifyNew(ctx, customerID, n, unread); err != nil {
			log.Debug().Err(err).Str("customer_id", customerID.String()).Msg("realtime notification push failed")
		}
	}

	return n, nil
}

// List returns notifications for a customer
func (s *Service) List(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

// GetUnreadCount returns unread count
func (s *Service) GetUnreadCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByCustomer(ctx, customerID)
}

// MarkAsRead marks single notification as read
func (s *Service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, customerID)
}

// ClearActionRequired clears the action flag for a module's notifications of
// the given type. Used when a module leaves im_test or its acceptance is
// decided.
func (s *Service) ClearActionRequired(ctx context.Context, moduleID uuid.UUID, notifType Type) error {
	cleared, err := s.repo.ClearActionRequired(ctx, moduleID, notifType)
	if err != nil {
		return err
	}
	if cleared > 0 {
		log.Info().
			Str("module_id", moduleID.String()).
			Str("type", string(notifType)).
			Int64("cleared", cleared).
			Msg("action-required notifications cleared")
	}
	return nil
}

// --- Typed helpers used by the status transition service ---

// NotifyTestRequired notifies the customer that a module awaits testing
func (s *Service) NotifyTestRequired(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle string) (*Notification, error) {
	return s.Create(ctx, customerID, TypeTestRequired,
		"Modul bereit zum Testen",
		"\""+moduleTitle+"\" wartet auf Ihren Test.",
		true, &moduleID, "/dashboard/module/"+moduleID.String())
}

// NotifyAcceptanceRequired notifies the customer that acceptance criteria await review
func (s *Service) NotifyAcceptanceRequired(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle string) (*Notification, error) {
	return s.Create(ctx, customerID, TypeAcceptanceRequired,
		"Abnahme erforderlich",
		"Die Abnahmekriterien für \""+moduleTitle+"\" warten auf Ihre Bestätigung.",
		true, &moduleID, "/dashboard/module/"+moduleID.String())
}

// NotifyProjectUpdate notifies the customer about a module status change
func (s *Service) NotifyProjectUpdate(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle, statusLabel string) (*Notification, error) {
	return s.Create(ctx, customerID, TypeProjectUpdate,
		"Projektupdate: "+moduleTitle,
		"Der Status wurde auf \""+statusLabel+"\" geändert.",
		false, &moduleID, "/dashboard/module/"+moduleID.String())
}

// NotifySchulungAssigned notifies the customer about a new training assignment
func (s *Service) NotifySchulungAssigned(ctx context.Context, customerID uuid.UUID, schulungTitle string) (*Notification, error) {
	return s.Create(ctx, customerID, TypeSchulungAssigned,
		"Neue Schulung zugewiesen",
		"Ihnen wurde die Schulung \""+schulungTitle+"\" zugewiesen.",
		false, nil, "/dashboard/schulungen")
}

// NotifyMessageReceived notifies the customer about new mail in their thread
func (s *Service) NotifyMessageReceived(ctx context.Context, customerID uuid.UUID, subject string) (*Notification, error) {
	return s.Create(ctx, customerID, TypeMessageReceived,
		"Neue Nachricht",
		subject,
		false, nil, "/dashboard/nachrichten")
}
