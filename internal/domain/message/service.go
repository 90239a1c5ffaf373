package message

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier lets the message service announce new outgoing messages in the
// customer's notification inbox without importing the notification package.
type Notifier interface {
	NotifyMessageReceived(ctx context.Context, customerID uuid.UUID, subject string) error
}

// Service handles the per-customer message thread. It doubles as the audit
// sink for other domains: status changes and credential events are appended
// here as system-authored outgoing messages.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates message service. notifier may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Send appends a message to a customer's thread. The direction decides the
// initial read flags: the originating side has already seen the message.
func (s *Service) Send(ctx context.Context, customerID uuid.UUID, direction Direction, req *SendRequest) (*AdminMessage, error) {
	if direction != DirectionIncoming && direction != DirectionOutgoing {
		return nil, ErrInvalidDirection
	}

	from := req.From
	if from == "" {
		if direction == DirectionIncoming {
			from = "Kunde"
		} else {
			from = "EnableHub Team"
		}
	}

	m := &AdminMessage{
		ID:           uuid.New(),
		CustomerID:   customerID,
		Subject:      req.Subject,
		Content:      req.Content,
		FromName:     from,
		Direction:    direction,
		Read:         direction == DirectionOutgoing,
		CustomerRead: direction == DirectionIncoming,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	// New outgoing mail shows up in the customer's notification inbox too
	if direction == DirectionOutgoing && s.notifier != nil {
		if err := s.notifier.NotifyMessageReceived(ctx, customerID, m.Subject); err != nil {
			log.Warn().Err(err).
				Str("customer_id", customerID.String()).
				Msg("failed to create message notification")
		}
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("message_id", m.ID.String()).
		Str("direction", string(direction)).
		Msg("message sent")

	return m, nil
}

// SendSystem appends a system-authored outgoing message (welcome mail,
// status-change audit, rejection rationale). No notification is raised;
// audit entries would drown the inbox.
func (s *Service) SendSystem(ctx context.Context, customerID uuid.UUID, subject, content string) error {
	m := &AdminMessage{
		ID:           uuid.New(),
		CustomerID:   customerID,
		Subject:      subject,
		Content:      content,
		FromName:     SystemSender,
		Direction:    DirectionOutgoing,
		Read:         true,
		CustomerRead: false,
		CreatedAt:    time.Now(),
	}
	return s.repo.Create(ctx, m)
}

// List returns a customer's thread, newest first
func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]*AdminMessage, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// MarkRead marks a message as read on the admin side
func (s *Service) MarkRead(ctx context.Context, customerID, messageID uuid.UUID) error {
	return s.repo.MarkRead(ctx, customerID, messageID)
}

// MarkCustomerRead marks a message as read on the customer side
func (s *Service) MarkCustomerRead(ctx context.Context, customerID, messageID uuid.UUID) error {
	return s.repo.MarkCustomerRead(ctx, customerID, messageID)
}

// MarkAllCustomerRead marks the whole thread as read on the customer side
func (s *Service) MarkAllCustomerRead(ctx context.Context, customerID uuid.UUID) error {
	return s.repo.MarkAllCustomerRead(ctx, customerID)
}

// GetUnreadCount returns how many incoming messages an advisor has not read
func (s *Service) GetUnreadCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, customerID)
}

// GetCustomerUnreadCount returns how many outgoing messages the customer has not read
func (s *Service) GetCustomerUnreadCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	return s.repo.CountCustomerUnread(ctx, customerID)
}
