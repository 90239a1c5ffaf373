package module

import (
	"context"

	"github.com/google/uuid"

	"github.com/enablehub/enable-api/internal/domain/notification"
)

// NotificationAdapter bridges the notification service to the Notifier
// interface the status transitions consume.
type NotificationAdapter struct {
	svc *notification.Service
}

// NewNotificationAdapter creates the adapter
func NewNotificationAdapter(svc *notification.Service) *NotificationAdapter {
	return &NotificationAdapter{svc: svc}
}

func (a *NotificationAdapter) NotifyTestRequired(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle string) error {
	_, err := a.svc.NotifyTestRequired(ctx, customerID, moduleID, moduleTitle)
	return err
}

func (a *NotificationAdapter) NotifyAcceptanceRequired(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle string) error {
	_, err := a.svc.NotifyAcceptanceRequired(ctx, customerID, moduleID, moduleTitle)
	return err
}

func (a *NotificationAdapter) NotifyProjectUpdate(ctx context.Context, customerID, moduleID uuid.UUID, moduleTitle, statusLabel string) error {
	_, err := a.svc.NotifyProjectUpdate(ctx, customerID, moduleID, moduleTitle, statusLabel)
	return err
}

func (a *NotificationAdapter) ClearTestRequired(ctx context.Context, moduleID uuid.UUID) error {
	return a.svc.ClearActionRequired(ctx, moduleID, notification.TypeTestRequired)
}

func (a *NotificationAdapter) ClearAcceptanceRequired(ctx context.Context, moduleID uuid.UUID) error {
	return a.svc.ClearActionRequired(ctx, moduleID, notification.TypeAcceptanceRequired)
}
