package realtime

import (
	"context"

	"github.com/google/uuid"

	"github.com/enablehub/enable-api/internal/domain/notification"
)

// notificationEvent is the wire format pushed to dashboard sessions
type notificationEvent struct {
	Type         string                     `json:"type"`
	Notification *notification.Notification `json:"notification"`
	UnreadCount  int                        `json:"unread_count"`
}

// NotificationPublisher adapts the hub to the notification service's
// publisher interface.
type NotificationPublisher struct {
	hub *Hub
}

// NewNotificationPublisher creates the adapter
func NewNotificationPublisher(hub *Hub) *NotificationPublisher {
	return &NotificationPublisher{hub: hub}
}

func (p *NotificationPublisher) NotifyNew(_ context.Context, customerID uuid.UUID, n *notification.Notification, unreadCount int) error {
	return p.hub.SendToCustomerJSON(customerID, notificationEvent{
		Type:         "notification:new",
		Notification: n,
		UnreadCount:  unreadCount,
	})
}
