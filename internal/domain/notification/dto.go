package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationResponse for API
type NotificationResponse struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Body            *string    `json:"body,omitempty"`
	ActionRequired  bool       `json:"action_required"`
	Read            bool       `json:"read"`
	RelatedModuleID *uuid.UUID `json:"related_module_id,omitempty"`
	RelatedURL      *string    `json:"related_url,omitempty"`
	CreatedAt       string     `json:"created_at"`
}

// NotificationResponseFromEntity converts entity to response
func NotificationResponseFromEntity(n *Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:             n.ID,
		Type:           string(n.Type),
		Title:          n.Title,
		ActionRequired: n.ActionRequired,
		Read:           n.Read,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}

	if n.Body.Valid {
		resp.Body = &n.Body.String
	}
	if n.RelatedModuleID.Valid {
		id := n.RelatedModuleID.UUID
		resp.RelatedModuleID = &id
	}
	if n.RelatedURL.Valid {
		resp.RelatedURL = &n.RelatedURL.String
	}

	return resp
}

// UnreadCountResponse for unread count endpoint
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
