package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Recipient владелец входящих
type Recipient struct {
	UserID  uuid.UUID
	IsAdmin bool // администраторы видят общие уведомления с audience=admins
}

// ListRequest запрос страницы входящих
type ListRequest struct {
	Recipient  Recipient
	UnreadOnly bool
	Page       int
	Limit      int
}

// NotificationResponse уведомление
type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	IsRead    bool                   `json:"isRead"`
	CreatedAt time.Time              `json:"createdAt"`
}

// NotificationListResponse страница уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	Page          int                    `json:"page"`
	TotalPages    int                    `json:"totalPages"`
}

// UnreadCountResponse количество непрочитанных
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// MarkAllReadResponse количество отмеченных
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// FromDomainNotification конвертирует domain модель в DTO
func FromDomainNotification(n *domain.Notification) NotificationResponse {
	data := n.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Kind),
		Message:   n.Message,
		Data:      data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
