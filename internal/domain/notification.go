package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind тип уведомления
type NotificationKind string

const (
	NotificationBookingCreated   NotificationKind = "booking_created"
	NotificationBookingConfirmed NotificationKind = "booking_confirmed"
	NotificationBookingCancelled NotificationKind = "booking_cancelled"
	NotificationPaymentCreated   NotificationKind = "payment_created"
	NotificationPaymentCompleted NotificationKind = "payment_completed"
	NotificationPaymentFailed    NotificationKind = "payment_failed"
)

// Audience получатель уведомления
type Audience string

const (
	AudienceUser   Audience = "user"
	AudienceAdmins Audience = "admins"
)

// Notification запись во входящих уведомлениях
type Notification struct {
	ID        uuid.UUID
	UserID    *uuid.UUID // nil для уведомлений администраторам
	Audience  Audience
	Kind      NotificationKind
	Message   string
	Data      map[string]interface{}
	IsRead    bool
	CreatedAt time.Time
}

// NotificationsFilter выборка входящих пользователя
type NotificationsFilter struct {
	UserID        uuid.UUID
	IncludeAdmins bool // администраторы видят уведомления с audience=admins
	UnreadOnly    bool
	Page          Page
}
