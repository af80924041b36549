package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	List(ctx context.Context, filter domain.NotificationsFilter) ([]*domain.Notification, int, error)
	CountUnread(ctx context.Context, userID uuid.UUID, includeAdmins bool) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, includeAdmins bool) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, includeAdmins bool) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID, includeAdmins bool) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
