package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.NotificationListResponse, error)
	UnreadCount(ctx context.Context, r models.Recipient) (*models.UnreadCountResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID, r models.Recipient) error
	MarkAllRead(ctx context.Context, r models.Recipient) (*models.MarkAllReadResponse, error)
	Delete(ctx context.Context, id uuid.UUID, r models.Recipient) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
