package notifier

import (
	"context"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Publisher брокер сообщений (pkg/mq)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// NotificationRepository хранилище входящих уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
}

// EmailSender отправка письма
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// AdminRenderer шаблон письма администраторам
type AdminRenderer interface {
	AdminNotification(subject, message string) (string, string, error)
}

// IntentExecutor исполняет намерение
type IntentExecutor interface {
	Execute(ctx context.Context, intent Intent) error
}

// Metrics счетчик доставленных намерений
type Metrics interface {
	IntentDispatched(kind, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
