package create_payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdatePaymentState(ctx context.Context, id uuid.UUID, transition domain.PaymentTransition) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionIDGenerator источник ссылок на транзакцию
type TransactionIDGenerator interface {
	Generate() (string, error)
}

// Notifier уведомления после фиксации транзакции
type Notifier interface {
	NotifyAdmins(ctx context.Context, kind domain.NotificationKind, message string, data map[string]interface{}) error
}

// AuditRecorder журнал аудита
type AuditRecorder interface {
	Record(ctx context.Context, action domain.AuditAction, resourceType string, resourceID uuid.UUID, data map[string]interface{})
}

// Metrics доменные метрики
type Metrics interface {
	PaymentCreated(method string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
