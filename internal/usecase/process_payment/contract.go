package process_payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/mailer"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdatePaymentState(ctx context.Context, id uuid.UUID, transition domain.PaymentTransition) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	Settle(ctx context.Context, id uuid.UUID, settlement domain.PaymentSettlement) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// QRGenerator сохраняет QR-код и возвращает его публичную ссылку
type QRGenerator interface {
	Generate(ctx context.Context, payload, fileName string) (string, error)
	Remove(ctx context.Context, url string) error
}

// Notifier уведомления после фиксации транзакции
type Notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, kind domain.NotificationKind, message string, data map[string]interface{}) error
	SendEmail(ctx context.Context, to, subject, html string) error
}

// ReceiptRenderer шаблон квитанции
type ReceiptRenderer interface {
	PaymentReceipt(data mailer.ReceiptEmail) (string, string, error)
}

// AuditRecorder журнал аудита
type AuditRecorder interface {
	Record(ctx context.Context, action domain.AuditAction, resourceType string, resourceID uuid.UUID, data map[string]interface{})
}

// Metrics доменные метрики
type Metrics interface {
	PaymentProcessed(outcome string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
