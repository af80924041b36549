package handle_webhook

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/usecase/process_payment"
)

// PaymentRepository поиск платежа по ссылке на транзакцию
type PaymentRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
}

// PaymentProcessor завершение платежа
type PaymentProcessor interface {
	Execute(ctx context.Context, req *process_payment.Request) (*process_payment.Response, error)
}

// AuditRecorder журнал аудита
type AuditRecorder interface {
	Record(ctx context.Context, action domain.AuditAction, resourceType string, resourceID uuid.UUID, data map[string]interface{})
}

// Metrics доменные метрики
type Metrics interface {
	WebhookReceived(provider, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
