package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/mailer"
	"github.com/m04kA/SMC-EventBookingService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// PriceCalculator расчет стоимости (тот же, что и для предварительной цены)
type PriceCalculator interface {
	Quote(ctx context.Context, serviceID *uuid.UUID, eventType domain.EventType, guestCount int) (*pricing.Quote, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикация побочных эффектов после фиксации транзакции
type Notifier interface {
	NotifyAdmins(ctx context.Context, kind domain.NotificationKind, message string, data map[string]interface{}) error
	SendEmail(ctx context.Context, to, subject, html string) error
}

// EmailRenderer шаблон письма о бронировании
type EmailRenderer interface {
	BookingConfirmation(data mailer.BookingEmail) (string, string, error)
}

// AuditRecorder журнал аудита
type AuditRecorder interface {
	Record(ctx context.Context, action domain.AuditAction, resourceType string, resourceID uuid.UUID, data map[string]interface{})
}

// Metrics доменные метрики
type Metrics interface {
	BookingCreated()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
