package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
}

// QRStore чтение сохраненных QR-кодов
type QRStore interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
