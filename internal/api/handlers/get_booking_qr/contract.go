package get_booking_qr

import (
	"context"

	"github.com/google/uuid"
)

type BookingService interface {
	GetQRCode(ctx context.Context, id, userID uuid.UUID, isAdmin bool) ([]byte, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
