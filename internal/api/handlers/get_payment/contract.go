package get_payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
)

type PaymentService interface {
	GetByID(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
