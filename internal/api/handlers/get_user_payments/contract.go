package get_user_payments

import (
	"context"

	"github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
)

type PaymentService interface {
	List(ctx context.Context, req *models.GetPaymentsRequest) (*models.PaymentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
