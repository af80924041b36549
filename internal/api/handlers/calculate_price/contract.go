package calculate_price

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/service/pricing"
)

type PriceCalculator interface {
	Quote(ctx context.Context, serviceID *uuid.UUID, eventType domain.EventType, guestCount int) (*pricing.Quote, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
