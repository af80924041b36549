package create_payment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Request модель запроса на создание платежа
type Request struct {
	BookingID   uuid.UUID
	UserID      *uuid.UUID // инициатор, nil для системных вызовов
	IsAdmin     bool
	Method      domain.PaymentMethod
	PhoneNumber *string
}

// Response созданный платеж и инструкция по оплате
type Response struct {
	Payment      *domain.Payment
	Instructions domain.PaymentInstructions
}
