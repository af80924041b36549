package proceed_payment

import (
	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
	createPayment "github.com/m04kA/SMC-EventBookingService/internal/usecase/create_payment"
)

// ProceedPaymentRequest HTTP request model
type ProceedPaymentRequest struct {
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=telebirr cbe abisiniya commercial"`
	PhoneNumber   *string `json:"phoneNumber,omitempty" validate:"omitempty,min=10,max=15"`
}

// ProceedPaymentResponse созданный платеж и инструкция
type ProceedPaymentResponse struct {
	Payment      *models.PaymentResponse    `json:"payment"`
	Instructions domain.PaymentInstructions `json:"instructions"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createPayment.Response) *ProceedPaymentResponse {
	return &ProceedPaymentResponse{
		Payment:      models.FromDomainPayment(resp.Payment),
		Instructions: resp.Instructions,
	}
}
