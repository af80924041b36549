package process_payment

import (
	bookingModels "github.com/m04kA/SMC-EventBookingService/internal/service/bookings/models"
	paymentModels "github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
	processPayment "github.com/m04kA/SMC-EventBookingService/internal/usecase/process_payment"
)

// ProcessPaymentRequest HTTP request model. Тело необязательно, по умолчанию успех
type ProcessPaymentRequest struct {
	SimulateSuccess *bool `json:"simulateSuccess,omitempty"`
}

func (r *ProcessPaymentRequest) success() bool {
	return r.SimulateSuccess == nil || *r.SimulateSuccess
}

// ProcessPaymentResponse платеж и бронирование после обработки
type ProcessPaymentResponse struct {
	Payment *paymentModels.PaymentResponse `json:"payment"`
	Booking *bookingModels.BookingResponse `json:"booking"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *processPayment.Response) *ProcessPaymentResponse {
	return &ProcessPaymentResponse{
		Payment: paymentModels.FromDomainPayment(resp.Payment),
		Booking: bookingModels.FromDomainBooking(resp.Booking),
	}
}
