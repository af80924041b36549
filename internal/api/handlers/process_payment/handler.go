package process_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	processPayment "github.com/m04kA/SMC-EventBookingService/internal/usecase/process_payment"
)

const (
	msgInvalidPaymentID   = "Invalid payment ID"
	msgInvalidRequestBody = "Invalid request body"
	msgNotFound           = "Payment not found"
	msgBookingNotFound    = "Booking not found"
	msgAlreadyProcessed   = "Payment already processed"
	msgProcessed          = "Payment processed successfully"
)

type Handler struct {
	useCase ProcessPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ProcessPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/{paymentId}/process (только администратор)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	paymentID, err := handlers.PathUUID(r, "paymentId")
	if err != nil {
		h.logger.Warn("POST /payments/{id}/process - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	var req ProcessPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /payments/{id}/process - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &processPayment.Request{
		PaymentID: paymentID,
		Success:   req.success(),
		Trigger:   processPayment.TriggerAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, processPayment.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/{id}/process - Payment not found: payment_id=%s", paymentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, processPayment.ErrBookingNotFound):
			h.logger.Warn("POST /payments/{id}/process - Booking not found: payment_id=%s", paymentID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, processPayment.ErrAlreadyProcessed):
			h.logger.Warn("POST /payments/{id}/process - Already processed: payment_id=%s", paymentID)
			handlers.RespondConflict(w, msgAlreadyProcessed)

		default:
			h.logger.Error("POST /payments/{id}/process - Failed to process payment: payment_id=%s, error=%v", paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/process - Payment processed: payment_id=%s, status=%s",
		paymentID, result.Payment.Status)
	handlers.RespondMessage(w, http.StatusOK, msgProcessed, FromUseCaseResponse(result))
}
