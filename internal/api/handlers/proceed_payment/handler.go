package proceed_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	createPayment "github.com/m04kA/SMC-EventBookingService/internal/usecase/create_payment"
)

const (
	msgInvalidBookingID   = "Invalid booking ID"
	msgInvalidRequestBody = "Invalid request body"
	msgMissingUserID      = "Access token required"
	msgNotFound           = "Booking not found"
	msgForbidden          = "Access denied"
	msgAlreadyProcessed   = "Payment already processed for this booking"
	msgPaymentInitiated   = "Payment initiated"
)

type Handler struct {
	useCase CreatePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ProceedPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if errs := handlers.Validate(&req); errs != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Validation failed: booking_id=%s", bookingID)
		handlers.RespondValidation(w, errs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createPayment.Request{
		BookingID:   bookingID,
		UserID:      &userID,
		IsAdmin:     middleware.IsAdmin(r.Context()),
		Method:      domain.PaymentMethod(req.PaymentMethod),
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, createPayment.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createPayment.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment - Access denied: booking_id=%s, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createPayment.ErrPaymentConflict):
			h.logger.Warn("POST /bookings/{id}/payment - Payment conflict: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgAlreadyProcessed)

		case errors.Is(err, createPayment.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payment - Invalid input: %v", err)
			handlers.RespondValidation(w, []handlers.FieldError{{Field: "body", Message: err.Error()}})

		default:
			h.logger.Error("POST /bookings/{id}/payment - Failed to initiate payment: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment - Payment initiated: booking_id=%s, payment_id=%s, method=%s",
		bookingID, result.Payment.ID, result.Payment.Method)
	handlers.RespondMessage(w, http.StatusCreated, msgPaymentInitiated, FromUseCaseResponse(result))
}
