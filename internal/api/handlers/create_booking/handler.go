package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-EventBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-EventBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgServiceNotFound    = "Service not found or inactive"
	msgBookingCreated     = "Booking created successfully"
	msgDateInPast         = "must be today or a future date"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings (гостю токен не нужен)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if errs := handlers.Validate(&req); errs != nil {
		h.logger.Warn("POST /bookings - Validation failed: %d field(s)", len(errs))
		handlers.RespondValidation(w, errs)
		return
	}

	userID := middleware.GetOptionalUserID(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%v", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Event date in the past: %s", req.EventDate)
			handlers.RespondValidation(w, []handlers.FieldError{{Field: "eventDate", Message: msgDateInPast}})

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondValidation(w, []handlers.FieldError{{Field: "body", Message: err.Error()}})

		default:
			h.logger.Error("POST /bookings - Failed to create booking: email=%s, error=%v", req.CustomerEmail, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, guest=%t",
		booking.ID, userID == nil)
	handlers.RespondMessage(w, http.StatusCreated, msgBookingCreated, models.FromDomainBooking(booking))
}
