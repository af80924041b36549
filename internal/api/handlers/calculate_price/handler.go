package calculate_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/service/pricing"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgServiceNotFound    = "Service not found or inactive"
)

type Handler struct {
	calculator PriceCalculator
	logger     Logger
}

func NewHandler(calculator PriceCalculator, logger Logger) *Handler {
	return &Handler{
		calculator: calculator,
		logger:     logger,
	}
}

// Handle POST /api/v1/bookings/calculate-price
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CalculatePriceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/calculate-price - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if errs := handlers.Validate(&req); errs != nil {
		h.logger.Warn("POST /bookings/calculate-price - Validation failed: %d field(s)", len(errs))
		handlers.RespondValidation(w, errs)
		return
	}

	quote, err := h.calculator.Quote(r.Context(), req.ServiceID, req.eventType(), req.GuestCount)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/calculate-price - Service not found: service_id=%v", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, pricing.ErrInvalidInput):
			h.logger.Warn("POST /bookings/calculate-price - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/calculate-price - Failed to calculate price: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromQuote(quote))
}
