package get_user_payments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-EventBookingService/internal/service/payments"
	"github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
)

const (
	msgMissingUserID = "Access token required"
	msgInvalidFilter = "Invalid status filter"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/payments/my
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	page, limit := handlers.QueryPage(r)
	result, err := h.service.List(r.Context(), &models.GetPaymentsRequest{
		UserID: &userID,
		Status: handlers.QueryString(r, "status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, payments.ErrInvalidInput) {
			h.logger.Warn("GET /payments/my - Invalid filter: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /payments/my - Failed to get payments: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /payments/my - Payments retrieved: user_id=%s, count=%d", userID, len(result.Payments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
