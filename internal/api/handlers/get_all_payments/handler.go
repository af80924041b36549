package get_all_payments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/service/payments"
	"github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
)

const msgInvalidFilter = "Invalid status or paymentMethod filter"

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

// Handle GET /api/v1/admin/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	page, limit := handlers.QueryPage(r)
	result, err := h.service.List(r.Context(), &models.GetPaymentsRequest{
		Status: handlers.QueryString(r, "status"),
		Method: handlers.QueryString(r, "paymentMethod"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, payments.ErrInvalidInput) {
			h.logger.Warn("GET /admin/payments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /admin/payments - Failed to get payments: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/payments - Payments retrieved: total=%d, page=%d", result.Total, result.Page)
	handlers.RespondJSON(w, http.StatusOK, result)
}
