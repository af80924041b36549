package get_all_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-EventBookingService/internal/service/bookings/models"
)

const msgInvalidFilter = "Invalid status or paymentStatus filter"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	page, limit := handlers.QueryPage(r)
	serviceReq := &models.GetAllBookingsRequest{
		Status:        handlers.QueryString(r, "status"),
		PaymentStatus: handlers.QueryString(r, "paymentStatus"),
		Page:          page,
		Limit:         limit,
	}
	if search := handlers.QueryString(r, "search"); search != nil {
		serviceReq.Search = *search
	}

	result, err := h.service.GetAllBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /admin/bookings - Failed to get bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings retrieved: total=%d, page=%d", result.Total, result.Page)
	handlers.RespondJSON(w, http.StatusOK, result)
}
