package get_booking_qr

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-EventBookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "Invalid booking ID"
	msgMissingUserID    = "Access token required"
	msgNotPaid          = "Booking not found or payment not completed"
	msgForbidden        = "Access denied"
	msgQRNotAvailable   = "QR code not available"
)

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

// Handle GET /api/v1/bookings/{bookingId}/qr отдает PNG квитанции
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/qr - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	png, err := h.service.GetQRCode(r.Context(), bookingID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrPaymentNotCompleted):
			h.logger.Warn("GET /bookings/{id}/qr - Booking not paid: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotPaid)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id}/qr - Access denied: booking_id=%s, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrQRNotAvailable):
			h.logger.Warn("GET /bookings/{id}/qr - QR code not available: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgQRNotAvailable)

		default:
			h.logger.Error("GET /bookings/{id}/qr - Failed to get QR code: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Content-Disposition", `inline; filename="booking-`+bookingID.String()+`.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
