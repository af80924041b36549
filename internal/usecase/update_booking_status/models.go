package update_booking_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Request модель запроса смены статуса администратором
type Request struct {
	BookingID uuid.UUID
	Status    domain.BookingStatus
}
