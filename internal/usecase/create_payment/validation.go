package create_payment

import (
	"fmt"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !req.Method.IsValid() {
		return fmt.Errorf("%w: unknown paymentMethod %q", ErrInvalidInput, req.Method)
	}

	if req.PhoneNumber != nil {
		n := len(*req.PhoneNumber)
		if n < domain.MinPhoneLength || n > domain.MaxPhoneLength {
			return fmt.Errorf("%w: phoneNumber must be %d-%d characters", ErrInvalidInput, domain.MinPhoneLength, domain.MaxPhoneLength)
		}
	}

	return nil
}

// canAccess владелец бронирования или администратор.
// Гостевое бронирование оплачивается только через администратора.
func canAccess(req *Request, booking *domain.Booking) bool {
	if req.IsAdmin {
		return true
	}
	return req.UserID != nil && booking.IsOwnedBy(*req.UserID)
}
