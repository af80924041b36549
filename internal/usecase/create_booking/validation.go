package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	// Длина в символах, как у VARCHAR и тегов validator
	nameLen := utf8.RuneCountInString(strings.TrimSpace(req.CustomerName))
	if nameLen < domain.MinCustomerName || nameLen > domain.MaxCustomerName {
		return fmt.Errorf("%w: customerName must be %d-%d characters", ErrInvalidInput, domain.MinCustomerName, domain.MaxCustomerName)
	}

	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return fmt.Errorf("%w: invalid customerEmail", ErrInvalidInput)
	}

	if len(req.CustomerPhone) < domain.MinPhoneLength || len(req.CustomerPhone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: customerPhone must be %d-%d characters", ErrInvalidInput, domain.MinPhoneLength, domain.MaxPhoneLength)
	}

	if !req.EventType.IsValid() {
		return fmt.Errorf("%w: unknown eventType %q", ErrInvalidInput, req.EventType)
	}

	if req.EventDate.IsZero() {
		return fmt.Errorf("%w: eventDate is required", ErrInvalidInput)
	}

	if err := req.EventTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid eventTime format: %v", ErrInvalidInput, err)
	}

	if req.GuestCount < domain.MinGuestCount || req.GuestCount > domain.MaxGuestCount {
		return fmt.Errorf("%w: guestCount must be %d-%d", ErrInvalidInput, domain.MinGuestCount, domain.MaxGuestCount)
	}

	if req.Message != nil && utf8.RuneCountInString(*req.Message) > domain.MaxBookingMessage {
		return fmt.Errorf("%w: message must be at most %d characters", ErrInvalidInput, domain.MaxBookingMessage)
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
