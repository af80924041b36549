package create_booking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-EventBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-EventBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     *uuid.UUID `json:"serviceId,omitempty"`
	CustomerName  string     `json:"customerName" validate:"required,min=2,max=100"`
	CustomerEmail string     `json:"customerEmail" validate:"required,email"`
	CustomerPhone string     `json:"customerPhone" validate:"required,min=10,max=15"`
	EventType     string     `json:"eventType" validate:"required,oneof=wedding birthday corporate other"`
	EventDate     string     `json:"eventDate" validate:"required,datetime=2006-01-02"` // "2026-05-20"
	EventTime     string     `json:"eventTime" validate:"required,hhmm"`                // "18:30"
	GuestCount    int        `json:"guestCount" validate:"min=1,max=1000"`
	Message       *string    `json:"message,omitempty" validate:"omitempty,max=1000"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (после Validate)
func (r *CreateBookingRequest) ToUseCaseRequest(userID *uuid.UUID) (*createBooking.Request, error) {
	eventDate, err := time.Parse(domain.DateFormat, r.EventDate)
	if err != nil {
		return nil, err
	}

	eventTime, err := types.NewTimeStringFromString(r.EventTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:        userID,
		ServiceID:     r.ServiceID,
		CustomerName:  strings.TrimSpace(r.CustomerName),
		CustomerEmail: strings.TrimSpace(r.CustomerEmail),
		CustomerPhone: strings.TrimSpace(r.CustomerPhone),
		EventType:     domain.EventType(r.EventType),
		EventDate:     eventDate,
		EventTime:     eventTime,
		GuestCount:    r.GuestCount,
		Message:       r.Message,
	}, nil
}
