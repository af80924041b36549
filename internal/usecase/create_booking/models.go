package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    *uuid.UUID // nil для гостя
	ServiceID *uuid.UUID // услуга из каталога (опционально)

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	EventType  domain.EventType
	EventDate  time.Time        // Дата мероприятия (без времени)
	EventTime  types.TimeString // Время начала, HH:MM
	GuestCount int
	Message    *string
}
