package calculate_price

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/service/pricing"
)

// CalculatePriceRequest HTTP request model
type CalculatePriceRequest struct {
	ServiceID  *uuid.UUID `json:"serviceId,omitempty"`
	EventType  string     `json:"eventType" validate:"required,oneof=wedding birthday corporate other"`
	GuestCount int        `json:"guestCount" validate:"min=1,max=1000"`
	EventDate  string     `json:"eventDate" validate:"required,datetime=2006-01-02"`
	EventTime  string     `json:"eventTime" validate:"required,hhmm"`
}

// ServiceInfo услуга, по которой посчитана цена
type ServiceInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    int64     `json:"price"`
}

// PriceResponse HTTP response model
type PriceResponse struct {
	BasePrice   int64        `json:"basePrice"`
	GuestCount  int          `json:"guestCount"`
	GuestFactor string       `json:"guestFactor"` // "2.40"
	TotalPrice  int64        `json:"totalPrice"`
	Currency    string       `json:"currency"`
	Service     *ServiceInfo `json:"service,omitempty"`
	EventType   string       `json:"eventType"`
}

// FromQuote конвертирует расчет в HTTP response
func FromQuote(q *pricing.Quote) *PriceResponse {
	resp := &PriceResponse{
		BasePrice:   q.BasePrice,
		GuestCount:  q.GuestCount,
		GuestFactor: fmt.Sprintf("%.2f", q.GuestFactor),
		TotalPrice:  q.TotalPrice,
		Currency:    q.Currency,
		EventType:   string(q.EventType),
	}
	if q.Service != nil {
		resp.Service = &ServiceInfo{
			ID:       q.Service.ID,
			Name:     q.Service.Name,
			Category: q.Service.Category,
			Price:    q.Service.Price,
		}
	}
	return resp
}

func (r *CalculatePriceRequest) eventType() domain.EventType {
	return domain.EventType(r.EventType)
}
