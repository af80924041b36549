package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/catalog"
)

// Quote результат расчета стоимости
type Quote struct {
	EventType   domain.EventType
	GuestCount  int
	BasePrice   int64
	GuestFactor float64
	TotalPrice  int64
	Currency    string
	Service     *domain.Service // nil, если цена взята из таблицы по типу мероприятия
}

// Calculator считает стоимость мероприятия.
// Один и тот же расчет используется и для предварительной цены, и при создании бронирования.
type Calculator struct {
	services ServiceRepository
	logger   Logger
}

func NewCalculator(services ServiceRepository, logger Logger) *Calculator {
	return &Calculator{services: services, logger: logger}
}

// Quote рассчитывает стоимость по услуге из каталога или по типу мероприятия
func (c *Calculator) Quote(ctx context.Context, serviceID *uuid.UUID, eventType domain.EventType, guestCount int) (*Quote, error) {
	if guestCount < domain.MinGuestCount {
		return nil, fmt.Errorf("%w: guestCount must be at least %d", ErrInvalidInput, domain.MinGuestCount)
	}

	quote := &Quote{
		EventType:  eventType,
		GuestCount: guestCount,
		Currency:   domain.DefaultCurrency,
	}

	if serviceID != nil {
		service, err := c.services.GetByID(ctx, *serviceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				c.logger.Warn("Quote: service id=%s not found", serviceID)
				return nil, ErrServiceNotFound
			}
			c.logger.Error("Quote: failed to get service id=%s: %v", serviceID, err)
			return nil, fmt.Errorf("%w: Quote - repository error: %v", ErrInternal, err)
		}
		if !service.IsActive() {
			c.logger.Warn("Quote: service id=%s is %s", serviceID, service.Status)
			return nil, ErrServiceNotFound
		}
		quote.BasePrice = service.Price
		quote.Service = service
	} else {
		quote.BasePrice = BasePriceFor(eventType)
	}

	quote.GuestFactor, quote.TotalPrice = Compute(quote.BasePrice, guestCount)
	return quote, nil
}

// BasePriceFor базовая цена по типу мероприятия, для неизвестного типа DefaultBasePrice
func BasePriceFor(eventType domain.EventType) int64 {
	if price, ok := domain.DefaultEventPrices[eventType]; ok {
		return price
	}
	return domain.DefaultBasePrice
}

// Compute возвращает коэффициент гостей max(1, guests/50) и итоговую цену round(base*factor)
func Compute(basePrice int64, guestCount int) (float64, int64) {
	factor := math.Max(1, float64(guestCount)/domain.GuestBlockSize)
	return factor, int64(math.Round(float64(basePrice) * factor))
}
