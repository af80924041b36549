package domain

// Default pricing
const (
	DefaultCurrency = "ETB"

	// Базовая цена для неизвестного типа мероприятия
	DefaultBasePrice int64 = 12000

	// Каждые GuestBlockSize гостей пропорционально увеличивают цену
	GuestBlockSize = 50
)

// DefaultEventPrices базовые цены по типу мероприятия (без услуги из каталога)
var DefaultEventPrices = map[EventType]int64{
	EventWedding:   20000,
	EventBirthday:  10000,
	EventCorporate: 15000,
	EventOther:     12000,
}

// Business validation constants
const (
	MinGuestCount       = 1
	MaxGuestCount       = 1000
	MinCustomerName     = 2
	MaxCustomerName     = 100
	MinPhoneLength      = 10
	MaxPhoneLength      = 15
	MaxBookingMessage   = 1000
	TransactionIDLength = 8 // байт случайности, 16 hex-символов
)

// Pagination
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Page параметры постраничной выборки
type Page struct {
	Page  int
	Limit int
}

// Normalize подставляет значения по умолчанию и ограничивает limit
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// TotalPages количество страниц для total записей
func (p Page) TotalPages(total int) int {
	if p.Limit < 1 || total == 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
