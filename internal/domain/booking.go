package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/pkg/types"
)

// BookingStatus жизненный цикл бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// BookingStatuses допустимые статусы бронирования
var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}

// IsValid true для одного из четырех статусов
func (s BookingStatus) IsValid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentStatus статус оплаты бронирования: unpaid -> processing -> {paid | failed}
type PaymentStatus string

const (
	PaymentUnpaid     PaymentStatus = "unpaid"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

var PaymentStatuses = []PaymentStatus{
	PaymentUnpaid,
	PaymentProcessing,
	PaymentPaid,
	PaymentFailed,
}

func (s PaymentStatus) IsValid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionTo проверяет направление перехода статуса оплаты
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentUnpaid:
		return next == PaymentProcessing
	case PaymentProcessing:
		return next == PaymentPaid || next == PaymentFailed
	default:
		return false
	}
}

// EventType тип мероприятия
type EventType string

const (
	EventWedding   EventType = "wedding"
	EventBirthday  EventType = "birthday"
	EventCorporate EventType = "corporate"
	EventOther     EventType = "other"
)

var EventTypes = []EventType{EventWedding, EventBirthday, EventCorporate, EventOther}

func (t EventType) IsValid() bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ServiceSnapshot копия услуги на момент бронирования
type ServiceSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    int64     `json:"price"`
}

// Booking заявка клиента на проведение мероприятия
type Booking struct {
	ID     uuid.UUID
	UserID *uuid.UUID // nil для гостевых бронирований

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ServiceID       *uuid.UUID
	ServiceSnapshot *ServiceSnapshot

	EventType  EventType
	EventDate  time.Time
	EventTime  types.TimeString
	GuestCount int
	Message    *string

	PriceCalculated int64
	Status          BookingStatus
	PaymentStatus   PaymentStatus

	QRCodeURL     *string
	TransactionID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy true, если бронирование принадлежит пользователю
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.UserID != nil && *b.UserID == userID
}

// CanStartPayment платеж создается только для неоплаченного бронирования
func (b *Booking) CanStartPayment() bool {
	return b.PaymentStatus == PaymentUnpaid
}

// PaymentTransition условное изменение статуса оплаты бронирования.
// Применяется только если текущий статус равен From.
type PaymentTransition struct {
	From          PaymentStatus
	To            PaymentStatus
	Status        *BookingStatus // новый жизненный статус (только при успешной оплате)
	QRCodeURL     *string
	TransactionID *string
}

// BookingsFilter фильтр списка бронирований
type BookingsFilter struct {
	UserID        *uuid.UUID
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
	Search        string // имя, email или телефон клиента (без учета регистра)
	Page          Page
}
