package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	MethodTelebirr   PaymentMethod = "telebirr"
	MethodCBE        PaymentMethod = "cbe"
	MethodAbisiniya  PaymentMethod = "abisiniya"
	MethodCommercial PaymentMethod = "commercial"
)

var PaymentMethods = []PaymentMethod{MethodTelebirr, MethodCBE, MethodAbisiniya, MethodCommercial}

func (m PaymentMethod) IsValid() bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// PaymentState статус попытки оплаты
type PaymentState string

const (
	PaymentStatePending    PaymentState = "pending"
	PaymentStateProcessing PaymentState = "processing"
	PaymentStateCompleted  PaymentState = "completed"
	PaymentStateFailed     PaymentState = "failed"
	PaymentStateRefunded   PaymentState = "refunded"
)

var PaymentStates = []PaymentState{
	PaymentStatePending,
	PaymentStateProcessing,
	PaymentStateCompleted,
	PaymentStateFailed,
	PaymentStateRefunded,
}

func (s PaymentState) IsValid() bool {
	for _, v := range PaymentStates {
		if s == v {
			return true
		}
	}
	return false
}

// Payment одна попытка оплаты бронирования
type Payment struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	UserID        *uuid.UUID
	Amount        int64
	Currency      string
	Method        PaymentMethod
	PhoneNumber   *string
	TransactionID string
	Status        PaymentState
	QRCodeURL     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending платеж ожидает обработки
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatePending
}

// IsOwnedBy true, если платеж принадлежит пользователю
func (p *Payment) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID != nil && *p.UserID == userID
}

// PaymentSettlement условное завершение платежа (только из статуса From)
type PaymentSettlement struct {
	From      PaymentState
	To        PaymentState
	QRCodeURL *string
}

// StaleCursor позиция сверки: следующая выборка начинается после (CreatedAt, ID)
type StaleCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// PaymentsFilter фильтр списка платежей
type PaymentsFilter struct {
	UserID *uuid.UUID
	Status *PaymentState
	Method *PaymentMethod
	Page   Page
}
