package process_payment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Trigger источник решения об исходе платежа
type Trigger string

const (
	TriggerAdmin          Trigger = "admin"
	TriggerWebhook        Trigger = "webhook"
	TriggerReconciliation Trigger = "reconciliation"
)

// Outcome метка метрики исхода
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Request модель запроса на обработку платежа
type Request struct {
	PaymentID uuid.UUID
	Success   bool
	Trigger   Trigger
}

// Response платеж и бронирование после перехода
type Response struct {
	Payment *domain.Payment
	Booking *domain.Booking
}

// qrPayload содержимое QR-кода квитанции
type qrPayload struct {
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"paymentMethod"`
	PhoneNumber   *string `json:"phoneNumber"`
	TransactionID string  `json:"transactionId"`
	Date          string  `json:"date"`
}
