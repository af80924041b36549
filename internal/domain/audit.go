package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction действие в журнале аудита
type AuditAction string

const (
	AuditCreateBooking       AuditAction = "create_booking"
	AuditCreatePayment       AuditAction = "create_payment"
	AuditProcessPayment      AuditAction = "process_payment"
	AuditPaymentWebhook      AuditAction = "payment_webhook"
	AuditUpdateBookingStatus AuditAction = "update_booking_status"
)

// AuditEntry запись журнала аудита (только добавление)
type AuditEntry struct {
	ID           uuid.UUID
	UserID       *uuid.UUID
	Action       AuditAction
	ResourceType string
	ResourceID   uuid.UUID
	IP           string
	UserAgent    string
	Data         map[string]interface{}
	CreatedAt    time.Time
}
