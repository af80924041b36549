package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе платежа
	ErrInvalidStatus = errors.New("invalid payment status")

	// ErrInvalidMethod возвращается при неизвестном способе оплаты
	ErrInvalidMethod = errors.New("invalid payment method")
)

// GetPaymentsRequest запрос на список платежей (UserID nil для администратора)
type GetPaymentsRequest struct {
	UserID *uuid.UUID `json:"userId,omitempty"`
	Status *string    `json:"status,omitempty"`
	Method *string    `json:"paymentMethod,omitempty"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetPaymentsRequest) ToDomainFilter() (domain.PaymentsFilter, error) {
	filter := domain.PaymentsFilter{
		UserID: r.UserID,
		Page:   domain.Page{Page: r.Page, Limit: r.Limit}.Normalize(),
	}

	if r.Status != nil {
		status := domain.PaymentState(*r.Status)
		if !status.IsValid() {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	if r.Method != nil {
		method := domain.PaymentMethod(*r.Method)
		if !method.IsValid() {
			return filter, ErrInvalidMethod
		}
		filter.Method = &method
	}

	return filter, nil
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     uuid.UUID  `json:"bookingId"`
	UserID        *uuid.UUID `json:"userId"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	PaymentMethod string     `json:"paymentMethod"`
	PhoneNumber   *string    `json:"phoneNumber"`
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	QRCodeURL     *string    `json:"qrCodeUrl"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PaymentListResponse страница платежей
type PaymentListResponse struct {
	Payments   []PaymentResponse `json:"payments"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentMethod: string(p.Method),
		PhoneNumber:   p.PhoneNumber,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		QRCodeURL:     p.QRCodeURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromDomainPaymentList конвертирует страницу domain моделей в DTO
func FromDomainPaymentList(payments []*domain.Payment, total int, page domain.Page) *PaymentListResponse {
	resp := &PaymentListResponse{
		Payments:   make([]PaymentResponse, 0, len(payments)),
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}
	for _, p := range payments {
		if dto := FromDomainPayment(p); dto != nil {
			resp.Payments = append(resp.Payments, *dto)
		}
	}
	return resp
}
