package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentStatus возвращается при некорректном статусе оплаты
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID uuid.UUID `json:"userId"`
	Status *string   `json:"status,omitempty"`
	Page   int       `json:"page"`
	Limit  int       `json:"limit"`
}

// GetAllBookingsRequest запрос администратора на список всех бронирований
type GetAllBookingsRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
	Search        string  `json:"search,omitempty"` // имя, email или телефон
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetAllBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		Search: r.Search,
		Page:   domain.Page{Page: r.Page, Limit: r.Limit}.Normalize(),
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.PaymentStatus != nil {
		ps := domain.PaymentStatus(*r.PaymentStatus)
		if !ps.IsValid() {
			return filter, ErrInvalidPaymentStatus
		}
		filter.PaymentStatus = &ps
	}

	return filter, nil
}

// Response модели

// ServiceSnapshotResponse услуга на момент бронирования
type ServiceSnapshotResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    int64     `json:"price"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID     uuid.UUID  `json:"id"`
	UserID *uuid.UUID `json:"userId"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	ServiceID       *uuid.UUID               `json:"serviceId"`
	ServiceSnapshot *ServiceSnapshotResponse `json:"serviceSnapshot"`

	EventType  string  `json:"eventType"`
	EventDate  string  `json:"eventDate"` // "2026-05-20"
	EventTime  string  `json:"eventTime"` // "18:30"
	GuestCount int     `json:"guestCount"`
	Message    *string `json:"message,omitempty"`

	PriceCalculated int64  `json:"priceCalculated"`
	Status          string `json:"status"`
	PaymentStatus   string `json:"paymentStatus"`

	QRCodeURL     *string `json:"qrCodeUrl"`
	TransactionID *string `json:"transactionId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		ServiceID:       b.ServiceID,
		EventType:       string(b.EventType),
		EventDate:       b.EventDate.Format(domain.DateFormat),
		EventTime:       b.EventTime.String(),
		GuestCount:      b.GuestCount,
		Message:         b.Message,
		PriceCalculated: b.PriceCalculated,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		QRCodeURL:       b.QRCodeURL,
		TransactionID:   b.TransactionID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if s := b.ServiceSnapshot; s != nil {
		resp.ServiceSnapshot = &ServiceSnapshotResponse{
			ID:       s.ID,
			Name:     s.Name,
			Category: s.Category,
			Price:    s.Price,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует страницу domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, total int, page domain.Page) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings:   make([]BookingResponse, 0, len(bookings)),
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}

	for _, b := range bookings {
		if dto := FromDomainBooking(b); dto != nil {
			resp.Bookings = append(resp.Bookings, *dto)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
