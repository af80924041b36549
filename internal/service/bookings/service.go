package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/qrcode"
	bookingRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-EventBookingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	qr          QRStore
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	qr QRStore,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		qr:          qr,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, администратор любое
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getAccessible(ctx, "GetByID", id, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя постранично, новые первыми
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	filter := domain.BookingsFilter{
		UserID: &req.UserID,
		Page:   domain.Page{Page: req.Page, Limit: req.Limit}.Normalize(),
	}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, total, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d of %d bookings for user=%s", len(bookings), total, req.UserID)
	return models.FromDomainBookingList(bookings, total, filter.Page), nil
}

// GetAllBookings список всех бронирований для администратора.
// Поиск без учета регистра по имени, email и телефону клиента.
func (s *Service) GetAllBookings(ctx context.Context, req *models.GetAllBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetAllBookings: status=%v, paymentStatus=%v, search=%q, page=%d", req.Status, req.PaymentStatus, req.Search, req.Page)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAllBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, total, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetAllBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAllBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllBookings: successfully fetched %d of %d bookings", len(bookings), total)
	return models.FromDomainBookingList(bookings, total, filter.Page), nil
}

// GetQRCode возвращает PNG QR-кода оплаченного бронирования
func (s *Service) GetQRCode(ctx context.Context, id, userID uuid.UUID, isAdmin bool) ([]byte, error) {
	s.logger.Info("GetQRCode: booking id=%s for user=%s", id, userID)

	if _, err := s.paymentRepo.GetCompletedByBookingID(ctx, id); err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("GetQRCode: booking id=%s has no completed payment", id)
			return nil, ErrPaymentNotCompleted
		}
		s.logger.Error("GetQRCode: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetQRCode - repository error: %v", ErrInternal, err)
	}

	booking, err := s.getAccessible(ctx, "GetQRCode", id, userID, isAdmin)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, ErrPaymentNotCompleted
		}
		return nil, err
	}

	if booking.QRCodeURL == nil || *booking.QRCodeURL == "" {
		s.logger.Warn("GetQRCode: booking id=%s has no QR code", id)
		return nil, ErrQRNotAvailable
	}

	png, err := s.qr.Load(ctx, *booking.QRCodeURL)
	if err != nil {
		if errors.Is(err, qrcode.ErrNotFound) {
			s.logger.Warn("GetQRCode: QR file %s for booking id=%s is missing", *booking.QRCodeURL, id)
			return nil, ErrQRNotAvailable
		}
		s.logger.Error("GetQRCode: failed to read QR code for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetQRCode - read error: %v", ErrInternal, err)
	}

	return png, nil
}

// getAccessible загружает бронирование и проверяет права доступа
func (s *Service) getAccessible(ctx context.Context, op string, id, userID uuid.UUID, isAdmin bool) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !isAdmin && !booking.IsOwnedBy(userID) {
		s.logger.Warn("%s: access denied for user=%s to booking id=%s", op, userID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
