package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/mailer"
	auditService "github.com/m04kA/SMC-EventBookingService/internal/service/audit"
	"github.com/m04kA/SMC-EventBookingService/internal/service/pricing"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	calculator   PriceCalculator
	txManager    TransactionManager
	notifier     Notifier
	renderer     EmailRenderer
	audit        AuditRecorder
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	calculator PriceCalculator,
	txManager TransactionManager,
	notifier Notifier,
	renderer EmailRenderer,
	audit AuditRecorder,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calculator:   calculator,
		txManager:    txManager,
		notifier:     notifier,
		renderer:     renderer,
		audit:        audit,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Цена и снимок услуги читаются в той же транзакции, в которой создается бронирование.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: eventType=%s, date=%s, time=%s, guests=%d",
		req.EventType, req.EventDate.Format(domain.DateFormat), req.EventTime, req.GuestCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата мероприятия не раньше сегодняшнего дня
	if isDateInPast(req.EventDate, uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: event date %s is in the past", req.EventDate.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	var result *domain.Booking

	// 3. Расчет цены и создание бронирования в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		quote, err := uc.calculator.Quote(txCtx, req.ServiceID, req.EventType, req.GuestCount)
		if err != nil {
			switch {
			case errors.Is(err, pricing.ErrServiceNotFound):
				return ErrServiceNotFound
			case errors.Is(err, pricing.ErrInvalidInput):
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			default:
				uc.logger.Error("CreateBooking: failed to calculate price: %v", err)
				return fmt.Errorf("%w: failed to calculate price: %w", ErrInternal, err)
			}
		}

		booking := &domain.Booking{
			UserID:          req.UserID,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:   req.CustomerPhone,
			ServiceID:       req.ServiceID,
			EventType:       req.EventType,
			EventDate:       req.EventDate,
			EventTime:       req.EventTime,
			GuestCount:      req.GuestCount,
			Message:         req.Message,
			PriceCalculated: quote.TotalPrice,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentUnpaid,
		}
		if quote.Service != nil {
			booking.ServiceSnapshot = quote.Service.Snapshot()
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%v not found or inactive", req.ServiceID)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s price=%d", result.ID, result.PriceCalculated)

	// 4. Побочные эффекты после фиксации
	uc.metrics.BookingCreated()
	uc.audit.Record(ctx, domain.AuditCreateBooking, auditService.ResourceBooking, result.ID, map[string]interface{}{
		"customerEmail":   result.CustomerEmail,
		"eventType":       result.EventType,
		"priceCalculated": result.PriceCalculated,
	})
	uc.afterCommit(ctx, result)

	return result, nil
}

func (uc *UseCase) afterCommit(ctx context.Context, booking *domain.Booking) {
	err := uc.notifier.NotifyAdmins(ctx, domain.NotificationBookingCreated,
		fmt.Sprintf("New booking created by %s", booking.CustomerName),
		map[string]interface{}{
			"bookingId":     booking.ID.String(),
			"customerName":  booking.CustomerName,
			"customerEmail": booking.CustomerEmail,
		})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to notify admins about booking id=%s: %v", booking.ID, err)
	}

	email := mailer.BookingEmail{
		BookingID:    booking.ID.String(),
		CustomerName: booking.CustomerName,
		EventType:    string(booking.EventType),
		EventDate:    booking.EventDate.Format(domain.DateFormat),
		EventTime:    booking.EventTime.String(),
		GuestCount:   booking.GuestCount,
		Amount:       booking.PriceCalculated,
		Currency:     domain.DefaultCurrency,
	}
	if booking.ServiceSnapshot != nil {
		email.ServiceName = booking.ServiceSnapshot.Name
	}

	subject, html, err := uc.renderer.BookingConfirmation(email)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to render confirmation for booking id=%s: %v", booking.ID, err)
		return
	}
	if err := uc.notifier.SendEmail(ctx, booking.CustomerEmail, subject, html); err != nil {
		uc.logger.Error("CreateBooking: failed to send confirmation to %s: %v", booking.CustomerEmail, err)
	}
}
