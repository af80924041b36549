package update_booking_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/booking"
	auditService "github.com/m04kA/SMC-EventBookingService/internal/service/audit"
)

// UseCase ручная смена статуса бронирования администратором.
// Статус оплаты не меняется и не проверяется.
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	notifier    Notifier
	audit       AuditRecorder
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	audit AuditRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		audit:       audit,
		logger:      logger,
	}
}

// Execute перезаписывает статус и возвращает обновленное бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("UpdateBookingStatus: booking=%s, status=%s", req.BookingID, req.Status)

	if !req.Status.IsValid() {
		uc.logger.Warn("UpdateBookingStatus: invalid status %q", req.Status)
		return nil, ErrInvalidStatus
	}

	var (
		booking   *domain.Booking
		oldStatus domain.BookingStatus
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBookingStatus: failed to get booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, b.ID, req.Status); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBookingStatus: failed to update booking id=%s: %v", b.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		oldStatus = b.Status
		b.Status = req.Status
		booking = b
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			uc.logger.Warn("UpdateBookingStatus: booking id=%s not found", req.BookingID)
		}
		return nil, err
	}

	if booking.Status == domain.StatusConfirmed && booking.PaymentStatus != domain.PaymentPaid {
		uc.logger.Warn("UpdateBookingStatus: booking id=%s confirmed with paymentStatus=%s", booking.ID, booking.PaymentStatus)
	}

	uc.audit.Record(ctx, domain.AuditUpdateBookingStatus, auditService.ResourceBooking, booking.ID, map[string]interface{}{
		"oldStatus": oldStatus,
		"newStatus": booking.Status,
	})

	uc.notify(ctx, booking)

	return booking, nil
}

func (uc *UseCase) notify(ctx context.Context, booking *domain.Booking) {
	var kind domain.NotificationKind
	switch booking.Status {
	case domain.StatusConfirmed:
		kind = domain.NotificationBookingConfirmed
	case domain.StatusCancelled:
		kind = domain.NotificationBookingCancelled
	default:
		return
	}

	// Гостевое бронирование: входящих нет
	if booking.UserID == nil {
		return
	}

	err := uc.notifier.NotifyUser(ctx, *booking.UserID, kind,
		fmt.Sprintf("Your booking has been %s", booking.Status),
		map[string]interface{}{
			"bookingId": booking.ID.String(),
			"status":    booking.Status,
		})
	if err != nil {
		uc.logger.Error("UpdateBookingStatus: failed to notify user about booking id=%s: %v", booking.ID, err)
	}
}
