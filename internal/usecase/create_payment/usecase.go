package create_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/payment"
	auditService "github.com/m04kA/SMC-EventBookingService/internal/service/audit"
)

// UseCase use case для создания платежа по бронированию
type UseCase struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	txManager   TransactionManager
	txIDs       TransactionIDGenerator
	notifier    Notifier
	audit       AuditRecorder
	metrics     Metrics
	currency    string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	notifier Notifier,
	audit AuditRecorder,
	metrics Metrics,
	currency string,
	logger Logger,
) *UseCase {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		txIDs:       RandomTransactionID{},
		notifier:    notifier,
		audit:       audit,
		metrics:     metrics,
		currency:    currency,
		logger:      logger,
	}
}

// WithTransactionIDGenerator подменяет генератор ссылок на транзакцию
func (uc *UseCase) WithTransactionIDGenerator(g TransactionIDGenerator) *UseCase {
	uc.txIDs = g
	return uc
}

// Execute создает платеж в статусе pending и переводит бронирование unpaid -> processing.
// Обе записи меняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePayment: booking=%s, method=%s", req.BookingID, req.Method)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreatePayment: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Payment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Бронирование под блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CreatePayment: failed to get booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 3. Права доступа
		if !canAccess(req, booking) {
			return ErrAccessDenied
		}

		// 4. Проверка статуса оплаты
		if !booking.CanStartPayment() {
			return fmt.Errorf("%w: paymentStatus=%s", ErrPaymentConflict, booking.PaymentStatus)
		}

		// 5. Ссылка на транзакцию
		transactionID, err := uc.txIDs.Generate()
		if err != nil {
			uc.logger.Error("CreatePayment: failed to generate transaction id: %v", err)
			return fmt.Errorf("%w: failed to generate transaction id: %v", ErrInternal, err)
		}

		// 6. Платеж на сумму бронирования
		payment, err := uc.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID:     booking.ID,
			UserID:        booking.UserID,
			Amount:        booking.PriceCalculated,
			Currency:      uc.currency,
			Method:        req.Method,
			PhoneNumber:   req.PhoneNumber,
			TransactionID: transactionID,
			Status:        domain.PaymentStatePending,
		})
		if err != nil {
			if errors.Is(err, paymentRepo.ErrActivePaymentExists) {
				return fmt.Errorf("%w: active payment exists", ErrPaymentConflict)
			}
			uc.logger.Error("CreatePayment: failed to create payment for booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
		}

		// 7. unpaid -> processing
		err = uc.bookingRepo.UpdatePaymentState(txCtx, booking.ID, domain.PaymentTransition{
			From: domain.PaymentUnpaid,
			To:   domain.PaymentProcessing,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrPaymentStateMismatch) {
				return fmt.Errorf("%w: booking payment status changed concurrently", ErrPaymentConflict)
			}
			uc.logger.Error("CreatePayment: failed to update booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		created = payment
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			uc.logger.Warn("CreatePayment: booking id=%s not found", req.BookingID)
		case errors.Is(err, ErrAccessDenied):
			uc.logger.Warn("CreatePayment: access denied to booking id=%s", req.BookingID)
		case errors.Is(err, ErrPaymentConflict):
			uc.logger.Warn("CreatePayment: booking id=%s: %v", req.BookingID, err)
		}
		return nil, err
	}

	uc.logger.Info("CreatePayment: created payment id=%s txid=%s amount=%d", created.ID, created.TransactionID, created.Amount)

	// 8. Побочные эффекты после фиксации
	uc.metrics.PaymentCreated(string(created.Method))
	uc.audit.Record(ctx, domain.AuditCreatePayment, auditService.ResourcePayment, created.ID, map[string]interface{}{
		"bookingId":     created.BookingID.String(),
		"paymentMethod": created.Method,
		"amount":        created.Amount,
	})

	err = uc.notifier.NotifyAdmins(ctx, domain.NotificationPaymentCreated,
		fmt.Sprintf("New payment created for booking %s", created.BookingID),
		map[string]interface{}{
			"bookingId": created.BookingID.String(),
			"paymentId": created.ID.String(),
			"amount":    created.Amount,
		})
	if err != nil {
		uc.logger.Error("CreatePayment: failed to notify admins about payment id=%s: %v", created.ID, err)
	}

	return &Response{
		Payment:      created,
		Instructions: domain.InstructionsFor(created.Method, created.Amount, created.PhoneNumber),
	}, nil
}
