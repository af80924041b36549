package process_payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/mailer"
	bookingRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/payment"
	auditService "github.com/m04kA/SMC-EventBookingService/internal/service/audit"
	"github.com/m04kA/SMC-EventBookingService/pkg/ptr"
)

// UseCase use case завершения платежа: pending -> completed | failed
type UseCase struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	txManager    TransactionManager
	qr           QRGenerator
	notifier     Notifier
	renderer     ReceiptRenderer
	audit        AuditRecorder
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	qr QRGenerator,
	notifier Notifier,
	renderer ReceiptRenderer,
	audit AuditRecorder,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		txManager:    txManager,
		qr:           qr,
		notifier:     notifier,
		renderer:     renderer,
		audit:        audit,
		metrics:      metrics,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переводит платеж и его бронирование в конечное состояние.
// Обе записи читаются под блокировкой и меняются условно в одной транзакции,
// поэтому из двух конкурентных вызовов завершается только один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ProcessPayment: payment=%s, success=%t, trigger=%s", req.PaymentID, req.Success, req.Trigger)

	var (
		result *Response
		qrURL  *string
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		qrURL = nil

		// 1. Платеж под блокировкой
		payment, err := uc.paymentRepo.GetByID(txCtx, req.PaymentID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			uc.logger.Error("ProcessPayment: failed to get payment id=%s: %v", req.PaymentID, err)
			return fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
		}

		// 2. Обрабатывается только pending
		if !payment.IsPending() {
			return fmt.Errorf("%w: status=%s", ErrAlreadyProcessed, payment.Status)
		}

		// 3. Бронирование под блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, payment.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("ProcessPayment: failed to get booking id=%s: %v", payment.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if booking.PaymentStatus != domain.PaymentProcessing {
			return fmt.Errorf("%w: booking paymentStatus=%s", ErrAlreadyProcessed, booking.PaymentStatus)
		}

		// 4. Переход
		if req.Success {
			// QR-код не обязателен для завершения: при ошибке ссылка остается пустой
			qrURL = uc.generateQR(txCtx, payment)
			err = uc.complete(txCtx, payment, booking, qrURL)
		} else {
			err = uc.fail(txCtx, payment, booking)
		}
		if err != nil {
			return err
		}

		result = &Response{Payment: payment, Booking: booking}
		return nil
	})

	if err != nil {
		// Файл без зафиксированной ссылки никому не нужен. При конфликте
		// то же имя файла мог зафиксировать конкурентный вызов.
		if qrURL != nil && !errors.Is(err, ErrAlreadyProcessed) {
			uc.removeQR(ctx, req.PaymentID, *qrURL)
		}
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			uc.logger.Warn("ProcessPayment: payment id=%s not found", req.PaymentID)
		case errors.Is(err, ErrAlreadyProcessed):
			uc.logger.Warn("ProcessPayment: payment id=%s: %v", req.PaymentID, err)
		case errors.Is(err, ErrBookingNotFound):
			uc.logger.Error("ProcessPayment: payment id=%s has no booking", req.PaymentID)
		}
		return nil, err
	}

	outcome := OutcomeFailed
	if req.Success {
		outcome = OutcomeCompleted
	}
	uc.logger.Info("ProcessPayment: payment id=%s %s (booking id=%s)", result.Payment.ID, outcome, result.Booking.ID)

	// 5. Побочные эффекты после фиксации
	uc.metrics.PaymentProcessed(outcome)
	uc.audit.Record(ctx, domain.AuditProcessPayment, auditService.ResourcePayment, result.Payment.ID, map[string]interface{}{
		"trigger": string(req.Trigger),
		"success": req.Success,
	})
	if req.Success {
		uc.notifyCompleted(ctx, result.Payment, result.Booking)
	} else {
		uc.notifyFailed(ctx, result.Payment, result.Booking)
	}

	return result, nil
}

func (uc *UseCase) complete(ctx context.Context, payment *domain.Payment, booking *domain.Booking, qrURL *string) error {
	err := uc.paymentRepo.Settle(ctx, payment.ID, domain.PaymentSettlement{
		From:      domain.PaymentStatePending,
		To:        domain.PaymentStateCompleted,
		QRCodeURL: qrURL,
	})
	if err != nil {
		return uc.settleError(payment, err)
	}

	err = uc.bookingRepo.UpdatePaymentState(ctx, booking.ID, domain.PaymentTransition{
		From:          domain.PaymentProcessing,
		To:            domain.PaymentPaid,
		Status:        ptr.Ptr(domain.StatusConfirmed),
		QRCodeURL:     qrURL,
		TransactionID: ptr.Ptr(payment.TransactionID),
	})
	if err != nil {
		return uc.transitionError(booking, err)
	}

	payment.Status = domain.PaymentStateCompleted
	payment.QRCodeURL = qrURL
	booking.PaymentStatus = domain.PaymentPaid
	booking.Status = domain.StatusConfirmed
	booking.QRCodeURL = qrURL
	booking.TransactionID = ptr.Ptr(payment.TransactionID)
	return nil
}

func (uc *UseCase) fail(ctx context.Context, payment *domain.Payment, booking *domain.Booking) error {
	err := uc.paymentRepo.Settle(ctx, payment.ID, domain.PaymentSettlement{
		From: domain.PaymentStatePending,
		To:   domain.PaymentStateFailed,
	})
	if err != nil {
		return uc.settleError(payment, err)
	}

	err = uc.bookingRepo.UpdatePaymentState(ctx, booking.ID, domain.PaymentTransition{
		From: domain.PaymentProcessing,
		To:   domain.PaymentFailed,
	})
	if err != nil {
		return uc.transitionError(booking, err)
	}

	payment.Status = domain.PaymentStateFailed
	booking.PaymentStatus = domain.PaymentFailed
	return nil
}

func (uc *UseCase) settleError(payment *domain.Payment, err error) error {
	if errors.Is(err, paymentRepo.ErrStatusMismatch) {
		return fmt.Errorf("%w: payment changed concurrently", ErrAlreadyProcessed)
	}
	uc.logger.Error("ProcessPayment: failed to settle payment id=%s: %v", payment.ID, err)
	return fmt.Errorf("%w: failed to settle payment: %w", ErrInternal, err)
}

func (uc *UseCase) transitionError(booking *domain.Booking, err error) error {
	if errors.Is(err, bookingRepo.ErrPaymentStateMismatch) {
		return fmt.Errorf("%w: booking changed concurrently", ErrAlreadyProcessed)
	}
	uc.logger.Error("ProcessPayment: failed to update booking id=%s: %v", booking.ID, err)
	return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
}

func (uc *UseCase) generateQR(ctx context.Context, payment *domain.Payment) *string {
	payload, err := json.Marshal(qrPayload{
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		PaymentMethod: string(payment.Method),
		PhoneNumber:   payment.PhoneNumber,
		TransactionID: payment.TransactionID,
		Date:          uc.timeProvider.Now().Format(domain.DateFormat),
	})
	if err != nil {
		uc.logger.Error("ProcessPayment: failed to encode QR payload for payment id=%s: %v", payment.ID, err)
		return nil
	}

	url, err := uc.qr.Generate(ctx, string(payload), fmt.Sprintf("payment_%s.png", payment.ID))
	if err != nil {
		uc.logger.Error("ProcessPayment: failed to generate QR code for payment id=%s: %v", payment.ID, err)
		return nil
	}
	return &url
}

func (uc *UseCase) removeQR(ctx context.Context, paymentID uuid.UUID, url string) {
	if err := uc.qr.Remove(ctx, url); err != nil {
		uc.logger.Error("ProcessPayment: failed to remove QR code %s for payment id=%s: %v", url, paymentID, err)
	}
}

func (uc *UseCase) notifyCompleted(ctx context.Context, payment *domain.Payment, booking *domain.Booking) {
	if booking.UserID != nil {
		err := uc.notifier.NotifyUser(ctx, *booking.UserID, domain.NotificationPaymentCompleted,
			"Payment completed successfully",
			map[string]interface{}{
				"paymentId": payment.ID.String(),
				"bookingId": booking.ID.String(),
			})
		if err != nil {
			uc.logger.Error("ProcessPayment: failed to notify user about payment id=%s: %v", payment.ID, err)
		}
	}

	subject, html, err := uc.renderer.PaymentReceipt(mailer.ReceiptEmail{
		PaymentID:     payment.ID.String(),
		BookingID:     booking.ID.String(),
		TransactionID: payment.TransactionID,
		Method:        string(payment.Method),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		PaidAt:        uc.timeProvider.Now().Format(domain.DateFormat),
	})
	if err != nil {
		uc.logger.Error("ProcessPayment: failed to render receipt for payment id=%s: %v", payment.ID, err)
		return
	}
	if err := uc.notifier.SendEmail(ctx, booking.CustomerEmail, subject, html); err != nil {
		uc.logger.Error("ProcessPayment: failed to send receipt to %s: %v", booking.CustomerEmail, err)
	}
}

func (uc *UseCase) notifyFailed(ctx context.Context, payment *domain.Payment, booking *domain.Booking) {
	if booking.UserID == nil {
		return
	}
	err := uc.notifier.NotifyUser(ctx, *booking.UserID, domain.NotificationPaymentFailed,
		"Payment failed. Please try again.",
		map[string]interface{}{"paymentId": payment.ID.String()})
	if err != nil {
		uc.logger.Error("ProcessPayment: failed to notify user about payment id=%s: %v", payment.ID, err)
	}
}
