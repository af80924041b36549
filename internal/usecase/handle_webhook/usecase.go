package handle_webhook

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/payment"
	auditService "github.com/m04kA/SMC-EventBookingService/internal/service/audit"
	"github.com/m04kA/SMC-EventBookingService/internal/usecase/process_payment"
)

// UseCase обработка уведомлений провайдеров оплаты.
// Ошибки не возвращаются вызывающему, чтобы по ответу нельзя было узнать о существовании транзакции.
type UseCase struct {
	paymentRepo PaymentRepository
	processor   PaymentProcessor
	audit       AuditRecorder
	metrics     Metrics
	providers   map[string]struct{}
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	processor PaymentProcessor,
	audit AuditRecorder,
	metrics Metrics,
	providers []string,
	logger Logger,
) *UseCase {
	set := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return &UseCase{
		paymentRepo: paymentRepo,
		processor:   processor,
		audit:       audit,
		metrics:     metrics,
		providers:   set,
		logger:      logger,
	}
}

// Execute обрабатывает уведомление и возвращает его итог
func (uc *UseCase) Execute(ctx context.Context, req *Request) Outcome {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	uc.logger.Info("HandleWebhook: provider=%s, transaction=%s, status=%s", provider, req.TransactionID, req.Status)

	// 1. Неизвестный провайдер
	if _, ok := uc.providers[provider]; !ok {
		uc.logger.Warn("HandleWebhook: ignoring provider %q", req.Provider)
		uc.metrics.WebhookReceived(metricProvider(provider, uc.providers), string(OutcomeIgnoredProvider))
		return OutcomeIgnoredProvider
	}

	outcome, paymentID := uc.handle(ctx, req)
	uc.metrics.WebhookReceived(provider, string(outcome))

	// Уведомления известных провайдеров пишутся в журнал всегда.
	// Для неизвестной транзакции resource_id = uuid.Nil
	uc.audit.Record(ctx, domain.AuditPaymentWebhook, auditService.ResourcePayment, paymentID, map[string]interface{}{
		"provider":      provider,
		"transactionId": req.TransactionID,
		"status":        req.Status,
		"amount":        req.Amount,
		"outcome":       string(outcome),
	})

	return outcome
}

func (uc *UseCase) handle(ctx context.Context, req *Request) (Outcome, uuid.UUID) {

	// 2. Платеж по ссылке на транзакцию
	payment, err := uc.paymentRepo.GetByTransactionID(ctx, req.TransactionID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Warn("HandleWebhook: unknown transaction %q", req.TransactionID)
			return OutcomeUnknownTransaction, uuid.Nil
		}
		uc.logger.Error("HandleWebhook: failed to get payment by transaction %q: %v", req.TransactionID, err)
		return OutcomeError, uuid.Nil
	}

	// 3. Успех только при статусе success и совпадающей сумме
	success := req.Status == StatusSuccess && req.Amount == float64(payment.Amount)
	if req.Status == StatusSuccess && !success {
		uc.logger.Warn("HandleWebhook: amount mismatch for payment id=%s: got %v, want %d", payment.ID, req.Amount, payment.Amount)
	}

	_, err = uc.processor.Execute(ctx, &process_payment.Request{
		PaymentID: payment.ID,
		Success:   success,
		Trigger:   process_payment.TriggerWebhook,
	})

	var outcome Outcome
	switch {
	case err == nil && success:
		outcome = OutcomeCompleted
	case err == nil:
		outcome = OutcomeFailed
	case errors.Is(err, process_payment.ErrAlreadyProcessed):
		outcome = OutcomeConflict
	default:
		uc.logger.Error("HandleWebhook: failed to process payment id=%s: %v", payment.ID, err)
		outcome = OutcomeError
	}

	return outcome, payment.ID
}

// metricProvider ограничивает кардинальность метки: неизвестные провайдеры сводятся в "other"
func metricProvider(provider string, known map[string]struct{}) string {
	if _, ok := known[provider]; ok {
		return provider
	}
	return "other"
}
