// Package worker фоновые задачи сервиса
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-EventBookingService/internal/usecase/process_payment"
)

// StalePaymentSource выборка платежей, зависших в pending
type StalePaymentSource interface {
	ListStalePending(ctx context.Context, olderThan time.Time, after *domain.StaleCursor, limit int) ([]*domain.Payment, error)
}

// Gateway статус транзакции у провайдера
type Gateway interface {
	GetTransactionWithGracefulDegradation(ctx context.Context, transactionID string) (*paymentgateway.Transaction, error)
}

// PaymentProcessor завершение платежа
type PaymentProcessor interface {
	Execute(ctx context.Context, req *process_payment.Request) (*process_payment.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ReconcilerConfig параметры сверки
type ReconcilerConfig struct {
	Interval   time.Duration // период запуска
	CheckAfter time.Duration // возраст, после которого платеж сверяется со шлюзом
	PendingTTL time.Duration // возраст, после которого платеж без ответа шлюза отклоняется
	Batch      int
}

// RoundStats итог одного прохода
type RoundStats struct {
	Checked   int
	Completed int
	Failed    int
	Skipped   int
	Conflicts int
	Errors    int
}

// Reconciler периодически сверяет зависшие платежи со шлюзом и завершает их через process_payment
type Reconciler struct {
	payments  StalePaymentSource
	gateway   Gateway
	processor PaymentProcessor
	cfg       ReconcilerConfig
	now       func() time.Time
	logger    Logger

	// позиция следующего прохода; nil - с самого старого платежа
	cursor *domain.StaleCursor
}

func NewReconciler(payments StalePaymentSource, gateway Gateway, processor PaymentProcessor, cfg ReconcilerConfig, logger Logger) *Reconciler {
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	return &Reconciler{
		payments:  payments,
		gateway:   gateway,
		processor: processor,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

// Run запускает проходы с периодом Interval до отмены ctx
func (r *Reconciler) Run(ctx context.Context) {
	if r.cfg.Interval <= 0 {
		r.logger.Warn("Reconciler: disabled (interval=%s)", r.cfg.Interval)
		return
	}

	r.logger.Info("Reconciler started: interval=%s, check_after=%s, pending_ttl=%s", r.cfg.Interval, r.cfg.CheckAfter, r.cfg.PendingTTL)
	defer r.logger.Info("Reconciler stopped")

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("Reconciler: round failed: %v", err)
			}
		}
	}
}

// RunOnce один проход по пачке зависших платежей.
// Проходы идут по кругу: следующий продолжает после последнего проверенного платежа,
// неполная пачка возвращает курсор к самым старым.
func (r *Reconciler) RunOnce(ctx context.Context) (RoundStats, error) {
	var stats RoundStats
	now := r.now()

	stale, err := r.payments.ListStalePending(ctx, now.Add(-r.cfg.CheckAfter), r.cursor, r.cfg.Batch)
	if err != nil {
		return stats, err
	}

	if len(stale) < r.cfg.Batch {
		r.cursor = nil
	} else {
		last := stale[len(stale)-1]
		r.cursor = &domain.StaleCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	for _, p := range stale {
		if ctx.Err() != nil {
			break
		}
		stats.Checked++

		success, decided := r.decide(ctx, p, now)
		if !decided {
			stats.Skipped++
			continue
		}

		_, err := r.processor.Execute(ctx, &process_payment.Request{
			PaymentID: p.ID,
			Success:   success,
			Trigger:   process_payment.TriggerReconciliation,
		})
		switch {
		case err == nil && success:
			stats.Completed++
		case err == nil:
			stats.Failed++
		case errors.Is(err, process_payment.ErrAlreadyProcessed):
			stats.Conflicts++
		default:
			stats.Errors++
			r.logger.Error("Reconciler: failed to settle payment id=%s: %v", p.ID, err)
		}
	}

	if stats.Checked > 0 {
		r.logger.Info("Reconciler: checked=%d completed=%d failed=%d skipped=%d conflicts=%d errors=%d",
			stats.Checked, stats.Completed, stats.Failed, stats.Skipped, stats.Conflicts, stats.Errors)
	}
	return stats, nil
}

// decide возвращает исход платежа и признак, что решение принято.
// Окончательный ответ шлюза решает сразу; без него просроченный платеж отклоняется, остальные ждут следующего прохода.
func (r *Reconciler) decide(ctx context.Context, p *domain.Payment, now time.Time) (success bool, decided bool) {
	tx, err := r.gateway.GetTransactionWithGracefulDegradation(ctx, p.TransactionID)
	if err == nil && tx.IsFinal() {
		return tx.Status == paymentgateway.StatusSuccess && tx.Amount == float64(p.Amount), true
	}

	if err != nil && !errors.Is(err, paymentgateway.ErrNotConfigured) && !errors.Is(err, paymentgateway.ErrTransactionNotFound) {
		r.logger.Warn("Reconciler: no gateway answer for payment id=%s: %v", p.ID, err)
	}

	if now.Sub(p.CreatedAt) >= r.cfg.PendingTTL {
		r.logger.Warn("Reconciler: payment id=%s expired after %s", p.ID, r.cfg.PendingTTL)
		return false, true
	}
	return false, false
}
