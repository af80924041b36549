package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

const (
	outcomePublished = "published"
	outcomeExecuted  = "executed"
	outcomeFailed    = "failed"
)

// Dispatcher принимает намерения от движка.
// С брокером намерение публикуется в RabbitMQ, без брокера исполняется асинхронно в процессе.
// Доставка не более одного раза: ошибки логируются и не возвращаются в транзакцию.
type Dispatcher struct {
	publisher Publisher
	executor  IntentExecutor
	metrics   Metrics
	logger    Logger

	wg sync.WaitGroup
}

// NewQueueDispatcher публикует намерения в брокер
func NewQueueDispatcher(publisher Publisher, metrics Metrics, logger Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, metrics: metrics, logger: logger}
}

// NewInlineDispatcher исполняет намерения в отдельной горутине
func NewInlineDispatcher(executor IntentExecutor, metrics Metrics, logger Logger) *Dispatcher {
	return &Dispatcher{executor: executor, metrics: metrics, logger: logger}
}

// NotifyUser уведомление владельцу бронирования
func (d *Dispatcher) NotifyUser(ctx context.Context, userID uuid.UUID, kind domain.NotificationKind, message string, data map[string]interface{}) error {
	return d.dispatch(ctx, Intent{
		Kind:    IntentNotifyUser,
		UserID:  &userID,
		Event:   kind,
		Message: message,
		Data:    data,
	})
}

// NotifyAdmins уведомление всем администраторам
func (d *Dispatcher) NotifyAdmins(ctx context.Context, kind domain.NotificationKind, message string, data map[string]interface{}) error {
	return d.dispatch(ctx, Intent{
		Kind:    IntentNotifyAdmins,
		Event:   kind,
		Message: message,
		Data:    data,
	})
}

// SendEmail письмо клиенту
func (d *Dispatcher) SendEmail(ctx context.Context, to, subject, html string) error {
	return d.dispatch(ctx, Intent{
		Kind:    IntentSendEmail,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
}

// Wait дожидается завершения асинхронных исполнений (при остановке сервиса)
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, intent Intent) error {
	if d.publisher != nil {
		if err := d.publisher.PublishJSON(ctx, string(intent.Kind), intent); err != nil {
			d.record(intent.Kind, outcomeFailed)
			return fmt.Errorf("%w: kind=%s: %v", ErrPublish, intent.Kind, err)
		}
		d.record(intent.Kind, outcomePublished)
		return nil
	}

	// запрос может завершиться раньше исполнения
	execCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.executor.Execute(execCtx, intent); err != nil {
			d.record(intent.Kind, outcomeFailed)
			d.logger.Error("Dispatcher: intent kind=%s failed: %v", intent.Kind, err)
			return
		}
		d.record(intent.Kind, outcomeExecuted)
	}()

	return nil
}

func (d *Dispatcher) record(kind IntentKind, outcome string) {
	if d.metrics != nil {
		d.metrics.IntentDispatched(string(kind), outcome)
	}
}
