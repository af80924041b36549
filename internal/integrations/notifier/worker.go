package notifier

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultExecTimeout = 30 * time.Second

// DeliverySource очередь намерений (pkg/mq.Consumer)
type DeliverySource interface {
	Deliveries(ctx context.Context) (<-chan amqp.Delivery, error)
}

// Worker читает намерения из RabbitMQ и исполняет их.
// Неудачное намерение отбрасывается без повторной постановки в очередь.
type Worker struct {
	source   DeliverySource
	executor IntentExecutor
	metrics  Metrics
	logger   Logger
	timeout  time.Duration
}

func NewWorker(source DeliverySource, executor IntentExecutor, metrics Metrics, logger Logger) *Worker {
	return &Worker{
		source:   source,
		executor: executor,
		metrics:  metrics,
		logger:   logger,
		timeout:  defaultExecTimeout,
	}
}

// Run обрабатывает сообщения до отмены ctx или закрытия канала
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.source.Deliveries(ctx)
	if err != nil {
		return err
	}

	w.logger.Info("Notifier worker started")
	defer w.logger.Info("Notifier worker stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var intent Intent
	if err := json.Unmarshal(d.Body, &intent); err != nil {
		w.logger.Error("Notifier worker: malformed intent routing_key=%s: %v", d.RoutingKey, err)
		_ = d.Nack(false, false)
		return
	}
	if intent.Kind == "" {
		intent.Kind = IntentKind(d.RoutingKey)
	}

	execCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.executor.Execute(execCtx, intent); err != nil {
		w.record(intent.Kind, outcomeFailed)
		w.logger.Error("Notifier worker: intent kind=%s failed: %v", intent.Kind, err)
		_ = d.Nack(false, false)
		return
	}

	w.record(intent.Kind, outcomeExecuted)
	if err := d.Ack(false); err != nil {
		w.logger.Warn("Notifier worker: ack failed: %v", err)
	}
}

func (w *Worker) record(kind IntentKind, outcome string) {
	if w.metrics != nil {
		w.metrics.IntentDispatched(string(kind), outcome)
	}
}
