package payment_webhook

import (
	"context"

	handleWebhook "github.com/m04kA/SMC-EventBookingService/internal/usecase/handle_webhook"
)

type WebhookUseCase interface {
	Execute(ctx context.Context, req *handleWebhook.Request) handleWebhook.Outcome
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
