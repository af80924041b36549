package payment_webhook

import (
	"net/http"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
)

const msgWebhookProcessed = "Webhook processed"

type Handler struct {
	useCase WebhookUseCase
	logger  Logger
}

func NewHandler(useCase WebhookUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
// Ответ всегда 200 с одним и тем же телом, исход виден только в логе и метриках
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid request body: %v", err)
		handlers.RespondMessage(w, http.StatusOK, msgWebhookProcessed, nil)
		return
	}

	outcome := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())

	h.logger.Info("POST /payments/webhook - Webhook handled: provider=%s, outcome=%s", req.Provider, outcome)
	handlers.RespondMessage(w, http.StatusOK, msgWebhookProcessed, nil)
}
