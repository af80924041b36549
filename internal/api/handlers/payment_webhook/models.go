package payment_webhook

import (
	handleWebhook "github.com/m04kA/SMC-EventBookingService/internal/usecase/handle_webhook"
)

// WebhookRequest уведомление провайдера
type WebhookRequest struct {
	Provider      string  `json:"provider"`
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *WebhookRequest) ToUseCaseRequest() *handleWebhook.Request {
	return &handleWebhook.Request{
		Provider:      r.Provider,
		TransactionID: r.TransactionID,
		Status:        r.Status,
		Amount:        r.Amount,
	}
}
