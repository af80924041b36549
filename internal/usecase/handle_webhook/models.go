package handle_webhook

// StatusSuccess статус успешной транзакции у провайдера
const StatusSuccess = "success"

// Outcome итог обработки уведомления (для журнала и метрик, наружу не передается)
type Outcome string

const (
	OutcomeIgnoredProvider    Outcome = "ignored_provider"
	OutcomeUnknownTransaction Outcome = "unknown_transaction"
	OutcomeCompleted          Outcome = "completed"
	OutcomeFailed             Outcome = "failed"
	OutcomeConflict           Outcome = "conflict"
	OutcomeError              Outcome = "error"
)

// Request уведомление провайдера оплаты
type Request struct {
	Provider      string
	TransactionID string
	Status        string
	Amount        float64
}
