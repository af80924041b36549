package paymentgateway

// StatusSuccess статус успешной транзакции у провайдера
const StatusSuccess = "success"

// Transaction состояние транзакции у провайдера
type Transaction struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
}

// IsFinal провайдер принял окончательное решение
func (t *Transaction) IsFinal() bool {
	return t.Status == StatusSuccess || t.Status == "failed"
}
