package paymentgateway

import "errors"

var (
	// ErrTransactionNotFound шлюз не знает такую транзакцию
	ErrTransactionNotFound = errors.New("payment gateway: transaction not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payment gateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("payment gateway client: invalid response")

	// ErrGatewayDegraded шлюз недоступен, сверку следует отложить
	ErrGatewayDegraded = errors.New("payment gateway unavailable: graceful degradation applied")

	// ErrNotConfigured адрес шлюза не задан
	ErrNotConfigured = errors.New("payment gateway: not configured")
)
