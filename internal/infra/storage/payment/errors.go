package payment

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("payment.repository: payment not found")

	// ErrStatusMismatch возвращается, когда статус платежа изменился между чтением и записью
	ErrStatusMismatch = errors.New("payment.repository: payment status mismatch")

	// ErrActivePaymentExists нарушение uq_payments_active_booking: у бронирования уже есть активный платеж
	ErrActivePaymentExists = errors.New("payment.repository: active payment already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
