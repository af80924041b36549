package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrPaymentStateMismatch возвращается, когда статус оплаты изменился между чтением и записью
	ErrPaymentStateMismatch = errors.New("booking.repository: payment status mismatch")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncodeSnapshot возвращается, когда снимок услуги не сериализуется в JSON
	ErrEncodeSnapshot = errors.New("booking.repository: failed to encode service snapshot")
)
