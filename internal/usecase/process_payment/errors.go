package process_payment

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("process_payment: payment not found")

	// ErrBookingNotFound возвращается, когда у платежа нет бронирования
	ErrBookingNotFound = errors.New("process_payment: booking not found")

	// ErrAlreadyProcessed возвращается, когда платеж уже не в статусе pending
	ErrAlreadyProcessed = errors.New("process_payment: payment already processed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("process_payment: internal error")
)
