package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrPaymentNotCompleted возвращается, когда у бронирования нет завершенного платежа
	ErrPaymentNotCompleted = errors.New("booking not found or payment not completed")

	// ErrQRNotAvailable возвращается, когда QR-код не был сформирован
	ErrQRNotAvailable = errors.New("QR code not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
