package pricing

import "errors"

var (
	// ErrServiceNotFound услуга отсутствует или неактивна
	ErrServiceNotFound = errors.New("pricing: service not found or inactive")

	// ErrInvalidInput некорректные параметры расчета
	ErrInvalidInput = errors.New("pricing: invalid input")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("pricing: internal error")
)
