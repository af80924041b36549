package notifier

import "errors"

var (
	// ErrInvalidIntent намерение без обязательных полей
	ErrInvalidIntent = errors.New("notifier: invalid intent")

	// ErrUnknownIntent неизвестный тип намерения
	ErrUnknownIntent = errors.New("notifier: unknown intent kind")

	// ErrPublish ошибка публикации в брокер
	ErrPublish = errors.New("notifier: failed to publish intent")
)
