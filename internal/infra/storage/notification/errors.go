package notification

import "errors"

var (
	// ErrNotificationNotFound возвращается, когда уведомление не найдено или недоступно получателю
	ErrNotificationNotFound = errors.New("notification.repository: notification not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("notification.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("notification.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("notification.repository: failed to scan row")

	// ErrEncodeData возвращается, когда данные уведомления не сериализуются в JSON
	ErrEncodeData = errors.New("notification.repository: failed to encode data")
)
