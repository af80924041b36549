package audit

import (
	"context"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Repository журнал аудита
type Repository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}
