package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/pkg/actor"
)

const (
	ResourceBooking = "booking"
	ResourcePayment = "payment"
)

// Recorder пишет записи аудита после фиксации изменений.
// Ошибка записи логируется и не влияет на результат операции.
type Recorder struct {
	repo   Repository
	logger Logger
}

func NewRecorder(repo Repository, logger Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record добавляет запись, инициатор берется из контекста запроса
func (r *Recorder) Record(ctx context.Context, action domain.AuditAction, resourceType string, resourceID uuid.UUID, data map[string]interface{}) {
	a := actor.FromContext(ctx)

	entry := &domain.AuditEntry{
		UserID:       a.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IP:           a.IP,
		UserAgent:    a.UserAgent,
		Data:         data,
	}

	if err := r.repo.Append(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Error("Audit: failed to record %s on %s id=%s: %v", action, resourceType, resourceID, err)
	}
}
