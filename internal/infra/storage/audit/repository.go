package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventBookingService/pkg/psqlbuilder"
)

// Repository журнал аудита (только добавление)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал
func (r *Repository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var data interface{}
	if len(entry.Data) > 0 {
		raw, err := json.Marshal(entry.Data)
		if err != nil {
			return fmt.Errorf("%w: Append - %v", ErrEncodeData, err)
		}
		data = string(raw)
	}

	query, args, err := psqlbuilder.Insert("audit_logs").
		Columns("user_id", "action", "resource_type", "resource_id", "ip", "user_agent", "data").
		Values(entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, entry.IP, entry.UserAgent, data).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time

	return nil
}
