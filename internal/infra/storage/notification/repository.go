package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventBookingService/pkg/psqlbuilder"
)

var notificationColumns = []string{
	"id",
	"user_id",
	"audience",
	"kind",
	"message",
	"data",
	"is_read",
	"created_at",
}

// Repository репозиторий входящих уведомлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет уведомление
func (r *Repository) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	data, err := encodeData(notification.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - %v", ErrEncodeData, err)
	}

	query, args, err := psqlbuilder.Insert("notifications").
		Columns("user_id", "audience", "kind", "message", "data").
		Values(notification.UserID, notification.Audience, notification.Kind, notification.Message, data).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&notification.ID,
		&notification.IsRead,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	notification.CreatedAt = createdAt.Time

	return notification, nil
}

// List возвращает страницу уведомлений получателя и их общее количество
func (r *Repository) List(ctx context.Context, filter domain.NotificationsFilter) ([]*domain.Notification, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{recipient(filter.UserID, filter.IncludeAdmins)}
	if filter.UnreadOnly {
		where = append(where, squirrel.Eq{"is_read": false})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("notifications").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count notifications: %w", ErrExecQuery, err)
	}

	page := filter.Page.Normalize()
	query, args, err := psqlbuilder.Select(notificationColumns...).
		From("notifications").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(psqlbuilder.Offset(page.Page, page.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return notifications, total, nil
}

// CountUnread количество непрочитанных уведомлений получателя
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID, includeAdmins bool) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("notifications").
		Where(recipient(userID, includeAdmins)).
		Where(squirrel.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUnread - execute query: %w", ErrExecQuery, err)
	}

	return count, nil
}

// MarkRead отмечает уведомление прочитанным
func (r *Repository) MarkRead(ctx context.Context, id, userID uuid.UUID, includeAdmins bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id}).
		Where(recipient(userID, includeAdmins)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkRead", query, args)
}

// MarkAllRead отмечает прочитанными все уведомления получателя, возвращает количество измененных
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID, includeAdmins bool) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notifications").
		Set("is_read", true).
		Where(recipient(userID, includeAdmins)).
		Where(squirrel.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// Delete удаляет уведомление получателя
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID, includeAdmins bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("notifications").
		Where(squirrel.Eq{"id": id}).
		Where(recipient(userID, includeAdmins)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// recipient личные уведомления пользователя, а для администраторов еще и общие audience=admins
func recipient(userID uuid.UUID, includeAdmins bool) squirrel.Sqlizer {
	if !includeAdmins {
		return squirrel.Eq{"user_id": userID}
	}
	return squirrel.Or{
		squirrel.Eq{"user_id": userID},
		squirrel.Eq{"audience": domain.AudienceAdmins},
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var (
		notification domain.Notification
		userID       uuid.NullUUID
		data         sql.NullString
		createdAt    sql.NullTime
	)

	err := row.Scan(
		&notification.ID,
		&userID,
		&notification.Audience,
		&notification.Kind,
		&notification.Message,
		&data,
		&notification.IsRead,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		notification.UserID = &userID.UUID
	}
	if data.Valid && data.String != "" {
		if err := json.Unmarshal([]byte(data.String), &notification.Data); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	notification.CreatedAt = createdAt.Time

	return &notification, nil
}

func encodeData(data map[string]interface{}) (interface{}, error) {
	if len(data) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
