package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventBookingService/pkg/psqlbuilder"
)

// likeEscaper экранирует метасимволы LIKE; в Postgres escape по умолчанию обратный слэш
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike превращает пользовательский ввод в литерал для ILIKE
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var bookingColumns = []string{
	"id",
	"user_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service_id",
	"service_snapshot",
	"event_type",
	"event_date",
	"event_time",
	"guest_count",
	"message",
	"price_calculated",
	"status",
	"payment_status",
	"qr_code_url",
	"transaction_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	snapshot, err := encodeSnapshot(booking.ServiceSnapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - %v", ErrEncodeSnapshot, err)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"service_id",
			"service_snapshot",
			"event_type",
			"event_date",
			"event_time",
			"guest_count",
			"message",
			"price_calculated",
			"status",
			"payment_status",
		).
		Values(
			booking.UserID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.ServiceID,
			snapshot,
			booking.EventType,
			booking.EventDate.Format(domain.DateFormat),
			booking.EventTime,
			booking.GuestCount,
			booking.Message,
			booking.PriceCalculated,
			booking.Status,
			booking.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до ее завершения.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List возвращает страницу бронирований и общее количество под фильтром.
// Сортировка: сначала новые.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if filter.UserID != nil {
		where = append(where, squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}
	if filter.PaymentStatus != nil {
		where = append(where, squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"customer_name": pattern},
			squirrel.ILike{"customer_email": pattern},
			squirrel.ILike{"customer_phone": pattern},
		})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count bookings: %w", ErrExecQuery, err)
	}

	page := filter.Page.Normalize()
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
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

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// UpdatePaymentState переводит статус оплаты из transition.From в transition.To.
// Если текущий статус в БД отличается от From, ничего не меняется и возвращается ErrPaymentStateMismatch.
func (r *Repository) UpdatePaymentState(ctx context.Context, id uuid.UUID, transition domain.PaymentTransition) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("payment_status", transition.To).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": transition.From})

	if transition.Status != nil {
		updateBuilder = updateBuilder.Set("status", *transition.Status)
	}
	if transition.QRCodeURL != nil {
		updateBuilder = updateBuilder.Set("qr_code_url", *transition.QRCodeURL)
	}
	if transition.TransactionID != nil {
		updateBuilder = updateBuilder.Set("transaction_id", *transition.TransactionID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentState - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentState - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPaymentStateMismatch
	}

	return nil
}

// UpdateStatus обновляет жизненный статус бронирования (статус оплаты не меняется)
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		userID, serviceID    uuid.NullUUID
		snapshot             sql.NullString
		message              sql.NullString
		qrCodeURL            sql.NullString
		transactionID        sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&userID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&serviceID,
		&snapshot,
		&booking.EventType,
		&booking.EventDate,
		&booking.EventTime,
		&booking.GuestCount,
		&message,
		&booking.PriceCalculated,
		&booking.Status,
		&booking.PaymentStatus,
		&qrCodeURL,
		&transactionID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		booking.UserID = &userID.UUID
	}
	if serviceID.Valid {
		booking.ServiceID = &serviceID.UUID
	}
	if snapshot.Valid && snapshot.String != "" {
		var s domain.ServiceSnapshot
		if err := json.Unmarshal([]byte(snapshot.String), &s); err != nil {
			return nil, fmt.Errorf("decode service snapshot: %w", err)
		}
		booking.ServiceSnapshot = &s
	}
	if message.Valid {
		booking.Message = &message.String
	}
	if qrCodeURL.Valid {
		booking.QRCodeURL = &qrCodeURL.String
	}
	if transactionID.Valid {
		booking.TransactionID = &transactionID.String
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// encodeSnapshot JSONB передается строкой: lib/pq кодирует []byte как bytea
func encodeSnapshot(snapshot *domain.ServiceSnapshot) (interface{}, error) {
	if snapshot == nil {
		return nil, nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
