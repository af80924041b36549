package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventBookingService/pkg/psqlbuilder"
)

const (
	uniqueViolationCode = "23505"
	activePaymentIndex  = "uq_payments_active_booking"
)

var paymentColumns = []string{
	"id",
	"booking_id",
	"user_id",
	"amount",
	"currency",
	"payment_method",
	"phone_number",
	"transaction_id",
	"status",
	"qr_code_url",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платеж.
// Второй активный платеж по тому же бронированию отклоняется индексом и возвращает ErrActivePaymentExists.
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"booking_id",
			"user_id",
			"amount",
			"currency",
			"payment_method",
			"phone_number",
			"transaction_id",
			"status",
		).
		Values(
			payment.BookingID,
			payment.UserID,
			payment.Amount,
			payment.Currency,
			payment.Method,
			payment.PhoneNumber,
			payment.TransactionID,
			payment.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&createdAt,
		&updatedAt,
	)
	if isActivePaymentViolation(err) {
		return nil, ErrActivePaymentExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return payment, nil
}

// GetByID получает платеж по ID (FOR UPDATE внутри транзакции)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByTransactionID получает платеж по ссылке транзакции
func (r *Repository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return r.getOne(ctx, "GetByTransactionID", squirrel.Eq{"transaction_id": transactionID})
}

// GetCompletedByBookingID получает завершенный платеж бронирования
func (r *Repository) GetCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	return r.getOne(ctx, "GetCompletedByBookingID", squirrel.Eq{
		"booking_id": bookingID,
		"status":     domain.PaymentStateCompleted,
	})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(where).
		OrderBy("created_at DESC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	payment, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan payment: %w", ErrScanRow, op, err)
	}

	return payment, nil
}

// List возвращает страницу платежей и общее количество под фильтром
func (r *Repository) List(ctx context.Context, filter domain.PaymentsFilter) ([]*domain.Payment, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if filter.UserID != nil {
		where = append(where, squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}
	if filter.Method != nil {
		where = append(where, squirrel.Eq{"payment_method": *filter.Method})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("payments").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count payments: %w", ErrExecQuery, err)
	}

	page := filter.Page.Normalize()
	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(psqlbuilder.Offset(page.Page, page.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	payments, err := r.query(ctx, executor, "List", query, args)
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// ListStalePending возвращает платежи в статусе pending, созданные раньше olderThan (самые старые первыми).
// При after != nil выборка продолжается после позиции курсора
func (r *Repository) ListStalePending(ctx context.Context, olderThan time.Time, after *domain.StaleCursor, limit int) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"status": domain.PaymentStatePending}).
		Where(squirrel.Lt{"created_at": olderThan})

	if after != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("(created_at, id) > (?, ?)", after.CreatedAt, after.ID))
	}

	query, args, err := selectBuilder.
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListStalePending", query, args)
}

// Settle переводит платеж из settlement.From в settlement.To.
// Если статус в БД отличается от From, возвращается ErrStatusMismatch.
func (r *Repository) Settle(ctx context.Context, id uuid.UUID, settlement domain.PaymentSettlement) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("payments").
		Set("status", settlement.To).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": settlement.From})

	if settlement.QRCodeURL != nil {
		updateBuilder = updateBuilder.Set("qr_code_url", *settlement.QRCodeURL)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Settle - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Settle - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Settle - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusMismatch
	}

	return nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Payment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return payments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		payment              domain.Payment
		userID               uuid.NullUUID
		phoneNumber          sql.NullString
		qrCodeURL            sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&userID,
		&payment.Amount,
		&payment.Currency,
		&payment.Method,
		&phoneNumber,
		&payment.TransactionID,
		&payment.Status,
		&qrCodeURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		payment.UserID = &userID.UUID
	}
	if phoneNumber.Valid {
		payment.PhoneNumber = &phoneNumber.String
	}
	if qrCodeURL.Valid {
		payment.QRCodeURL = &qrCodeURL.String
	}
	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return &payment, nil
}

// isActivePaymentViolation распознает нарушение уникального индекса для обоих драйверов
func isActivePaymentViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode && pqErr.Constraint == activePaymentIndex
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == activePaymentIndex
	}

	return false
}
