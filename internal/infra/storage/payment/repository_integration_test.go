//go:build integration

package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventBookingService/pkg/ptr"
	"github.com/m04kA/SMC-EventBookingService/pkg/types"
)

func seedBooking(t *testing.T, db *dbmetrics.DB) *domain.Booking {
	t.Helper()

	b, err := bookingRepo.NewRepository(db).Create(context.Background(), &domain.Booking{
		CustomerName:    "Guest",
		CustomerEmail:   "guest@example.com",
		CustomerPhone:   "0911223344",
		EventType:       domain.EventBirthday,
		EventDate:       time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC),
		EventTime:       types.TimeString("12:00"),
		GuestCount:      40,
		PriceCalculated: 10000,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentUnpaid,
	})
	require.NoError(t, err)
	return b
}

func newPayment(bookingID uuid.UUID, txID string) *domain.Payment {
	return &domain.Payment{
		BookingID:     bookingID,
		Amount:        10000,
		Currency:      domain.DefaultCurrency,
		Method:        domain.MethodTelebirr,
		PhoneNumber:   ptr.Ptr("0911223344"),
		TransactionID: txID,
		Status:        domain.PaymentStatePending,
	}
}

func TestRepository_CreateRejectsSecondActivePayment(t *testing.T) {
	db := storagetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	b := seedBooking(t, db)

	first, err := repo.Create(ctx, newPayment(b.ID, "AAAAAAAAAAAAAAA1"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newPayment(b.ID, "AAAAAAAAAAAAAAA2"))
	assert.ErrorIs(t, err, ErrActivePaymentExists)

	// после неуспешной попытки разрешается новый платеж
	require.NoError(t, repo.Settle(ctx, first.ID, domain.PaymentSettlement{
		From: domain.PaymentStatePending,
		To:   domain.PaymentStateFailed,
	}))
	_, err = repo.Create(ctx, newPayment(b.ID, "AAAAAAAAAAAAAAA3"))
	assert.NoError(t, err)
}

func TestRepository_SettleIsConditional(t *testing.T) {
	db := storagetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	b := seedBooking(t, db)

	created, err := repo.Create(ctx, newPayment(b.ID, "BBBBBBBBBBBBBBB1"))
	require.NoError(t, err)

	settlement := domain.PaymentSettlement{
		From:      domain.PaymentStatePending,
		To:        domain.PaymentStateCompleted,
		QRCodeURL: ptr.Ptr("/uploads/qrcodes/payment.png"),
	}
	require.NoError(t, repo.Settle(ctx, created.ID, settlement))
	assert.ErrorIs(t, repo.Settle(ctx, created.ID, settlement), ErrStatusMismatch)

	got, err := repo.GetByTransactionID(ctx, "BBBBBBBBBBBBBBB1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCompleted, got.Status)
	assert.Equal(t, "/uploads/qrcodes/payment.png", *got.QRCodeURL)

	completed, err := repo.GetCompletedByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, completed.ID)

	_, err = repo.GetByTransactionID(ctx, "UNKNOWN")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestRepository_ListStalePending(t *testing.T) {
	db := storagetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	b := seedBooking(t, db)

	_, err := repo.Create(ctx, newPayment(b.ID, "CCCCCCCCCCCCCCC1"))
	require.NoError(t, err)

	stale, err := repo.ListStalePending(ctx, time.Now().Add(time.Hour), nil, 10)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	stale, err = repo.ListStalePending(ctx, time.Now().Add(-time.Hour), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, stale)

	// Постраничный обход по курсору
	second, err := repo.Create(ctx, newPayment(seedBooking(t, db).ID, "CCCCCCCCCCCCCCC2"))
	require.NoError(t, err)

	page, err := repo.ListStalePending(ctx, time.Now().Add(time.Hour), nil, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "CCCCCCCCCCCCCCC1", page[0].TransactionID)

	after := &domain.StaleCursor{CreatedAt: page[0].CreatedAt, ID: page[0].ID}
	page, err = repo.ListStalePending(ctx, time.Now().Add(time.Hour), after, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)

	after = &domain.StaleCursor{CreatedAt: page[0].CreatedAt, ID: page[0].ID}
	page, err = repo.ListStalePending(ctx, time.Now().Add(time.Hour), after, 1)
	require.NoError(t, err)
	assert.Empty(t, page)
}
