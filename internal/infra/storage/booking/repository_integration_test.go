//go:build integration

package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-EventBookingService/pkg/ptr"
	"github.com/m04kA/SMC-EventBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-EventBookingService/pkg/types"
)

func newBooking(userID *uuid.UUID, name string) *domain.Booking {
	return &domain.Booking{
		UserID:          userID,
		CustomerName:    name,
		CustomerEmail:   "guest@example.com",
		CustomerPhone:   "0911223344",
		EventType:       domain.EventWedding,
		EventDate:       time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		EventTime:       types.TimeString("18:30"),
		GuestCount:      150,
		PriceCalculated: 60000,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentUnpaid,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := storagetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	serviceID := uuid.MustParse(storagetest.SeedService(t, db, "Grand Hall", "venue", 25000))
	userID := uuid.New()

	b := newBooking(&userID, "Abebe Kebede")
	b.ServiceID = &serviceID
	b.ServiceSnapshot = &domain.ServiceSnapshot{ID: serviceID, Name: "Grand Hall", Category: "venue", Price: 25000}
	b.Message = ptr.Ptr("window seats please")

	created, err := repo.Create(ctx, b)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Abebe Kebede", got.CustomerName)
	assert.Equal(t, types.TimeString("18:30"), got.EventTime)
	assert.Equal(t, "2030-06-01", got.EventDate.Format(domain.DateFormat))
	require.NotNil(t, got.ServiceSnapshot)
	assert.Equal(t, "Grand Hall", got.ServiceSnapshot.Name)
	assert.Equal(t, "window seats please", *got.Message)
	assert.True(t, got.IsOwnedBy(userID))

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_UpdatePaymentState(t *testing.T) {
	db := storagetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newBooking(nil, "Guest"))
	require.NoError(t, err)

	err = repo.UpdatePaymentState(ctx, created.ID, domain.PaymentTransition{
		From:          domain.PaymentUnpaid,
		To:            domain.PaymentProcessing,
		TransactionID: ptr.Ptr("A1B2C3D4E5F60708"),
	})
	require.NoError(t, err)

	// повторный переход из unpaid уже невозможен
	err = repo.UpdatePaymentState(ctx, created.ID, domain.PaymentTransition{
		From: domain.PaymentUnpaid,
		To:   domain.PaymentProcessing,
	})
	assert.ErrorIs(t, err, ErrPaymentStateMismatch)

	confirmed := domain.StatusConfirmed
	err = repo.UpdatePaymentState(ctx, created.ID, domain.PaymentTransition{
		From:      domain.PaymentProcessing,
		To:        domain.PaymentPaid,
		Status:    &confirmed,
		QRCodeURL: ptr.Ptr("/uploads/qrcodes/payment_1.png"),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, "A1B2C3D4E5F60708", *got.TransactionID)
	assert.Equal(t, "/uploads/qrcodes/payment_1.png", *got.QRCodeURL)
}

func TestRepository_GetByIDLocksInsideTransaction(t *testing.T) {
	db := storagetest.NewDB(t)
	repo := NewRepository(db)
	tm := txmanager.NewTransactionManager(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newBooking(nil, "Guest"))
	require.NoError(t, err)

	err = tm.Do(ctx, func(txCtx context.Context) error {
		b, err := repo.GetByID(txCtx, created.ID)
		if err != nil {
			return err
		}
		return repo.UpdateStatus(txCtx, b.ID, domain.StatusCancelled)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, domain.PaymentUnpaid, got.PaymentStatus)
}

func TestRepository_List(t *testing.T) {
	db := storagetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for _, name := range []string{"Almaz Tesfaye", "Bekele Girma", "Chaltu Abdi"} {
		_, err := repo.Create(ctx, newBooking(&userID, name))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newBooking(nil, "Dawit Guest"))
	require.NoError(t, err)

	items, total, err := repo.List(ctx, domain.BookingsFilter{UserID: &userID, Page: domain.Page{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, domain.BookingsFilter{Search: "BEKELE"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Bekele Girma", items[0].CustomerName)

	// метасимволы LIKE ищутся как обычные символы
	for _, search := range []string{"%", "_", `\`} {
		_, total, err = repo.List(ctx, domain.BookingsFilter{Search: search})
		require.NoError(t, err)
		assert.Zero(t, total, search)
	}

	unpaid := domain.PaymentUnpaid
	_, total, err = repo.List(ctx, domain.BookingsFilter{PaymentStatus: &unpaid})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}
