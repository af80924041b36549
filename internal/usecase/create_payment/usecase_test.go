package create_payment

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-EventBookingService/pkg/ptr"
)

type fixture struct {
	store    *usecasetest.Store
	notifier *usecasetest.Notifier
	audit    *usecasetest.Audit
	metrics  *usecasetest.Metrics
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		store:    usecasetest.NewStore(),
		notifier: &usecasetest.Notifier{},
		audit:    &usecasetest.Audit{},
		metrics:  &usecasetest.Metrics{},
	}
	f.uc = NewUseCase(f.store.Bookings(), f.store.Payments(), f.store, f.notifier, f.audit, f.metrics, "", &usecasetest.Logger{})
	return f
}

func (f *fixture) booking(owner *uuid.UUID, status domain.PaymentStatus) uuid.UUID {
	return f.store.PutBooking(domain.Booking{
		UserID:          owner,
		CustomerName:    "Abebe Kebede",
		CustomerEmail:   "abebe@example.com",
		EventType:       domain.EventBirthday,
		GuestCount:      20,
		PriceCalculated: 10000,
		Status:          domain.StatusPending,
		PaymentStatus:   status,
	})
}

type fixedTxID string

func (g fixedTxID) Generate() (string, error) { return string(g), nil }

func TestExecute_CreatesPendingPayment(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	bookingID := f.booking(&owner, domain.PaymentUnpaid)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:   bookingID,
		UserID:      &owner,
		Method:      domain.MethodTelebirr,
		PhoneNumber: ptr.Ptr("0911234567"),
	})
	require.NoError(t, err)

	p := resp.Payment
	assert.Equal(t, domain.PaymentStatePending, p.Status)
	assert.Equal(t, int64(10000), p.Amount)
	assert.Equal(t, domain.DefaultCurrency, p.Currency)
	assert.Equal(t, &owner, p.UserID)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{16}$`), p.TransactionID)

	assert.Equal(t, domain.PaymentProcessing, f.store.Booking(bookingID).PaymentStatus)
	assert.Equal(t, "Telebirr Payment Instructions", resp.Instructions.Title)
	assert.Contains(t, resp.Instructions.Steps, "Enter phone number: 0911234567")

	assert.Equal(t, 1, f.metrics.Created["telebirr"])
	assert.Equal(t, []domain.AuditAction{domain.AuditCreatePayment}, f.audit.Actions())
	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, domain.NotificationPaymentCreated, f.notifier.Sent[0].Kind)
	assert.True(t, f.notifier.Sent[0].Admins)
}

func TestExecute_SecondCallConflicts(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	bookingID := f.booking(&owner, domain.PaymentUnpaid)
	req := &Request{BookingID: bookingID, UserID: &owner, Method: domain.MethodCBE}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPaymentConflict)
	assert.Len(t, f.store.PaymentsOf(bookingID), 1)
}

func TestExecute_ConcurrentCallsCreateOnePayment(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	bookingID := f.booking(&owner, domain.PaymentUnpaid)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{BookingID: bookingID, UserID: &owner, Method: domain.MethodCBE})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, ErrPaymentConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, conflicts)
	assert.Len(t, f.store.PaymentsOf(bookingID), 1)
}

func TestExecute_Preconditions(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name   string
		owner  *uuid.UUID
		status domain.PaymentStatus
		req    func(bookingID uuid.UUID) *Request
		want   error
	}{
		{
			name: "unknown booking", owner: &owner, status: domain.PaymentUnpaid,
			req:  func(uuid.UUID) *Request { return &Request{BookingID: uuid.New(), UserID: &owner, Method: domain.MethodCBE} },
			want: ErrBookingNotFound,
		},
		{
			name: "not the owner", owner: &owner, status: domain.PaymentUnpaid,
			req:  func(id uuid.UUID) *Request { return &Request{BookingID: id, UserID: &stranger, Method: domain.MethodCBE} },
			want: ErrAccessDenied,
		},
		{
			name: "guest booking needs admin", owner: nil, status: domain.PaymentUnpaid,
			req:  func(id uuid.UUID) *Request { return &Request{BookingID: id, UserID: &owner, Method: domain.MethodCBE} },
			want: ErrAccessDenied,
		},
		{
			name: "already paid", owner: &owner, status: domain.PaymentPaid,
			req:  func(id uuid.UUID) *Request { return &Request{BookingID: id, UserID: &owner, Method: domain.MethodCBE} },
			want: ErrPaymentConflict,
		},
		{
			name: "failed payment is final", owner: &owner, status: domain.PaymentFailed,
			req:  func(id uuid.UUID) *Request { return &Request{BookingID: id, UserID: &owner, Method: domain.MethodCBE} },
			want: ErrPaymentConflict,
		},
		{
			name: "unknown method", owner: &owner, status: domain.PaymentUnpaid,
			req:  func(id uuid.UUID) *Request { return &Request{BookingID: id, UserID: &owner, Method: "cash"} },
			want: ErrInvalidInput,
		},
		{
			name: "short phone", owner: &owner, status: domain.PaymentUnpaid,
			req: func(id uuid.UUID) *Request {
				return &Request{BookingID: id, UserID: &owner, Method: domain.MethodCBE, PhoneNumber: ptr.Ptr("123")}
			},
			want: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			bookingID := f.booking(tt.owner, tt.status)

			_, err := f.uc.Execute(context.Background(), tt.req(bookingID))
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.store.PaymentsOf(bookingID))
			assert.Equal(t, tt.status, f.store.Booking(bookingID).PaymentStatus)
			assert.Empty(t, f.notifier.Sent)
		})
	}
}

func TestExecute_AdminPaysGuestBooking(t *testing.T) {
	f := newFixture()
	bookingID := f.booking(nil, domain.PaymentUnpaid)
	f.uc.WithTransactionIDGenerator(fixedTxID("ABCDEF0123456789"))

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: bookingID, IsAdmin: true, Method: domain.MethodCommercial})
	require.NoError(t, err)

	assert.Equal(t, "ABCDEF0123456789", resp.Payment.TransactionID)
	assert.Nil(t, resp.Payment.UserID)
	assert.Equal(t, "Commercial Bank Payment Instructions", resp.Instructions.Title)
}

func TestExecute_BookingUpdateFailureRollsBack(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	bookingID := f.booking(&owner, domain.PaymentUnpaid)
	f.store.FailOn = "booking.UpdatePaymentState"
	f.store.FailErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: bookingID, UserID: &owner, Method: domain.MethodCBE})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.store.PaymentsOf(bookingID))
	assert.Equal(t, domain.PaymentUnpaid, f.store.Booking(bookingID).PaymentStatus)
	assert.Empty(t, f.notifier.Sent)
}

func TestRandomTransactionID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := RandomTransactionID{}.Generate()
		require.NoError(t, err)
		require.Len(t, id, 2*domain.TransactionIDLength)
		require.False(t, seen[id])
		seen[id] = true
	}
}
