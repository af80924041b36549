package process_payment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/infra/mailer"
	"github.com/m04kA/SMC-EventBookingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-EventBookingService/pkg/ptr"
)

type qrStub struct {
	mu       sync.Mutex
	payloads []string
	files    []string
	removed  []string
	err      error
}

func (q *qrStub) Generate(_ context.Context, payload, fileName string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.payloads = append(q.payloads, payload)
	q.files = append(q.files, fileName)
	return "/uploads/qrcodes/" + fileName, nil
}

func (q *qrStub) Remove(_ context.Context, url string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removed = append(q.removed, url)
	return nil
}

type fixture struct {
	store    *usecasetest.Store
	qr       *qrStub
	notifier *usecasetest.Notifier
	audit    *usecasetest.Audit
	metrics  *usecasetest.Metrics
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	renderer, err := mailer.NewRenderer()
	require.NoError(t, err)

	f := &fixture{
		store:    usecasetest.NewStore(),
		qr:       &qrStub{},
		notifier: &usecasetest.Notifier{},
		audit:    &usecasetest.Audit{},
		metrics:  &usecasetest.Metrics{},
	}
	f.uc = NewUseCase(f.store.Bookings(), f.store.Payments(), f.store, f.qr, f.notifier, renderer, f.audit, f.metrics, &usecasetest.Logger{}).
		WithTimeProvider(usecasetest.Clock{T: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)})
	return f
}

// seed создает бронирование в processing и платеж в pending
func (f *fixture) seed(owner *uuid.UUID) (bookingID, paymentID uuid.UUID) {
	bookingID = f.store.PutBooking(domain.Booking{
		UserID:          owner,
		CustomerName:    "Abebe Kebede",
		CustomerEmail:   "abebe@example.com",
		EventType:       domain.EventWedding,
		GuestCount:      150,
		PriceCalculated: 60000,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentProcessing,
	})
	paymentID = f.store.PutPayment(domain.Payment{
		BookingID:     bookingID,
		UserID:        owner,
		Amount:        60000,
		Currency:      domain.DefaultCurrency,
		Method:        domain.MethodTelebirr,
		PhoneNumber:   ptr.Ptr("0911234567"),
		TransactionID: "A1B2C3D4E5F60718",
		Status:        domain.PaymentStatePending,
	})
	return bookingID, paymentID
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	bookingID, paymentID := f.seed(&owner)

	resp, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: true, Trigger: TriggerAdmin})
	require.NoError(t, err)

	payment := f.store.Payment(paymentID)
	booking := f.store.Booking(bookingID)

	assert.Equal(t, domain.PaymentStateCompleted, payment.Status)
	assert.Equal(t, domain.PaymentPaid, booking.PaymentStatus)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)

	wantURL := "/uploads/qrcodes/payment_" + paymentID.String() + ".png"
	require.NotNil(t, payment.QRCodeURL)
	require.NotNil(t, booking.QRCodeURL)
	assert.Equal(t, wantURL, *payment.QRCodeURL)
	assert.Equal(t, wantURL, *booking.QRCodeURL)
	assert.Equal(t, "A1B2C3D4E5F60718", ptr.Deref(booking.TransactionID, ""))
	assert.Equal(t, domain.PaymentPaid, resp.Booking.PaymentStatus)

	require.Len(t, f.qr.payloads, 1)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(f.qr.payloads[0]), &payload))
	assert.Equal(t, float64(60000), payload["amount"])
	assert.Equal(t, "telebirr", payload["paymentMethod"])
	assert.Equal(t, "0911234567", payload["phoneNumber"])
	assert.Equal(t, "A1B2C3D4E5F60718", payload["transactionId"])
	assert.Equal(t, "2026-03-10", payload["date"])

	assert.Equal(t, []string{"payment_completed", "email"}, f.notifier.Kinds())
	assert.Equal(t, mailer.SubjectPaymentReceipt, f.notifier.Sent[1].Subject)
	assert.Equal(t, 1, f.metrics.Processed[OutcomeCompleted])

	require.Len(t, f.audit.Records, 1)
	assert.Equal(t, domain.AuditProcessPayment, f.audit.Records[0].Action)
	assert.Equal(t, "admin", f.audit.Records[0].Data["trigger"])
}

func TestExecute_Failure(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	bookingID, paymentID := f.seed(&owner)

	_, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: false, Trigger: TriggerWebhook})
	require.NoError(t, err)

	payment := f.store.Payment(paymentID)
	booking := f.store.Booking(bookingID)

	assert.Equal(t, domain.PaymentStateFailed, payment.Status)
	assert.Equal(t, domain.PaymentFailed, booking.PaymentStatus)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Nil(t, booking.QRCodeURL)
	assert.Nil(t, booking.TransactionID)
	assert.Empty(t, f.qr.files)

	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, domain.NotificationPaymentFailed, f.notifier.Sent[0].Kind)
	assert.Equal(t, "Payment failed. Please try again.", f.notifier.Sent[0].Message)
	assert.Equal(t, 1, f.metrics.Processed[OutcomeFailed])
}

func TestExecute_SecondCallConflictsAndKeepsState(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	bookingID, paymentID := f.seed(&owner)

	_, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: true, Trigger: TriggerAdmin})
	require.NoError(t, err)
	after := f.store.Booking(bookingID)

	_, err = f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: false, Trigger: TriggerAdmin})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	assert.Equal(t, domain.PaymentStateCompleted, f.store.Payment(paymentID).Status)
	assert.Equal(t, after.PaymentStatus, f.store.Booking(bookingID).PaymentStatus)
	assert.Equal(t, after.Status, f.store.Booking(bookingID).Status)
	assert.Equal(t, 1, f.metrics.Processed[OutcomeCompleted])
	assert.Zero(t, f.metrics.Processed[OutcomeFailed])
}

func TestExecute_ConcurrentCallsCompleteOnce(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	_, paymentID := f.seed(&owner)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []error
	)
	for _, success := range []bool{true, false, true, false} {
		wg.Add(1)
		go func(success bool) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: success, Trigger: TriggerWebhook})
			mu.Lock()
			results = append(results, err)
			mu.Unlock()
		}(success)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyProcessed):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 3, conflicts)
	assert.Len(t, f.audit.Records, 1)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{PaymentID: uuid.New(), Success: true, Trigger: TriggerAdmin})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestExecute_QRFailureStillCompletes(t *testing.T) {
	f := newFixture(t)
	f.qr.err = errors.New("disk full")
	owner := uuid.New()
	bookingID, paymentID := f.seed(&owner)

	_, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: true, Trigger: TriggerAdmin})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStateCompleted, f.store.Payment(paymentID).Status)
	assert.Equal(t, domain.PaymentPaid, f.store.Booking(bookingID).PaymentStatus)
	assert.Nil(t, f.store.Booking(bookingID).QRCodeURL)
}

func TestExecute_BookingUpdateFailureRollsBackPayment(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn = "booking.UpdatePaymentState"
	f.store.FailErr = errors.New("connection reset")
	owner := uuid.New()
	bookingID, paymentID := f.seed(&owner)

	_, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: true, Trigger: TriggerAdmin})
	assert.ErrorIs(t, err, ErrInternal)

	assert.Equal(t, domain.PaymentStatePending, f.store.Payment(paymentID).Status)
	assert.Equal(t, domain.PaymentProcessing, f.store.Booking(bookingID).PaymentStatus)
	assert.Empty(t, f.notifier.Sent)
	assert.Empty(t, f.audit.Records)

	// сгенерированный в откатившейся транзакции QR-код удален
	require.Len(t, f.qr.files, 1)
	assert.Equal(t, []string{"/uploads/qrcodes/payment_" + paymentID.String() + ".png"}, f.qr.removed)
	assert.Nil(t, f.store.Booking(bookingID).QRCodeURL)
}

func TestExecute_CommittedQRIsKept(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	_, paymentID := f.seed(&owner)

	_, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: true, Trigger: TriggerAdmin})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: true, Trigger: TriggerAdmin})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	assert.Empty(t, f.qr.removed)
}

func TestExecute_GuestBookingGetsOnlyReceipt(t *testing.T) {
	f := newFixture(t)
	_, paymentID := f.seed(nil)

	_, err := f.uc.Execute(context.Background(), &Request{PaymentID: paymentID, Success: true, Trigger: TriggerAdmin})
	require.NoError(t, err)

	assert.Equal(t, []string{"email"}, f.notifier.Kinds())
	assert.Equal(t, "abebe@example.com", f.notifier.Sent[0].To)
}
