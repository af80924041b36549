package update_booking_status

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/internal/usecase/usecasetest"
)

type fixture struct {
	store    *usecasetest.Store
	notifier *usecasetest.Notifier
	audit    *usecasetest.Audit
	log      *usecasetest.Logger
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		store:    usecasetest.NewStore(),
		notifier: &usecasetest.Notifier{},
		audit:    &usecasetest.Audit{},
		log:      &usecasetest.Logger{},
	}
	f.uc = NewUseCase(f.store.Bookings(), f.store, f.notifier, f.audit, f.log)
	return f
}

func TestExecute_OverwritesStatusOnly(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	id := f.store.PutBooking(domain.Booking{UserID: &owner, Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPaid})

	booking, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: domain.StatusCancelled})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, booking.Status)
	assert.Equal(t, domain.StatusCancelled, f.store.Booking(id).Status)
	assert.Equal(t, domain.PaymentPaid, f.store.Booking(id).PaymentStatus)

	require.Len(t, f.audit.Records, 1)
	assert.Equal(t, domain.StatusConfirmed, f.audit.Records[0].Data["oldStatus"])
	assert.Equal(t, domain.StatusCancelled, f.audit.Records[0].Data["newStatus"])

	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, domain.NotificationBookingCancelled, f.notifier.Sent[0].Kind)
	assert.Equal(t, "Your booking has been cancelled", f.notifier.Sent[0].Message)
	assert.Equal(t, &owner, f.notifier.Sent[0].UserID)
}

func TestExecute_ConfirmWithoutPaymentWarns(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	id := f.store.PutBooking(domain.Booking{UserID: &owner, Status: domain.StatusPending, PaymentStatus: domain.PaymentUnpaid})

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: domain.StatusConfirmed})
	require.NoError(t, err)

	var warned bool
	for _, line := range f.log.Lines {
		if strings.HasPrefix(line, "[WARN]") && strings.Contains(line, "paymentStatus=unpaid") {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.Equal(t, domain.NotificationBookingConfirmed, f.notifier.Sent[0].Kind)
}

func TestExecute_NoNotificationForOtherStatuses(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	id := f.store.PutBooking(domain.Booking{UserID: &owner, Status: domain.StatusConfirmed})

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: domain.StatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.Sent)
}

func TestExecute_GuestBookingIsNotNotified(t *testing.T) {
	f := newFixture()
	id := f.store.PutBooking(domain.Booking{Status: domain.StatusPending})

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: domain.StatusCancelled})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.Sent)
	assert.Len(t, f.audit.Records, 1)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: uuid.New(), Status: "no_show"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.uc.Execute(context.Background(), &Request{BookingID: uuid.New(), Status: domain.StatusCompleted})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	assert.Empty(t, f.audit.Records)
}
