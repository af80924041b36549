package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from PaymentStatus
		to   PaymentStatus
		want bool
	}{
		{PaymentUnpaid, PaymentProcessing, true},
		{PaymentUnpaid, PaymentPaid, false},
		{PaymentProcessing, PaymentPaid, true},
		{PaymentProcessing, PaymentFailed, true},
		{PaymentProcessing, PaymentUnpaid, false},
		{PaymentPaid, PaymentFailed, false},
		{PaymentFailed, PaymentProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBooking_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	b := &Booking{UserID: &owner}

	assert.True(t, b.IsOwnedBy(owner))
	assert.False(t, b.IsOwnedBy(uuid.New()))
	assert.False(t, (&Booking{}).IsOwnedBy(owner))
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: DefaultPageLimit}, Page{}.Normalize())
	assert.Equal(t, Page{Page: 3, Limit: MaxPageLimit}, Page{Page: 3, Limit: 500}.Normalize())
	assert.Equal(t, 3, Page{Page: 1, Limit: 20}.TotalPages(41))
	assert.Equal(t, 0, Page{Page: 1, Limit: 20}.TotalPages(0))
}

func TestValidators(t *testing.T) {
	assert.True(t, EventWedding.IsValid())
	assert.False(t, EventType("funeral").IsValid())
	assert.True(t, MethodCBE.IsValid())
	assert.False(t, PaymentMethod("cash").IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, BookingStatus("no_show").IsValid())
}
