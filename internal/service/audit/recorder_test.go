package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	"github.com/m04kA/SMC-EventBookingService/pkg/actor"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) Append(ctx context.Context, entry *domain.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type loggerStub struct {
	errors int
}

func (l *loggerStub) Error(string, ...interface{}) { l.errors++ }

func TestRecorder_RecordTakesActorFromContext(t *testing.T) {
	repo := &repoMock{}
	logger := &loggerStub{}
	rec := NewRecorder(repo, logger)

	userID := uuid.New()
	bookingID := uuid.New()
	ctx := actor.WithContext(context.Background(), actor.Actor{
		UserID:    &userID,
		Role:      actor.RoleAdmin,
		IP:        "10.0.0.1",
		UserAgent: "curl/8.0",
	})

	var got *domain.AuditEntry
	repo.On("Append", mock.Anything, mock.AnythingOfType("*domain.AuditEntry")).
		Run(func(args mock.Arguments) { got = args.Get(1).(*domain.AuditEntry) }).
		Return(nil)

	rec.Record(ctx, domain.AuditUpdateBookingStatus, ResourceBooking, bookingID, map[string]interface{}{"newStatus": "confirmed"})

	require.NotNil(t, got)
	assert.Equal(t, &userID, got.UserID)
	assert.Equal(t, "10.0.0.1", got.IP)
	assert.Equal(t, "curl/8.0", got.UserAgent)
	assert.Equal(t, bookingID, got.ResourceID)
	assert.Equal(t, 0, logger.errors)
}

func TestRecorder_FailureIsLoggedOnly(t *testing.T) {
	repo := &repoMock{}
	logger := &loggerStub{}
	rec := NewRecorder(repo, logger)

	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	rec.Record(context.Background(), domain.AuditPaymentWebhook, ResourcePayment, uuid.New(), nil)
	assert.Equal(t, 1, logger.errors)
}
