package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-EventBookingService/internal/service/notifications/models"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) List(ctx context.Context, filter domain.NotificationsFilter) ([]*domain.Notification, int, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]*domain.Notification)
	return items, args.Int(1), args.Error(2)
}

func (m *repoMock) CountUnread(ctx context.Context, userID uuid.UUID, includeAdmins bool) (int, error) {
	args := m.Called(ctx, userID, includeAdmins)
	return args.Int(0), args.Error(1)
}

func (m *repoMock) MarkRead(ctx context.Context, id, userID uuid.UUID, includeAdmins bool) error {
	return m.Called(ctx, id, userID, includeAdmins).Error(0)
}

func (m *repoMock) MarkAllRead(ctx context.Context, userID uuid.UUID, includeAdmins bool) (int64, error) {
	args := m.Called(ctx, userID, includeAdmins)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) Delete(ctx context.Context, id, userID uuid.UUID, includeAdmins bool) error {
	return m.Called(ctx, id, userID, includeAdmins).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestService_ListIncludesAdminInboxForAdmins(t *testing.T) {
	admin := models.Recipient{UserID: uuid.New(), IsAdmin: true}
	repo := &repoMock{}
	repo.On("List", mock.Anything, domain.NotificationsFilter{
		UserID:        admin.UserID,
		IncludeAdmins: true,
		UnreadOnly:    true,
		Page:          domain.Page{Page: 1, Limit: domain.DefaultPageLimit},
	}).Return([]*domain.Notification{{ID: uuid.New(), Kind: domain.NotificationBookingCreated, Message: "New booking"}}, 1, nil)

	resp, err := NewService(repo, nopLogger{}).List(context.Background(), &models.ListRequest{Recipient: admin, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "booking_created", resp.Notifications[0].Type)
	assert.NotNil(t, resp.Notifications[0].Data)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestService_MarkReadAndDelete(t *testing.T) {
	user := models.Recipient{UserID: uuid.New()}
	known, unknown := uuid.New(), uuid.New()

	repo := &repoMock{}
	repo.On("MarkRead", mock.Anything, known, user.UserID, false).Return(nil)
	repo.On("MarkRead", mock.Anything, unknown, user.UserID, false).Return(notificationRepo.ErrNotificationNotFound)
	repo.On("Delete", mock.Anything, known, user.UserID, false).Return(errors.New("db down"))
	svc := NewService(repo, nopLogger{})

	assert.NoError(t, svc.MarkRead(context.Background(), known, user))
	assert.ErrorIs(t, svc.MarkRead(context.Background(), unknown, user), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), known, user), ErrInternal)
}

func TestService_Counters(t *testing.T) {
	user := models.Recipient{UserID: uuid.New()}
	repo := &repoMock{}
	repo.On("CountUnread", mock.Anything, user.UserID, false).Return(3, nil)
	repo.On("MarkAllRead", mock.Anything, user.UserID, false).Return(int64(3), nil)
	svc := NewService(repo, nopLogger{})

	count, err := svc.UnreadCount(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 3, count.Count)

	marked, err := svc.MarkAllRead(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked.Updated)
}
