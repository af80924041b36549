package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-EventBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-EventBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-EventBookingService/pkg/actor"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, userID, isAdmin)
	if b, ok := args.Get(0).(*models.BookingResponse); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func get(svc *mockService, bookingID string, a *actor.Actor) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID, nil)
	if a != nil {
		req = req.WithContext(actor.WithContext(req.Context(), *a))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	bookingID, userID := uuid.New(), uuid.New()
	owner := &actor.Actor{UserID: &userID, Role: "user"}

	t.Run("owner", func(t *testing.T) {
		svc := &mockService{}
		svc.On("GetByID", mock.Anything, bookingID, userID, false).
			Return(&models.BookingResponse{ID: bookingID, Status: "pending"}, nil)

		rec := get(svc, bookingID.String(), owner)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), bookingID.String())
		svc.AssertExpectations(t)
	})

	t.Run("admin flag", func(t *testing.T) {
		svc := &mockService{}
		svc.On("GetByID", mock.Anything, bookingID, userID, true).
			Return(&models.BookingResponse{ID: bookingID}, nil)

		rec := get(svc, bookingID.String(), &actor.Actor{UserID: &userID, Role: actor.RoleAdmin})
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockService{}
		svc.On("GetByID", mock.Anything, bookingID, userID, false).Return(nil, bookings.ErrBookingNotFound)
		assert.Equal(t, http.StatusNotFound, get(svc, bookingID.String(), owner).Code)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		svc := &mockService{}
		svc.On("GetByID", mock.Anything, bookingID, userID, false).Return(nil, bookings.ErrAccessDenied)
		assert.Equal(t, http.StatusForbidden, get(svc, bookingID.String(), owner).Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(&mockService{}, "abc", owner).Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(&mockService{}, bookingID.String(), nil).Code)
	})
}
