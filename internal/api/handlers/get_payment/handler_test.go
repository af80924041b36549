package get_payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-EventBookingService/internal/service/payments"
	"github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
	"github.com/m04kA/SMC-EventBookingService/pkg/actor"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.PaymentResponse, error) {
	args := m.Called(ctx, id, userID, isAdmin)
	if p, ok := args.Get(0).(*models.PaymentResponse); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func get(svc *mockService, paymentID string, a *actor.Actor) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/payments/{paymentId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/"+paymentID, nil)
	if a != nil {
		req = req.WithContext(actor.WithContext(req.Context(), *a))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	paymentID, userID := uuid.New(), uuid.New()
	owner := &actor.Actor{UserID: &userID, Role: "user"}

	t.Run("owner", func(t *testing.T) {
		svc := &mockService{}
		svc.On("GetByID", mock.Anything, paymentID, userID, false).
			Return(&models.PaymentResponse{ID: paymentID, TransactionID: "TXN1", Status: "pending"}, nil)

		rec := get(svc, paymentID.String(), owner)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"transactionId":"TXN1"`)
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockService{}
		svc.On("GetByID", mock.Anything, paymentID, userID, false).Return(nil, payments.ErrPaymentNotFound)
		assert.Equal(t, http.StatusNotFound, get(svc, paymentID.String(), owner).Code)
	})

	t.Run("someone else's payment", func(t *testing.T) {
		svc := &mockService{}
		svc.On("GetByID", mock.Anything, paymentID, userID, false).Return(nil, payments.ErrAccessDenied)
		assert.Equal(t, http.StatusForbidden, get(svc, paymentID.String(), owner).Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(&mockService{}, paymentID.String(), nil).Code)
	})
}
