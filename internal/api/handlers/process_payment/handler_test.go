package process_payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	processPayment "github.com/m04kA/SMC-EventBookingService/internal/usecase/process_payment"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *processPayment.Request) (*processPayment.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*processPayment.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func send(uc *mockUseCase, paymentID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/payments/{paymentId}/process", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+paymentID+"/process", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func settled(paymentID uuid.UUID, status domain.PaymentState) *processPayment.Response {
	return &processPayment.Response{
		Payment: &domain.Payment{ID: paymentID, Status: status},
		Booking: &domain.Booking{ID: uuid.New()},
	}
}

func TestHandle_DefaultsToSuccess(t *testing.T) {
	uc := &mockUseCase{}
	paymentID := uuid.New()
	uc.On("Execute", mock.Anything, &processPayment.Request{
		PaymentID: paymentID,
		Success:   true,
		Trigger:   processPayment.TriggerAdmin,
	}).Return(settled(paymentID, domain.PaymentStateCompleted), nil)

	rec := send(uc, paymentID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment processed successfully")
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
	uc.AssertExpectations(t)
}

func TestHandle_SimulatedFailure(t *testing.T) {
	uc := &mockUseCase{}
	paymentID := uuid.New()
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *processPayment.Request) bool {
		return !req.Success
	})).Return(settled(paymentID, domain.PaymentStateFailed), nil)

	rec := send(uc, paymentID.String(), `{"simulateSuccess":false}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"failed"`)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"payment not found", processPayment.ErrPaymentNotFound, http.StatusNotFound},
		{"booking not found", processPayment.ErrBookingNotFound, http.StatusNotFound},
		{"already processed", processPayment.ErrAlreadyProcessed, http.StatusConflict},
		{"internal", processPayment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			assert.Equal(t, tt.status, send(uc, uuid.NewString(), "").Code)
		})
	}
}

func TestHandle_MalformedBody(t *testing.T) {
	uc := &mockUseCase{}
	rec := send(uc, uuid.NewString(), `{"simulateSuccess":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
