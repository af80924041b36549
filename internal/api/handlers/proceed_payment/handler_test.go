package proceed_payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	createPayment "github.com/m04kA/SMC-EventBookingService/internal/usecase/create_payment"
	"github.com/m04kA/SMC-EventBookingService/pkg/actor"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createPayment.Request) (*createPayment.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*createPayment.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRouter(uc *mockUseCase) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/payment", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)
	return r
}

func send(r *mux.Router, bookingID string, userID *uuid.UUID, role, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment", strings.NewReader(body))
	if userID != nil {
		req = req.WithContext(actor.WithContext(req.Context(), actor.Actor{UserID: userID, Role: role}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	userID, bookingID := uuid.New(), uuid.New()
	phone := "0911223344"

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createPayment.Request) bool {
		return req.BookingID == bookingID &&
			*req.UserID == userID &&
			!req.IsAdmin &&
			req.Method == domain.MethodTelebirr &&
			*req.PhoneNumber == phone
	})).Return(&createPayment.Response{
		Payment: &domain.Payment{
			ID:            uuid.New(),
			BookingID:     bookingID,
			Amount:        48000,
			Currency:      "ETB",
			Method:        domain.MethodTelebirr,
			PhoneNumber:   &phone,
			TransactionID: "A1B2C3D4E5F60718",
			Status:        domain.PaymentStatePending,
		},
		Instructions: domain.InstructionsFor(domain.MethodTelebirr, 48000, &phone),
	}, nil)

	rec := send(newRouter(uc), bookingID.String(), &userID, "user",
		`{"paymentMethod":"telebirr","phoneNumber":"0911223344"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data struct {
			Payment struct {
				Status        string `json:"status"`
				PaymentMethod string `json:"paymentMethod"`
				TransactionID string `json:"transactionId"`
			} `json:"payment"`
			Instructions struct {
				Title string   `json:"title"`
				Steps []string `json:"steps"`
			} `json:"instructions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Data.Payment.Status)
	assert.Equal(t, "telebirr", resp.Data.Payment.PaymentMethod)
	assert.Equal(t, "A1B2C3D4E5F60718", resp.Data.Payment.TransactionID)
	assert.Equal(t, "Telebirr Payment Instructions", resp.Data.Instructions.Title)
	assert.Contains(t, resp.Data.Instructions.Steps, "Enter amount: 48000 ETB")
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"booking not found", createPayment.ErrBookingNotFound, http.StatusNotFound},
		{"not owner", createPayment.ErrAccessDenied, http.StatusForbidden},
		{"already paid", createPayment.ErrPaymentConflict, http.StatusConflict},
		{"internal", fmt.Errorf("%w: tx failed", createPayment.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			userID := uuid.New()

			rec := send(newRouter(uc), uuid.NewString(), &userID, "user", `{"paymentMethod":"cbe"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_RejectsBadInput(t *testing.T) {
	uc := &mockUseCase{}
	userID := uuid.New()
	r := newRouter(uc)

	rec := send(r, uuid.NewString(), &userID, "user", `{"paymentMethod":"cash"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = send(r, uuid.NewString(), &userID, "user", `{"paymentMethod":"cbe","phoneNumber":"12"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = send(r, "not-a-uuid", &userID, "user", `{"paymentMethod":"cbe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(r, uuid.NewString(), nil, "", `{"paymentMethod":"cbe"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_AdminFlagPassedThrough(t *testing.T) {
	uc := &mockUseCase{}
	adminID := uuid.New()
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createPayment.Request) bool {
		return req.IsAdmin
	})).Return(nil, createPayment.ErrPaymentConflict)

	rec := send(newRouter(uc), uuid.NewString(), &adminID, actor.RoleAdmin, `{"paymentMethod":"abisiniya"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	uc.AssertExpectations(t)
}
