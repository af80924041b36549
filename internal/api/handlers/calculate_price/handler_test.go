package calculate_price

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-EventBookingService/internal/service/pricing"
)

type stubServices map[uuid.UUID]*domain.Service

func (s stubServices) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if svc, ok := s[id]; ok {
		return svc, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func calculate(t *testing.T, services stubServices, body string) (*httptest.ResponseRecorder, PriceResponse) {
	t.Helper()
	h := NewHandler(pricing.NewCalculator(services, nopLogger{}), nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/calculate-price", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	var resp struct {
		Data PriceResponse `json:"data"`
	}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp.Data
}

func TestHandle_ByEventType(t *testing.T) {
	rec, price := calculate(t, stubServices{},
		`{"eventType":"wedding","guestCount":120,"eventDate":"2030-05-20","eventTime":"18:00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(20000), price.BasePrice)
	assert.Equal(t, "2.40", price.GuestFactor)
	assert.Equal(t, int64(48000), price.TotalPrice)
	assert.Equal(t, "ETB", price.Currency)
	assert.Nil(t, price.Service)
}

func TestHandle_ByCatalogService(t *testing.T) {
	serviceID := uuid.New()
	services := stubServices{serviceID: {
		ID:       serviceID,
		Name:     "Garden Hall",
		Category: "venue",
		Price:    30000,
		Status:   domain.ServiceStatusActive,
	}}

	rec, price := calculate(t, services, `{"serviceId":"`+serviceID.String()+
		`","eventType":"corporate","guestCount":30,"eventDate":"2030-05-20","eventTime":"09:00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.00", price.GuestFactor)
	assert.Equal(t, int64(30000), price.TotalPrice)
	require.NotNil(t, price.Service)
	assert.Equal(t, "Garden Hall", price.Service.Name)
}

func TestHandle_UnknownService(t *testing.T) {
	rec, _ := calculate(t, stubServices{}, `{"serviceId":"`+uuid.NewString()+
		`","eventType":"birthday","guestCount":10,"eventDate":"2030-05-20","eventTime":"12:00"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_Validation(t *testing.T) {
	rec, _ := calculate(t, stubServices{}, `{"eventType":"wedding","guestCount":0,"eventDate":"2030-05-20","eventTime":"18:00"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "guestCount")
}
