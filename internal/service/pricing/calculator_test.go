package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-EventBookingService/pkg/logger"
)

type serviceRepoMock struct {
	mock.Mock
}

func (m *serviceRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*domain.Service); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		base       int64
		guests     int
		wantFactor float64
		wantTotal  int64
	}{
		{name: "single guest floors at 1x", base: 10000, guests: 1, wantFactor: 1, wantTotal: 10000},
		{name: "fifty guests", base: 10000, guests: 50, wantFactor: 1, wantTotal: 10000},
		{name: "hundred guests doubles", base: 10000, guests: 100, wantFactor: 2, wantTotal: 20000},
		{name: "wedding with 150 guests", base: 20000, guests: 150, wantFactor: 3, wantTotal: 60000},
		{name: "proportional between blocks", base: 15000, guests: 75, wantFactor: 1.5, wantTotal: 22500},
		{name: "rounds half up", base: 12001, guests: 75, wantFactor: 1.5, wantTotal: 18002},
		{name: "max guests", base: 12000, guests: 1000, wantFactor: 20, wantTotal: 240000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor, total := Compute(tt.base, tt.guests)
			assert.InDelta(t, tt.wantFactor, factor, 1e-9)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestCompute_FactorNeverBelowOne(t *testing.T) {
	for guests := 1; guests <= 1000; guests++ {
		factor, total := Compute(20000, guests)
		require.GreaterOrEqual(t, factor, 1.0)
		require.GreaterOrEqual(t, total, int64(20000))
	}
}

func TestBasePriceFor(t *testing.T) {
	assert.Equal(t, int64(20000), BasePriceFor(domain.EventWedding))
	assert.Equal(t, int64(10000), BasePriceFor(domain.EventBirthday))
	assert.Equal(t, int64(15000), BasePriceFor(domain.EventCorporate))
	assert.Equal(t, int64(12000), BasePriceFor(domain.EventOther))
	assert.Equal(t, int64(12000), BasePriceFor(domain.EventType("gala")))
}

func TestCalculator_Quote(t *testing.T) {
	ctx := context.Background()
	log := logger.NewWriter(&testWriter{t}, "error")

	t.Run("event type table without service", func(t *testing.T) {
		repo := &serviceRepoMock{}
		calc := NewCalculator(repo, log)

		quote, err := calc.Quote(ctx, nil, domain.EventWedding, 150)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), quote.BasePrice)
		assert.Equal(t, 3.0, quote.GuestFactor)
		assert.Equal(t, int64(60000), quote.TotalPrice)
		assert.Equal(t, "ETB", quote.Currency)
		assert.Nil(t, quote.Service)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("active catalog service", func(t *testing.T) {
		id := uuid.New()
		repo := &serviceRepoMock{}
		repo.On("GetByID", ctx, id).Return(&domain.Service{ID: id, Name: "Hall", Price: 30000, Status: "active"}, nil)
		calc := NewCalculator(repo, log)

		quote, err := calc.Quote(ctx, &id, domain.EventBirthday, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(30000), quote.BasePrice)
		assert.Equal(t, int64(60000), quote.TotalPrice)
		require.NotNil(t, quote.Service)
		assert.Equal(t, "Hall", quote.Service.Name)
	})

	t.Run("inactive service is not found", func(t *testing.T) {
		id := uuid.New()
		repo := &serviceRepoMock{}
		repo.On("GetByID", ctx, id).Return(&domain.Service{ID: id, Price: 30000, Status: "inactive"}, nil)

		_, err := NewCalculator(repo, log).Quote(ctx, &id, domain.EventOther, 10)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("missing service", func(t *testing.T) {
		id := uuid.New()
		repo := &serviceRepoMock{}
		repo.On("GetByID", ctx, id).Return(nil, catalogRepo.ErrServiceNotFound)

		_, err := NewCalculator(repo, log).Quote(ctx, &id, domain.EventOther, 10)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		id := uuid.New()
		repo := &serviceRepoMock{}
		repo.On("GetByID", ctx, id).Return(nil, errors.New("connection reset"))

		_, err := NewCalculator(repo, log).Quote(ctx, &id, domain.EventOther, 10)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("zero guests rejected", func(t *testing.T) {
		_, err := NewCalculator(&serviceRepoMock{}, log).Quote(ctx, nil, domain.EventOther, 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
