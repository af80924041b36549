// Package usecasetest in-memory реализации репозиториев и внешних зависимостей для тестов usecase
package usecasetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/catalog"
	paymentRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/payment"
)

// Store хранилище бронирований, платежей и услуг.
// Транзакции сериализуются целиком и откатываются восстановлением снимка.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	bookings map[uuid.UUID]domain.Booking
	payments map[uuid.UUID]domain.Payment
	services map[uuid.UUID]domain.Service

	// FailOn имя операции, на которой репозиторий вернет ошибку (для проверки отката)
	FailOn  string
	FailErr error
}

func NewStore() *Store {
	return &Store{
		bookings: map[uuid.UUID]domain.Booking{},
		payments: map[uuid.UUID]domain.Payment{},
		services: map[uuid.UUID]domain.Service{},
	}
}

// DoSerializable выполняет fn эксклюзивно, при ошибке откатывает изменения
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	bookings := copyMap(s.bookings)
	payments := copyMap(s.payments)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.bookings = bookings
		s.payments = payments
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) fail(op string) error {
	if s.FailOn == op {
		return s.FailErr
	}
	return nil
}

// PutService добавляет услугу в каталог
func (s *Store) PutService(service domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	s.services[service.ID] = service
}

// PutBooking добавляет бронирование и возвращает его ID
func (s *Store) PutBooking(b domain.Booking) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.bookings[b.ID] = b
	return b.ID
}

// PutPayment добавляет платеж и возвращает его ID
func (s *Store) PutPayment(p domain.Payment) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.payments[p.ID] = p
	return p.ID
}

// Booking текущее состояние бронирования
func (s *Store) Booking(id uuid.UUID) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

// Payment текущее состояние платежа
func (s *Store) Payment(id uuid.UUID) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[id]
}

// PaymentsOf платежи бронирования
func (s *Store) PaymentsOf(bookingID uuid.UUID) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Payment
	for _, p := range s.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out
}

// Bookings репозиторий бронирований поверх Store
func (s *Store) Bookings() *Bookings { return &Bookings{s} }

// Payments репозиторий платежей поверх Store
func (s *Store) Payments() *Payments { return &Payments{s} }

// Services каталог поверх Store
func (s *Store) Services() *Services { return &Services{s} }

type Bookings struct{ s *Store }

func (r *Bookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if err := r.s.fail("booking.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.s.bookings[b.ID] = *b
	return b, nil
}

func (r *Bookings) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *Bookings) UpdatePaymentState(_ context.Context, id uuid.UUID, t domain.PaymentTransition) error {
	if err := r.s.fail("booking.UpdatePaymentState"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.PaymentStatus != t.From {
		return bookingRepo.ErrPaymentStateMismatch
	}
	b.PaymentStatus = t.To
	if t.Status != nil {
		b.Status = *t.Status
	}
	if t.QRCodeURL != nil {
		b.QRCodeURL = t.QRCodeURL
	}
	if t.TransactionID != nil {
		b.TransactionID = t.TransactionID
	}
	b.UpdatedAt = time.Now()
	r.s.bookings[id] = b
	return nil
}

func (r *Bookings) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	r.s.bookings[id] = b
	return nil
}

type Payments struct{ s *Store }

func (r *Payments) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	if err := r.s.fail("payment.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payments {
		if existing.BookingID == p.BookingID && existing.Status != domain.PaymentStateFailed {
			return nil, paymentRepo.ErrActivePaymentExists
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.payments[p.ID] = *p
	return p, nil
}

func (r *Payments) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return &p, nil
}

func (r *Payments) GetByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.TransactionID == transactionID {
			return &p, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (r *Payments) Settle(_ context.Context, id uuid.UUID, st domain.PaymentSettlement) error {
	if err := r.s.fail("payment.Settle"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok || p.Status != st.From {
		return paymentRepo.ErrStatusMismatch
	}
	p.Status = st.To
	if st.QRCodeURL != nil {
		p.QRCodeURL = st.QRCodeURL
	}
	p.UpdatedAt = time.Now()
	r.s.payments[id] = p
	return nil
}

type Services struct{ s *Store }

func (r *Services) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &svc, nil
}
