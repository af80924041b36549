package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	paymentRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-EventBookingService/internal/service/payments/models"
)

// Service сервис для чтения платежей
type Service struct {
	paymentRepo PaymentRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(paymentRepo PaymentRepository, logger Logger) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// GetByID платеж по ID для владельца или администратора
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.PaymentResponse, error) {
	s.logger.Info("GetPayment: fetching payment id=%s for user=%s", id, userID)

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("GetPayment: payment id=%s not found", id)
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("GetPayment: repository error for payment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetPayment - repository error: %v", ErrInternal, err)
	}

	if !isAdmin && !payment.IsOwnedBy(userID) {
		s.logger.Warn("GetPayment: access denied for user=%s to payment id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainPayment(payment), nil
}

// List страница платежей; с UserID только платежи пользователя
func (s *Service) List(ctx context.Context, req *models.GetPaymentsRequest) (*models.PaymentListResponse, error) {
	s.logger.Info("ListPayments: user=%v, status=%v, method=%v, page=%d", req.UserID, req.Status, req.Method, req.Page)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListPayments: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	payments, total, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListPayments: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListPayments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListPayments: fetched %d of %d payments", len(payments), total)
	return models.FromDomainPaymentList(payments, total, filter.Page), nil
}
