package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-EventBookingService/internal/service/catalog/models"
)

// Service публичный каталог услуг (только активные)
type Service struct {
	repo   ServiceRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(repo ServiceRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List активные услуги, опционально одной категории
func (s *Service) List(ctx context.Context, category *string) (*models.ServiceListResponse, error) {
	services, err := s.repo.List(ctx, domain.ServicesFilter{Category: category, OnlyActive: true})
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	resp := &models.ServiceListResponse{Services: make([]models.ServiceResponse, 0, len(services))}
	for _, svc := range services {
		resp.Services = append(resp.Services, models.FromDomainService(svc))
	}
	return resp, nil
}

// GetByID активная услуга по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceResponse, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetService: service id=%s not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetService - repository error: %v", ErrInternal, err)
	}

	if !svc.IsActive() {
		s.logger.Warn("GetService: service id=%s is %s", id, svc.Status)
		return nil, ErrServiceNotFound
	}

	resp := models.FromDomainService(svc)
	return &resp, nil
}
