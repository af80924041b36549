package domain

import (
	"time"

	"github.com/google/uuid"
)

const ServiceStatusActive = "active"

// Service позиция каталога услуг
type Service struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Category    string
	Price       int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive услуга доступна для бронирования
func (s *Service) IsActive() bool {
	return s.Status == ServiceStatusActive
}

// Snapshot копия услуги для сохранения в бронировании
func (s *Service) Snapshot() *ServiceSnapshot {
	return &ServiceSnapshot{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Price:    s.Price,
	}
}

// ServicesFilter фильтр каталога
type ServicesFilter struct {
	Category   *string
	OnlyActive bool
}
