package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-EventBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-EventBookingService/internal/service/notifications/models"
)

// Service входящие уведомления пользователя
type Service struct {
	repo   NotificationRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(repo NotificationRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List страница входящих, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.NotificationListResponse, error) {
	page := domain.Page{Page: req.Page, Limit: req.Limit}.Normalize()

	items, total, err := s.repo.List(ctx, domain.NotificationsFilter{
		UserID:        req.Recipient.UserID,
		IncludeAdmins: req.Recipient.IsAdmin,
		UnreadOnly:    req.UnreadOnly,
		Page:          page,
	})
	if err != nil {
		s.logger.Error("ListNotifications: repository error for user=%s: %v", req.Recipient.UserID, err)
		return nil, fmt.Errorf("%w: ListNotifications - repository error: %v", ErrInternal, err)
	}

	resp := &models.NotificationListResponse{
		Notifications: make([]models.NotificationResponse, 0, len(items)),
		Total:         total,
		Page:          page.Page,
		TotalPages:    page.TotalPages(total),
	}
	for _, n := range items {
		resp.Notifications = append(resp.Notifications, models.FromDomainNotification(n))
	}
	return resp, nil
}

// UnreadCount количество непрочитанных
func (s *Service) UnreadCount(ctx context.Context, r models.Recipient) (*models.UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, r.UserID, r.IsAdmin)
	if err != nil {
		s.logger.Error("UnreadCount: repository error for user=%s: %v", r.UserID, err)
		return nil, fmt.Errorf("%w: UnreadCount - repository error: %v", ErrInternal, err)
	}
	return &models.UnreadCountResponse{Count: count}, nil
}

// MarkRead отмечает одно уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, r models.Recipient) error {
	return s.mutate(ctx, "MarkRead", id, r, s.repo.MarkRead)
}

// MarkAllRead отмечает все уведомления прочитанными
func (s *Service) MarkAllRead(ctx context.Context, r models.Recipient) (*models.MarkAllReadResponse, error) {
	updated, err := s.repo.MarkAllRead(ctx, r.UserID, r.IsAdmin)
	if err != nil {
		s.logger.Error("MarkAllRead: repository error for user=%s: %v", r.UserID, err)
		return nil, fmt.Errorf("%w: MarkAllRead - repository error: %v", ErrInternal, err)
	}
	s.logger.Info("MarkAllRead: user=%s marked %d notifications", r.UserID, updated)
	return &models.MarkAllReadResponse{Updated: updated}, nil
}

// Delete удаляет уведомление
func (s *Service) Delete(ctx context.Context, id uuid.UUID, r models.Recipient) error {
	return s.mutate(ctx, "DeleteNotification", id, r, s.repo.Delete)
}

func (s *Service) mutate(
	ctx context.Context,
	op string,
	id uuid.UUID,
	r models.Recipient,
	fn func(ctx context.Context, id, userID uuid.UUID, includeAdmins bool) error,
) error {
	if err := fn(ctx, id, r.UserID, r.IsAdmin); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("%s: notification id=%s not found for user=%s", op, id, r.UserID)
			return ErrNotificationNotFound
		}
		s.logger.Error("%s: repository error for notification id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	s.logger.Info("%s: notification id=%s by user=%s", op, id, r.UserID)
	return nil
}
