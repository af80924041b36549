package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/internal/api/middleware"
	notificationsService "github.com/m04kA/SMC-EventBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-EventBookingService/internal/service/notifications/models"
)

const (
	msgMissingUserID         = "Access token required"
	msgInvalidNotificationID = "Invalid notification ID"
	msgNotFound              = "Notification not found"
	msgMarkedRead            = "Notification marked as read"
	msgAllMarkedRead         = "All notifications marked as read"
	msgDeleted               = "Notification deleted successfully"
)

// Handler входящие уведомления текущего пользователя
type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/notifications?page=&limit=&unreadOnly=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recipient, ok := h.recipient(w, r)
	if !ok {
		return
	}

	page, limit := handlers.QueryPage(r)
	result, err := h.service.List(r.Context(), &models.ListRequest{
		Recipient:  recipient,
		UnreadOnly: handlers.QueryBool(r, "unreadOnly", false),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		h.logger.Error("GET /notifications - Failed to get notifications: user_id=%s, error=%v", recipient.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// UnreadCount GET /api/v1/notifications/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	recipient, ok := h.recipient(w, r)
	if !ok {
		return
	}

	result, err := h.service.UnreadCount(r.Context(), recipient)
	if err != nil {
		h.logger.Error("GET /notifications/unread-count - Failed to count: user_id=%s, error=%v", recipient.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// MarkRead PATCH /api/v1/notifications/{notificationId}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "PATCH /notifications/{id}/read", msgMarkedRead, h.service.MarkRead)
}

// Delete DELETE /api/v1/notifications/{notificationId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "DELETE /notifications/{id}", msgDeleted, h.service.Delete)
}

// MarkAllRead PATCH /api/v1/notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	recipient, ok := h.recipient(w, r)
	if !ok {
		return
	}

	result, err := h.service.MarkAllRead(r.Context(), recipient)
	if err != nil {
		h.logger.Error("PATCH /notifications/read-all - Failed to mark read: user_id=%s, error=%v", recipient.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, msgAllMarkedRead, result)
}

func (h *Handler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	route, okMessage string,
	fn func(ctx context.Context, id uuid.UUID, r models.Recipient) error,
) {
	recipient, ok := h.recipient(w, r)
	if !ok {
		return
	}

	id, err := handlers.PathUUID(r, "notificationId")
	if err != nil {
		h.logger.Warn("%s - Invalid notification ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	if err := fn(r.Context(), id, recipient); err != nil {
		if errors.Is(err, notificationsService.ErrNotificationNotFound) {
			h.logger.Warn("%s - Notification not found: id=%s, user_id=%s", route, id, recipient.UserID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("%s - Failed: id=%s, error=%v", route, id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, okMessage, nil)
}

func (h *Handler) recipient(w http.ResponseWriter, r *http.Request) (models.Recipient, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return models.Recipient{}, false
	}
	return models.Recipient{UserID: userID, IsAdmin: middleware.IsAdmin(r.Context())}, true
}
