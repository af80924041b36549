package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Executor исполняет намерения: сохраняет уведомления во входящие и отправляет письма
type Executor struct {
	notifications NotificationRepository
	sender        EmailSender
	renderer      AdminRenderer
	adminEmails   []string
	logger        Logger
}

// NewExecutor renderer и adminEmails необязательны: без них администраторы получают только запись во входящих
func NewExecutor(
	notifications NotificationRepository,
	sender EmailSender,
	renderer AdminRenderer,
	adminEmails []string,
	logger Logger,
) *Executor {
	return &Executor{
		notifications: notifications,
		sender:        sender,
		renderer:      renderer,
		adminEmails:   adminEmails,
		logger:        logger,
	}
}

// Execute выполняет одно намерение
func (e *Executor) Execute(ctx context.Context, intent Intent) error {
	switch intent.Kind {
	case IntentNotifyUser:
		if intent.UserID == nil {
			return fmt.Errorf("%w: notify.user without userId", ErrInvalidIntent)
		}
		return e.store(ctx, &domain.Notification{
			UserID:   intent.UserID,
			Audience: domain.AudienceUser,
			Kind:     intent.Event,
			Message:  intent.Message,
			Data:     intent.Data,
		})

	case IntentNotifyAdmins:
		if err := e.store(ctx, &domain.Notification{
			Audience: domain.AudienceAdmins,
			Kind:     intent.Event,
			Message:  intent.Message,
			Data:     intent.Data,
		}); err != nil {
			return err
		}
		return e.mailAdmins(ctx, intent)

	case IntentSendEmail:
		if intent.To == "" {
			return fmt.Errorf("%w: email.send without recipient", ErrInvalidIntent)
		}
		if err := e.sender.Send(ctx, intent.To, intent.Subject, intent.HTML); err != nil {
			return err
		}
		e.logger.Info("Executor: email %q sent to %s", intent.Subject, intent.To)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, intent.Kind)
	}
}

func (e *Executor) store(ctx context.Context, notification *domain.Notification) error {
	if _, err := e.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("store %s notification: %w", notification.Kind, err)
	}
	return nil
}

// mailAdmins письма администраторам отправляются каждому адресу, ошибки собираются
func (e *Executor) mailAdmins(ctx context.Context, intent Intent) error {
	if e.renderer == nil || len(e.adminEmails) == 0 {
		return nil
	}

	subject, html, err := e.renderer.AdminNotification(string(intent.Event), intent.Message)
	if err != nil {
		return err
	}

	var errs []error
	for _, to := range e.adminEmails {
		if err := e.sender.Send(ctx, to, subject, html); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		e.logger.Error("Executor: failed to send admin notifications to %d of %d emails", len(errs), len(e.adminEmails))
	}

	return errors.Join(errs...)
}
