// Package notifier доставляет побочные эффекты платежного движка (уведомления и письма)
// вне транзакции: движок публикует намерение, исполнитель выполняет его отдельно.
package notifier

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// IntentKind тип намерения, он же routing key в RabbitMQ
type IntentKind string

const (
	IntentNotifyUser   IntentKind = "notify.user"
	IntentNotifyAdmins IntentKind = "notify.admins"
	IntentSendEmail    IntentKind = "email.send"
)

// RoutingKeys ключи, на которые подписывается исполнитель
var RoutingKeys = []string{
	string(IntentNotifyUser),
	string(IntentNotifyAdmins),
	string(IntentSendEmail),
}

// Intent сообщение, которое движок передает исполнителю
type Intent struct {
	Kind IntentKind `json:"kind"`

	// notify.user / notify.admins
	UserID  *uuid.UUID              `json:"userId,omitempty"`
	Event   domain.NotificationKind `json:"event,omitempty"`
	Message string                  `json:"message,omitempty"`
	Data    map[string]interface{}  `json:"data,omitempty"`

	// email.send
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	HTML    string `json:"html,omitempty"`
}
