package usecasetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// Logger пишет строки лога в память
type Logger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *Logger) add(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, "["+level+"] "+fmt.Sprintf(format, v...))
}

func (l *Logger) Info(format string, v ...interface{})  { l.add("INFO", format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.add("WARN", format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.add("ERROR", format, v...) }

// Notification записанное уведомление или письмо
type Notification struct {
	UserID  *uuid.UUID
	Admins  bool
	Kind    domain.NotificationKind
	Message string
	Data    map[string]interface{}

	To      string
	Subject string
}

// Notifier запоминает намерения; Err возвращается из каждого вызова
type Notifier struct {
	mu   sync.Mutex
	Sent []Notification
	Err  error
}

func (n *Notifier) NotifyUser(_ context.Context, userID uuid.UUID, kind domain.NotificationKind, message string, data map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{UserID: &userID, Kind: kind, Message: message, Data: data})
	return n.Err
}

func (n *Notifier) NotifyAdmins(_ context.Context, kind domain.NotificationKind, message string, data map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{Admins: true, Kind: kind, Message: message, Data: data})
	return n.Err
}

func (n *Notifier) SendEmail(_ context.Context, to, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{To: to, Subject: subject})
	return n.Err
}

// Kinds типы отправленных уведомлений по порядку (письма как "email")
func (n *Notifier) Kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Sent))
	for _, s := range n.Sent {
		if s.To != "" {
			out = append(out, "email")
			continue
		}
		out = append(out, string(s.Kind))
	}
	return out
}

// AuditRecord записанная запись аудита
type AuditRecord struct {
	Action       domain.AuditAction
	ResourceType string
	ResourceID   uuid.UUID
	Data         map[string]interface{}
}

// Audit запоминает записи аудита
type Audit struct {
	mu      sync.Mutex
	Records []AuditRecord
}

func (a *Audit) Record(_ context.Context, action domain.AuditAction, resourceType string, resourceID uuid.UUID, data map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Records = append(a.Records, AuditRecord{action, resourceType, resourceID, data})
}

// Actions действия по порядку
func (a *Audit) Actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.Records))
	for _, r := range a.Records {
		out = append(out, r.Action)
	}
	return out
}

// Metrics считает доменные события
type Metrics struct {
	mu        sync.Mutex
	Bookings  int
	Created   map[string]int
	Processed map[string]int
	Webhooks  map[string]int
}

func (m *Metrics) BookingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bookings++
}

func (m *Metrics) PaymentCreated(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Created == nil {
		m.Created = map[string]int{}
	}
	m.Created[method]++
}

func (m *Metrics) PaymentProcessed(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Processed == nil {
		m.Processed = map[string]int{}
	}
	m.Processed[outcome]++
}

func (m *Metrics) WebhookReceived(provider, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Webhooks == nil {
		m.Webhooks = map[string]int{}
	}
	m.Webhooks[provider+"/"+outcome]++
}

// Clock фиксированное время
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time { return c.T }
