// Package mailer отправляет HTML письма через SMTP (gomail) или пишет их в лог
package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// ErrSend ошибка отправки письма
var ErrSend = errors.New("mailer: failed to send")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// SMTPConfig параметры SMTP сервера
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender отправляет письма через SMTP
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send открывает соединение на каждое письмо: писем немного, пул не нужен
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: to=%s: %v", ErrSend, to, err)
	}
	return nil
}

// LogSender вместо отправки пишет письмо в лог (режим разработки)
type LogSender struct {
	logger Logger
}

func NewLogSender(logger Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.logger.Info("mailer: email to=%s subject=%q (%d bytes, not sent in log mode)", to, subject, len(html))
	return nil
}
