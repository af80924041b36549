package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const (
	SubjectBookingConfirmation = "Booking Confirmation - Event Booking Platform"
	SubjectPaymentReceipt      = "Payment Receipt - Event Booking Platform"
	subjectAdminPrefix         = "Admin Notification: "
)

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #4F46E5; color: white; padding: 20px; text-align: center; }
    .content { background-color: #f9f9f9; padding: 30px; }
    .details { background-color: white; padding: 20px; border-radius: 4px; border: 1px solid #ddd; }
    .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>{{.Title}}</h1></div>
    <div class="content">{{template "content" .}}</div>
    <div class="footer"><p>&copy; {{.Year}} Event Booking Platform. All rights reserved.</p></div>
  </div>
</body>
</html>{{end}}`

const bookingConfirmation = `{{define "content"}}
<h2>Thank you for your booking, {{.Data.CustomerName}}!</h2>
<p>We have received your booking. Here are the details:</p>
<div class="details">
  <h3>Booking #{{.Data.BookingID}}</h3>
  {{with .Data.ServiceName}}<p><strong>Service:</strong> {{.}}</p>{{end}}
  <p><strong>Event type:</strong> {{.Data.EventType}}</p>
  <p><strong>Date:</strong> {{.Data.EventDate}}</p>
  <p><strong>Time:</strong> {{.Data.EventTime}}</p>
  <p><strong>Guests:</strong> {{.Data.GuestCount}}</p>
  <p><strong>Total Amount:</strong> {{.Data.Amount}} {{.Data.Currency}}</p>
</div>
<p>Proceed to payment to confirm your booking.</p>
{{end}}`

const paymentReceipt = `{{define "content"}}
<h2>Thank you for your payment!</h2>
<p>Your payment has been processed successfully. Here is your receipt:</p>
<div class="details">
  <h3>Payment #{{.Data.PaymentID}}</h3>
  <p><strong>Booking Reference:</strong> {{.Data.BookingID}}</p>
  <p><strong>Transaction:</strong> {{.Data.TransactionID}}</p>
  <p><strong>Payment Date:</strong> {{.Data.PaidAt}}</p>
  <p><strong>Payment Method:</strong> {{.Data.Method}}</p>
  <p><strong>Amount Paid:</strong> {{.Data.Amount}} {{.Data.Currency}}</p>
</div>
<p>This receipt confirms your payment for the above booking.</p>
{{end}}`

const adminNotification = `{{define "content"}}
<h2>{{.Data.Subject}}</h2>
<p>{{.Data.Message}}</p>
{{end}}`

// BookingEmail данные письма о принятом бронировании
type BookingEmail struct {
	BookingID    string
	CustomerName string
	ServiceName  string
	EventType    string
	EventDate    string
	EventTime    string
	GuestCount   int
	Amount       int64
	Currency     string
}

// ReceiptEmail данные квитанции об оплате
type ReceiptEmail struct {
	PaymentID     string
	BookingID     string
	TransactionID string
	Method        string
	Amount        int64
	Currency      string
	PaidAt        string
}

// Renderer собирает HTML письма из шаблонов
type Renderer struct {
	booking *template.Template
	receipt *template.Template
	admin   *template.Template
	now     func() time.Time
}

// NewRenderer разбирает шаблоны один раз при старте
func NewRenderer() (*Renderer, error) {
	parse := func(content string) (*template.Template, error) {
		t, err := template.New("email").Parse(layout)
		if err != nil {
			return nil, err
		}
		return t.Parse(content)
	}

	booking, err := parse(bookingConfirmation)
	if err != nil {
		return nil, fmt.Errorf("mailer: parse booking template: %w", err)
	}
	receipt, err := parse(paymentReceipt)
	if err != nil {
		return nil, fmt.Errorf("mailer: parse receipt template: %w", err)
	}
	admin, err := parse(adminNotification)
	if err != nil {
		return nil, fmt.Errorf("mailer: parse admin template: %w", err)
	}

	return &Renderer{booking: booking, receipt: receipt, admin: admin, now: time.Now}, nil
}

// BookingConfirmation тема и тело письма клиенту о бронировании
func (r *Renderer) BookingConfirmation(data BookingEmail) (string, string, error) {
	html, err := r.render(r.booking, "Booking Confirmation", data)
	return SubjectBookingConfirmation, html, err
}

// PaymentReceipt тема и тело квитанции об оплате
func (r *Renderer) PaymentReceipt(data ReceiptEmail) (string, string, error) {
	html, err := r.render(r.receipt, "Payment Receipt", data)
	return SubjectPaymentReceipt, html, err
}

// AdminNotification письмо администраторам
func (r *Renderer) AdminNotification(subject, message string) (string, string, error) {
	html, err := r.render(r.admin, "Admin Notification", struct {
		Subject string
		Message string
	}{subject, message})
	return subjectAdminPrefix + subject, html, err
}

func (r *Renderer) render(t *template.Template, title string, data interface{}) (string, error) {
	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", struct {
		Title string
		Year  int
		Data  interface{}
	}{title, r.now().Year(), data})
	if err != nil {
		return "", fmt.Errorf("mailer: render %q: %w", title, err)
	}
	return buf.String(), nil
}
