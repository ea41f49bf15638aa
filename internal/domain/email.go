package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the registration email.
type WelcomeEmailData struct {
	Email     string
	FirstName string
}

// ReservationEmailData holds data for the reservation confirmation email.
type ReservationEmailData struct {
	Email         string
	FirstName     string
	ReservationID int64
	EventName     string
	VenueName     string
	StartsAt      time.Time
	Quantity      int
}

// NotificationService sends domain-level emails.
type NotificationService interface {
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
	SendReservationConfirmation(ctx context.Context, data *ReservationEmailData) error
}
