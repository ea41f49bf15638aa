package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventbooking/internal/domain"
)

type notificationService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewNotificationService returns a NotificationService that renders the embedded
// templates and hands the result to mailer.
func NewNotificationService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.NotificationService {
	return &notificationService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *notificationService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome email data is nil")
	}
	return s.send(ctx, "welcome", data.Email, data)
}

func (s *notificationService) SendReservationConfirmation(ctx context.Context, data *domain.ReservationEmailData) error {
	if data == nil {
		return fmt.Errorf("reservation email data is nil")
	}
	return s.send(ctx, "reservation_confirmation", data.Email, data)
}

func (s *notificationService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}
