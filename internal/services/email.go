package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

const conferenceConfirmationTemplate = "conference_confirmation"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConferenceConfirmation tells an organizer their conference was created.
func (s *emailService) SendConferenceConfirmation(ctx context.Context, data *domain.ConferenceConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("conference confirmation data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("%w: conference confirmation needs a recipient", domain.ErrInvalidInput)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(conferenceConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", conferenceConfirmationTemplate, err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send conference confirmation: %w", err)
	}
	s.logger.Info("conference confirmation sent", "email", data.Email, "conference_key", data.ConferenceKey)
	return nil
}
