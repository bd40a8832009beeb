package services

import (
	"fmt"

	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sender delivers one composed email. The sendgrid client satisfies it;
// tests substitute a recorder.
type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// AlertService sends valuation alerts by email through SendGrid. Without an
// API key and recipient configured the service reports itself disabled and
// sending becomes a logged no-op.
type AlertService struct {
	cfg    *config.Config
	logger zerolog.Logger
	client sender
}

// NewAlertService creates the alert sender for the configured account.
func NewAlertService(cfg *config.Config, logger zerolog.Logger) *AlertService {
	s := &AlertService{cfg: cfg, logger: logger}
	if cfg.SendGridAPIKey != "" {
		s.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return s
}

// Enabled reports whether alerts can actually be delivered.
func (s *AlertService) Enabled() bool {
	return s.client != nil && s.cfg.AlertRecipient != ""
}

// SendAlert emails one alert to the configured recipient. Disabled
// configuration is not an error; the alert is logged and skipped so the
// scheduler does not retry it forever.
func (s *AlertService) SendAlert(alert models.Alert) error {
	if !s.Enabled() {
		s.logger.Info().Str("symbol", alert.Symbol).Str("type", alert.AlertType).
			Msg("Email alerts not configured, skipping delivery")
		return nil
	}

	from := mail.NewEmail("Valuation Alerts", s.cfg.AlertFromEmail)
	to := mail.NewEmail("", s.cfg.AlertRecipient)
	subject := fmt.Sprintf("[%s] %s", alert.Symbol, alert.AlertType)
	email := mail.NewSingleEmail(from, subject, to, alert.Message,
		"<p>"+alert.Message+"</p>")

	resp, err := s.client.Send(email)
	if err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send alert email: sendgrid returned status %d", resp.StatusCode)
	}
	s.logger.Info().Str("symbol", alert.Symbol).Str("type", alert.AlertType).Msg("Alert email sent")
	return nil
}
