package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
)

// NewMailer picks the transport named by cfg.Provider. "auto" prefers SES, then SMTP,
// then the log mailer. Every network transport sits behind a circuit breaker.
func NewMailer(ctx context.Context, cfg config.NotificationConfig, logger *zap.Logger) (Mailer, error) {
	provider := cfg.Provider
	if provider == "" || provider == "auto" {
		switch {
		case cfg.SESConfigured():
			provider = "ses"
		case cfg.SMTPConfigured():
			provider = "smtp"
		default:
			provider = "log"
		}
	}

	switch provider {
	case "ses":
		if !cfg.SESConfigured() {
			return nil, fmt.Errorf("MAIL_PROVIDER=ses requires AWS credentials and SES_SENDER_EMAIL")
		}
		ses, err := NewSESMailer(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return WithBreaker(ses, BreakerSettings{}, logger), nil
	case "smtp":
		if !cfg.SMTPConfigured() {
			return nil, fmt.Errorf("MAIL_PROVIDER=smtp requires SMTP_HOST, SMTP_USERNAME, SMTP_PASSWORD and SMTP_FROM_EMAIL")
		}
		return WithBreaker(NewSMTPMailer(cfg, logger), BreakerSettings{}, logger), nil
	case "log":
		logger.Warn("email delivery not configured, notifications will be logged")
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", provider)
	}
}
