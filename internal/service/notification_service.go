package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/notify"
	"github.com/spec-kit/volunteer-service/internal/observability"
)

const (
	emailKindSignup = "volunteer_signup"
	emailKindReset  = "password_reset"
)

// NotificationService turns domain events into emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
	resetTTL   int
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notify.Mailer, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig, resetTTLMinutes int) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
		resetTTL:   resetTTLMinutes,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventVolunteerSignedUp, n.handleVolunteerSignedUp)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleVolunteerSignedUp(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.VolunteerSignedUpPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if len(n.cfg.AdminRecipients) == 0 {
		n.logger.Warn("no admin notification emails configured, skipping signup notification",
			zap.Int64("volunteer_id", payload.VolunteerID))
		n.metrics.RecordEmail(emailKindSignup, "skipped")
		return nil
	}

	lines := make([]notify.MinistryLine, 0, len(payload.Ministries))
	for _, m := range payload.Ministries {
		lines = append(lines, notify.MinistryLine{Category: m.Category, MinistryArea: m.MinistryArea})
	}
	msg, err := notify.SignupMessage(n.cfg.AdminRecipients, notify.SignupDetails{
		Name:       payload.Name,
		Phone:      payload.Phone,
		Email:      payload.Email,
		SignupDate: payload.SignupDate,
		Ministries: lines,
	})
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.metrics.RecordEmail(emailKindSignup, "failed")
		n.logger.Error("failed to send volunteer notification email",
			zap.Int64("volunteer_id", payload.VolunteerID), zap.Error(err))
		return nil
	}
	n.metrics.RecordEmail(emailKindSignup, "sent")
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}

	link := n.resetLink(payload.Token)
	msg, err := notify.PasswordResetMessage(payload.Email, notify.ResetDetails{Link: link, ValidMinutes: n.resetTTL})
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.metrics.RecordEmail(emailKindReset, "failed")
		n.logger.Error("failed to send password reset email", zap.String("to", payload.Email), zap.Error(err))
		n.logger.Info("password reset link", zap.String("to", payload.Email), zap.String("reset_link", link))
		return nil
	}
	n.metrics.RecordEmail(emailKindReset, "sent")
	return nil
}

func (n *NotificationService) resetLink(token string) string {
	base := n.cfg.ResetURLBase
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "reset_token=" + url.QueryEscape(token)
}
