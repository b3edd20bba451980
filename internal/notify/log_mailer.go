package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Name() string { return "log" }

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	to, err := msg.recipients()
	if err != nil {
		return err
	}
	m.logger.Info("email delivery not configured, logging message",
		zap.Strings("to", to),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody))
	return nil
}
