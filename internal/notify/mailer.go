// Package notify renders notification emails and delivers them through SES, SMTP
// or the application log.
package notify

import (
	"context"
	"errors"
	"strings"
)

// Message is a multipart email with a plain text and an HTML alternative.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// ErrNoRecipients is returned when a message has no usable address.
var ErrNoRecipients = errors.New("message has no recipients")

func (m Message) recipients() ([]string, error) {
	var out []string
	for _, to := range m.To {
		if trimmed := strings.TrimSpace(to); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRecipients
	}
	return out, nil
}
