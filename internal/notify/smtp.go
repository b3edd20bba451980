package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
)

// SendFunc matches smtp.SendMail, which upgrades the session with STARTTLS when offered.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer submits mail to a relay with PLAIN auth.
type SMTPMailer struct {
	addr   string
	host   string
	auth   smtp.Auth
	from   string
	send   SendFunc
	logger *zap.Logger
}

// NewSMTPMailer builds a mailer for the configured relay.
func NewSMTPMailer(cfg config.NotificationConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host:   cfg.SMTPHost,
		auth:   smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost),
		from:   cfg.SMTPFromEmail,
		send:   smtp.SendMail,
		logger: logger,
	}
}

// WithSendFunc replaces the transport, used by tests.
func (m *SMTPMailer) WithSendFunc(fn SendFunc) *SMTPMailer {
	m.send = fn
	return m
}

func (m *SMTPMailer) Name() string { return "smtp" }

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	to, err := msg.recipients()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := buildMIME(m.from, to, msg)
	if err != nil {
		return err
	}
	if err := m.send(m.addr, m.auth, m.from, to, raw); err != nil {
		return fmt.Errorf("smtp send via %s: %w", m.host, err)
	}
	m.logger.Info("email sent", zap.String("provider", "smtp"), zap.Strings("to", to))
	return nil
}

func buildMIME(from string, to []string, msg Message) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.TextBody},
		{"text/html; charset=UTF-8", msg.HTMLBody},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", from)
	fmt.Fprintf(&out, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
