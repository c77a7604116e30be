// Package integration holds the SMTP and HTTP adapters for outbound integrations.
package integration

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	domain "github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers email through an SMTP relay
type SMTPSender struct {
	cfg      config.SMTPConfig
	logger   *zap.Logger
	sendMail sendMailFunc
	now      func() time.Time
}

// NewSMTPSender creates a sender; a disabled config makes Send fail fast
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{cfg: cfg, logger: logger, sendMail: smtp.SendMail, now: time.Now}
}

// Enabled reports whether SMTP is configured on
func (s *SMTPSender) Enabled() bool {
	return s.cfg.Enabled
}

// Send validates and delivers the message
func (s *SMTPSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	if !s.cfg.Enabled {
		return domain.ErrIntegrationDisabled
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	body := s.compose(msg)

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.cfg.Addr(), auth, s.cfg.From, msg.Recipients(), body)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			s.logger.Warn("smtp delivery failed", zap.Strings("to", msg.To), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	s.logger.Info("email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// compose builds the RFC 5322 message. Bcc is left out of the headers.
func (s *SMTPSender) compose(msg domain.EmailMessage) []byte {
	var buf bytes.Buffer
	writeHeader := func(k, v string) {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}
	writeHeader("From", s.cfg.From)
	writeHeader("To", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		writeHeader("Cc", strings.Join(msg.Cc, ", "))
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader("Date", s.now().UTC().Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")
	contentType := "text/plain"
	if msg.HTML {
		contentType = "text/html"
	}
	writeHeader("Content-Type", contentType+"; charset=UTF-8")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n", "\r\n"))
	return buf.Bytes()
}

var _ domain.EmailSender = (*SMTPSender)(nil)
