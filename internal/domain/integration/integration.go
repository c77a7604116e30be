package integration

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
)

var (
	ErrIntegrationDisabled  = errors.New("integration: email integration disabled")
	ErrInvalidRecipient     = errors.New("integration: invalid recipient")
	ErrMissingSubject       = errors.New("integration: subject is required")
	ErrInvalidWebhookURL    = errors.New("integration: webhook url must be http or https")
	ErrUnsupportedMethod    = errors.New("integration: unsupported webhook method")
	ErrWebhookRequestFailed = errors.New("integration: webhook request failed")
)

// Result status values
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Capabilities advertised by the status endpoint
const (
	CapabilityEmailSMTP   = "EMAIL_SMTP"
	CapabilityWebhookHTTP = "WEBHOOK_HTTP"
	CapabilityCalendarAPI = "CALENDAR_API"
)

// ServiceName is reported by the status endpoint
const ServiceName = "integration-service"

// EmailMessage is an outbound email
type EmailMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	HTML    bool
}

// Recipients returns every envelope recipient
func (m EmailMessage) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

// Validate checks addresses and the subject
func (m EmailMessage) Validate() error {
	if len(m.To) == 0 {
		return ErrInvalidRecipient
	}
	for _, addr := range m.Recipients() {
		if _, err := mail.ParseAddress(addr); err != nil {
			return ErrInvalidRecipient
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrMissingSubject
	}
	return nil
}

// EmailSender delivers email
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
	Enabled() bool
}

// WebhookRequest is an outbound HTTP call
type WebhookRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Payload any
}

// Normalize upper-cases the method, defaulting to POST, and validates the URL
func (r *WebhookRequest) Normalize() error {
	u, err := url.Parse(strings.TrimSpace(r.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidWebhookURL
	}
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = "POST"
	}
	switch method {
	case "POST", "PUT", "GET":
	default:
		return ErrUnsupportedMethod
	}
	r.URL = u.String()
	r.Method = method
	return nil
}

// WebhookResponse is the outcome of a webhook call
type WebhookResponse struct {
	HTTPStatus int
	Body       string
	Truncated  bool
}

// Successful reports a 2xx status
func (r *WebhookResponse) Successful() bool {
	return r.HTTPStatus >= 200 && r.HTTPStatus < 300
}

// WebhookCaller performs webhook calls
type WebhookCaller interface {
	Call(ctx context.Context, req WebhookRequest) (*WebhookResponse, error)
}
