package integration

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/integration"
	"go.uber.org/zap"
)

const (
	emailSentMessage = "Email sent successfully"
	emailDisabled    = "email integration disabled"
)

// Service sends outbound email and webhook calls. Failures are reported in
// the result rather than as errors so callers can surface them verbatim.
type Service struct {
	email   integration.EmailSender
	webhook integration.WebhookCaller
	logger  *zap.Logger
}

// NewService creates a new integration Service
func NewService(email integration.EmailSender, webhook integration.WebhookCaller, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{email: email, webhook: webhook, logger: logger}
}

// Status reports the service name and capabilities
func (s *Service) Status() StatusResponse {
	return StatusResponse{
		Service: integration.ServiceName,
		Status:  "UP",
		Capabilities: []string{
			integration.CapabilityEmailSMTP,
			integration.CapabilityWebhookHTTP,
			integration.CapabilityCalendarAPI,
		},
	}
}

// SendEmail delivers an email through the configured sender
func (s *Service) SendEmail(ctx context.Context, req SendEmailRequest) EmailResult {
	if s.email == nil || !s.email.Enabled() {
		return EmailResult{Status: integration.StatusFailed, Error: emailDisabled}
	}
	msg := integration.EmailMessage{
		To:      req.To,
		Cc:      req.Cc,
		Bcc:     req.Bcc,
		Subject: req.Subject,
		Body:    req.Body,
		HTML:    req.HTML,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("email send failed", zap.Strings("to", req.To), zap.Error(err))
		if errors.Is(err, integration.ErrIntegrationDisabled) {
			return EmailResult{Status: integration.StatusFailed, Error: emailDisabled}
		}
		return EmailResult{Status: integration.StatusFailed, Error: err.Error()}
	}
	return EmailResult{Status: integration.StatusSuccess, Message: emailSentMessage}
}

// SendWebhook calls an external URL; a non-2xx reply is FAILED with the status and body
func (s *Service) SendWebhook(ctx context.Context, req SendWebhookRequest) WebhookResult {
	if s.webhook == nil {
		return WebhookResult{Status: integration.StatusFailed, Error: integration.ErrWebhookRequestFailed.Error()}
	}
	resp, err := s.webhook.Call(ctx, integration.WebhookRequest{
		URL:     req.URL,
		Method:  req.Method,
		Headers: req.Headers,
		Payload: req.Payload,
	})
	if err != nil {
		return WebhookResult{Status: integration.StatusFailed, Error: err.Error()}
	}
	status := integration.StatusSuccess
	if !resp.Successful() {
		status = integration.StatusFailed
	}
	return WebhookResult{
		Status:     status,
		HTTPStatus: resp.HTTPStatus,
		Response:   resp.Body,
		Truncated:  resp.Truncated,
	}
}
