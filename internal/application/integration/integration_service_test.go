package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg integration.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockEmailSender) Enabled() bool {
	return m.Called().Bool(0)
}

type MockWebhookCaller struct {
	mock.Mock
}

func (m *MockWebhookCaller) Call(ctx context.Context, req integration.WebhookRequest) (*integration.WebhookResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.WebhookResponse), args.Error(1)
}

func TestService_Status(t *testing.T) {
	s := NewService(nil, nil, nil).Status()
	assert.Equal(t, "integration-service", s.Service)
	assert.Equal(t, "UP", s.Status)
	assert.Equal(t, []string{"EMAIL_SMTP", "WEBHOOK_HTTP", "CALENDAR_API"}, s.Capabilities)
}

func TestService_SendEmail(t *testing.T) {
	ctx := context.Background()
	req := SendEmailRequest{To: []string{"ops@example.com"}, Subject: "Hello", Body: "Hi"}

	t.Run("disabled", func(t *testing.T) {
		sender := new(MockEmailSender)
		sender.On("Enabled").Return(false)
		res := NewService(sender, nil, nil).SendEmail(ctx, req)
		assert.Equal(t, "FAILED", res.Status)
		assert.Equal(t, "email integration disabled", res.Error)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("nil sender is disabled", func(t *testing.T) {
		res := NewService(nil, nil, nil).SendEmail(ctx, req)
		assert.Equal(t, "FAILED", res.Status)
	})

	t.Run("success", func(t *testing.T) {
		sender := new(MockEmailSender)
		sender.On("Enabled").Return(true)
		sender.On("Send", ctx, mock.MatchedBy(func(m integration.EmailMessage) bool {
			return m.Subject == "Hello" && m.To[0] == "ops@example.com"
		})).Return(nil)
		res := NewService(sender, nil, nil).SendEmail(ctx, req)
		assert.Equal(t, "SUCCESS", res.Status)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		sender := new(MockEmailSender)
		sender.On("Enabled").Return(true)
		sender.On("Send", ctx, mock.Anything).Return(errors.New("connection refused"))
		res := NewService(sender, nil, nil).SendEmail(ctx, req)
		assert.Equal(t, "FAILED", res.Status)
		assert.Equal(t, "connection refused", res.Error)
	})
}

func TestService_SendWebhook(t *testing.T) {
	ctx := context.Background()
	req := SendWebhookRequest{URL: "https://hooks.example.com/x", Payload: map[string]any{"a": 1}}

	t.Run("2xx succeeds", func(t *testing.T) {
		caller := new(MockWebhookCaller)
		caller.On("Call", ctx, mock.Anything).Return(&integration.WebhookResponse{HTTPStatus: 201, Body: "ok"}, nil)
		res := NewService(nil, caller, nil).SendWebhook(ctx, req)
		assert.Equal(t, "SUCCESS", res.Status)
		assert.Equal(t, 201, res.HTTPStatus)
		assert.Equal(t, "ok", res.Response)
	})

	t.Run("non-2xx fails with status", func(t *testing.T) {
		caller := new(MockWebhookCaller)
		caller.On("Call", ctx, mock.Anything).Return(&integration.WebhookResponse{HTTPStatus: 502, Body: "bad gateway"}, nil)
		res := NewService(nil, caller, nil).SendWebhook(ctx, req)
		assert.Equal(t, "FAILED", res.Status)
		assert.Equal(t, 502, res.HTTPStatus)
	})

	t.Run("unsupported method", func(t *testing.T) {
		caller := new(MockWebhookCaller)
		caller.On("Call", ctx, mock.Anything).Return(nil, integration.ErrUnsupportedMethod)
		res := NewService(nil, caller, nil).SendWebhook(ctx, SendWebhookRequest{URL: req.URL, Method: "DELETE"})
		assert.Equal(t, "FAILED", res.Status)
		assert.Contains(t, res.Error, "unsupported webhook method")
	})
}
