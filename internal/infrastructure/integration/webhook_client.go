package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultWebhookTimeout   = 10 * time.Second
	defaultMaxResponseBytes = 64 * 1024
)

// WebhookClient calls external HTTP endpoints with a JSON body
type WebhookClient struct {
	httpClient       *http.Client
	maxResponseBytes int64
	logger           *zap.Logger
}

// NewWebhookClient creates a webhook client from configuration
func NewWebhookClient(cfg config.WebhookConfig, logger *zap.Logger) *WebhookClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}
	return &WebhookClient{
		httpClient:       &http.Client{Timeout: timeout},
		maxResponseBytes: maxBytes,
		logger:           logger,
	}
}

// Call sends the request. Non-2xx responses are returned without error;
// callers decide whether that is a failure.
func (c *WebhookClient) Call(ctx context.Context, in domain.WebhookRequest) (*domain.WebhookResponse, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	var body io.Reader
	if in.Method != http.MethodGet && in.Payload != nil {
		raw, err := json.Marshal(in.Payload)
		if err != nil {
			return nil, fmt.Errorf("webhook: failed to encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, in.Method, in.URL, body)
	if err != nil {
		return nil, fmt.Errorf("webhook: failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("webhook call failed", zap.String("url", in.URL), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrWebhookRequestFailed, err)
	}
	defer resp.Body.Close()

	// Read one byte past the limit to detect truncation.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("webhook: failed to read response: %w", err)
	}
	out := &domain.WebhookResponse{HTTPStatus: resp.StatusCode}
	if int64(len(respBody)) > c.maxResponseBytes {
		respBody = respBody[:c.maxResponseBytes]
		out.Truncated = true
	}
	out.Body = string(respBody)

	c.logger.Info("webhook called",
		zap.String("method", in.Method),
		zap.String("url", in.URL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return out, nil
}

var _ domain.WebhookCaller = (*WebhookClient)(nil)
