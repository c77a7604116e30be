package integration

// SendEmailRequest is a plain-text or HTML email to send
type SendEmailRequest struct {
	To      []string `json:"to" binding:"required,min=1,dive,email"`
	Cc      []string `json:"cc" binding:"omitempty,dive,email"`
	Bcc     []string `json:"bcc" binding:"omitempty,dive,email"`
	Subject string   `json:"subject" binding:"required,max=500"`
	Body    string   `json:"body"`
	HTML    bool     `json:"html"`
}

// EmailResult reports the outcome of an email send
type EmailResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendWebhookRequest is an outbound webhook call
type SendWebhookRequest struct {
	URL     string            `json:"url" binding:"required,url"`
	Method  string            `json:"method" binding:"omitempty,oneof=POST PUT GET post put get"`
	Headers map[string]string `json:"headers"`
	Payload any               `json:"payload"`
}

// WebhookResult reports the outcome of a webhook call
type WebhookResult struct {
	Status     string `json:"status"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Response   string `json:"response,omitempty"`
	Truncated  bool   `json:"truncated,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StatusResponse describes the integration capabilities
type StatusResponse struct {
	Service      string   `json:"service"`
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities"`
}
