package marketing

import (
	"regexp"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmailTemplate is a reusable email body with ${key} placeholders
type EmailTemplate struct {
	shared.BaseEntity
	TenantID uuid.UUID
	Name     string
	Subject  string
	Body     string
	Category string
	Active   bool
}

// EmailTemplateDetails carries the editable fields of a template
type EmailTemplateDetails struct {
	Name     string
	Subject  string
	Body     string
	Category string
	Active   *bool
}

// NewEmailTemplate creates an active template unless Active says otherwise
func NewEmailTemplate(tenantID uuid.UUID, d EmailTemplateDetails) (*EmailTemplate, error) {
	t := &EmailTemplate{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Active:     true,
	}
	if err := t.Update(d); err != nil {
		return nil, err
	}
	t.UpdatedAt = t.CreatedAt
	return t, nil
}

// Update replaces the editable fields; a nil Active keeps the current flag
func (t *EmailTemplate) Update(d EmailTemplateDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	t.Name = name
	t.Subject = d.Subject
	t.Body = d.Body
	t.Category = strings.TrimSpace(d.Category)
	if d.Active != nil {
		t.Active = *d.Active
	}
	t.UpdatedAt = timeNow()
	return nil
}

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_.]+)\}`)

// RenderedEmail is a template with its placeholders substituted
type RenderedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Render substitutes ${key} placeholders; unknown keys are left as-is
func (t *EmailTemplate) Render(values map[string]string) RenderedEmail {
	return RenderedEmail{
		Subject: RenderPlaceholders(t.Subject, values),
		Body:    RenderPlaceholders(t.Body, values),
	}
}

// RenderPlaceholders replaces ${key} occurrences in text with values[key]
func RenderPlaceholders(text string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		key := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := values[key]; ok {
			return v
		}
		return m
	})
}
