package workflow

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is a reusable action definition with a ${placeholder} payload template
type Action struct {
	shared.BaseEntity
	TenantID        uuid.UUID
	Name            string
	Description     string
	Type            string
	TargetService   string
	TargetEndpoint  string
	PayloadTemplate string
	Active          bool
}

// ActionDetails carries the fields of a new action
type ActionDetails struct {
	Name            string
	Description     string
	Type            string
	TargetService   string
	TargetEndpoint  string
	PayloadTemplate string
	Active          *bool
}

// NewAction creates an action definition, active by default
func NewAction(tenantID uuid.UUID, d ActionDetails) (*Action, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Action name cannot be empty")
	}
	a := &Action{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		Name:            name,
		Description:     d.Description,
		Type:            strings.ToUpper(strings.TrimSpace(d.Type)),
		TargetService:   d.TargetService,
		TargetEndpoint:  d.TargetEndpoint,
		PayloadTemplate: d.PayloadTemplate,
		Active:          true,
	}
	if d.Active != nil {
		a.Active = *d.Active
	}
	return a, nil
}
