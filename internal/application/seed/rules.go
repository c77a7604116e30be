package seed

import (
	"errors"
	"fmt"
	"io"

	workflowapp "github.com/crm/backend/internal/application/workflow"
	"gopkg.in/yaml.v3"
)

// RuleFile is the YAML layout accepted by LoadRules:
//
//	rules:
//	  - name: hot leads
//	    entity_type: LEAD
//	    trigger_event: CREATED
//	    condition: {field: score, operator: ">=", value: 80}
//	    action_type: SEND_NOTIFICATION
//	    action_params: {recipient: sales@example.com, type: EMAIL}
type RuleFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// RuleSpec is one rule; condition and action_params are structured in YAML
// and stored as JSON
type RuleSpec struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	EntityType   string         `yaml:"entity_type"`
	TriggerEvent string         `yaml:"trigger_event"`
	Condition    map[string]any `yaml:"condition"`
	ActionType   string         `yaml:"action_type"`
	ActionParams map[string]any `yaml:"action_params"`
	Active       *bool          `yaml:"active"`
	Priority     int            `yaml:"priority"`
}

// LoadRules decodes a rule file into create requests
func LoadRules(r io.Reader) ([]workflowapp.RuleRequest, error) {
	var file RuleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}

	out := make([]workflowapp.RuleRequest, 0, len(file.Rules))
	for i, spec := range file.Rules {
		if spec.Name == "" {
			return nil, fmt.Errorf("rule %d: name is required", i+1)
		}
		req := workflowapp.RuleRequest{
			Name:         spec.Name,
			Description:  spec.Description,
			EntityType:   spec.EntityType,
			TriggerEvent: spec.TriggerEvent,
			ActionType:   spec.ActionType,
			Active:       spec.Active,
			Priority:     spec.Priority,
		}
		var err error
		if req.ConditionExpression, err = toJSON(spec.Condition); err != nil {
			return nil, fmt.Errorf("rule %q: condition: %w", spec.Name, err)
		}
		if req.ActionParams, err = toJSON(spec.ActionParams); err != nil {
			return nil, fmt.Errorf("rule %q: action_params: %w", spec.Name, err)
		}
		out = append(out, req)
	}
	return out, nil
}
