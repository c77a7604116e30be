package workflow

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Condition is a numeric comparison of one payload field against a constant,
// written as {"field": "score", "operator": ">=", "value": 80}.
type Condition struct {
	Field    string
	Operator string
	Value    string
}

// Evaluate tells whether expr holds for data.
//
// An empty expression always holds and nil data never does. Expressions that
// mention field, operator and value are compared numerically; a missing field,
// a non-numeric side or an unknown operator do not hold. Any other expression
// holds.
func Evaluate(expr string, data map[string]any) bool {
	if strings.TrimSpace(expr) == "" {
		return true
	}
	if data == nil {
		return false
	}
	if !mentionsCondition(expr) {
		return true
	}
	cond, err := ParseCondition(expr)
	if err != nil {
		return false
	}
	return cond.Holds(data)
}

func mentionsCondition(expr string) bool {
	return strings.Contains(expr, "field") &&
		strings.Contains(expr, "operator") &&
		strings.Contains(expr, "value")
}

// ParseCondition decodes a JSON condition object
func ParseCondition(expr string) (Condition, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(expr), &raw); err != nil {
		return Condition{}, fmt.Errorf("parse condition: %w", err)
	}
	return Condition{
		Field:    scalarString(raw["field"]),
		Operator: strings.TrimSpace(scalarString(raw["operator"])),
		Value:    scalarString(raw["value"]),
	}, nil
}

// Holds compares data[Field] with Value
func (c Condition) Holds(data map[string]any) bool {
	actualRaw, ok := data[c.Field]
	if !ok || actualRaw == nil {
		return false
	}
	actual, err := strconv.ParseFloat(strings.TrimSpace(scalarString(actualRaw)), 64)
	if err != nil {
		return false
	}
	expected, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	if err != nil {
		return false
	}

	switch c.Operator {
	case ">=":
		return actual >= expected
	case "<=":
		return actual <= expected
	case ">":
		return actual > expected
	case "<":
		return actual < expected
	case "==":
		return actual == expected
	case "!=":
		return actual != expected
	default:
		return false
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
