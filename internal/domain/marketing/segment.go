package marketing

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var timeNow = time.Now

// Segment is a named audience defined by attribute criteria
type Segment struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	Name        string
	Description string
	Criteria    string
	MemberCount int64
}

// NewSegment creates a segment after checking its criteria parse
func NewSegment(tenantID uuid.UUID, name, description, criteria string) (*Segment, error) {
	s := &Segment{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
	}
	if err := s.Update(name, description, criteria); err != nil {
		return nil, err
	}
	s.UpdatedAt = s.CreatedAt
	return s, nil
}

// Update replaces the segment definition
func (s *Segment) Update(name, description, criteria string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Segment name cannot be empty")
	}
	if _, err := ParseCriteria(criteria); err != nil {
		return err
	}
	s.Name = name
	s.Description = description
	s.Criteria = strings.TrimSpace(criteria)
	s.UpdatedAt = timeNow()
	return nil
}

// SetMemberCount stores the result of the latest evaluation
func (s *Segment) SetMemberCount(n int64) {
	s.MemberCount = n
	s.UpdatedAt = timeNow()
}

// Clause is one field=value condition
type Clause struct {
	Field string
	Value string
}

// Criteria is a conjunction of clauses; empty criteria match everything
type Criteria []Clause

// AttributeSource exposes record attributes by name
type AttributeSource interface {
	Attribute(name string) (string, bool)
}

var andSeparator = regexp.MustCompile(`(?i)\s+AND\s+`)

// SegmentFields are the customer attributes criteria may reference
var SegmentFields = map[string]bool{
	"status":    true,
	"city":      true,
	"state":     true,
	"country":   true,
	"company":   true,
	"source":    true,
	"job_title": true,
	"jobtitle":  true,
}

// ParseCriteria parses "field=value AND field=value"
func ParseCriteria(expr string) (Criteria, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	parts := andSeparator.Split(expr, -1)
	criteria := make(Criteria, 0, len(parts))
	for _, part := range parts {
		field, value, ok := strings.Cut(part, "=")
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.Trim(strings.TrimSpace(value), `'"`)
		if !ok || field == "" {
			return nil, shared.NewDomainError("INVALID_CRITERIA", "Invalid segment clause: "+strings.TrimSpace(part))
		}
		if !SegmentFields[field] {
			return nil, shared.NewDomainError("INVALID_CRITERIA", "Unsupported segment field: "+field)
		}
		criteria = append(criteria, Clause{Field: field, Value: value})
	}
	return criteria, nil
}

// Matches reports whether every clause matches the record, comparing case-insensitively
func (c Criteria) Matches(src AttributeSource) bool {
	for _, clause := range c {
		v, ok := src.Attribute(clause.Field)
		if !ok || !strings.EqualFold(v, clause.Value) {
			return false
		}
	}
	return true
}
