package customer

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Note is free text attached to a customer
type Note struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	CustomerID uuid.UUID
	Content    string
	CreatedBy  string
}

// NewNote creates a note for a customer
func NewNote(tenantID, customerID uuid.UUID, content, createdBy string) (*Note, error) {
	content = strings.TrimSpace(content)
	if err := validateNoteContent(content); err != nil {
		return nil, err
	}
	return &Note{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		CustomerID: customerID,
		Content:    content,
		CreatedBy:  createdBy,
	}, nil
}

// UpdateContent replaces the note text
func (n *Note) UpdateContent(content string) error {
	content = strings.TrimSpace(content)
	if err := validateNoteContent(content); err != nil {
		return err
	}
	n.Content = content
	n.Stamp()
	return nil
}

func validateNoteContent(content string) error {
	if content == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Note content cannot be empty")
	}
	if len(content) > 10000 {
		return shared.NewDomainError("INVALID_CONTENT", "Note content cannot exceed 10000 characters")
	}
	return nil
}
