package customer

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by email within a tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Customer, error)

	// FindAllForTenant lists customers for a tenant; Filters may carry "status"
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// SearchByName matches first or last name case-insensitively
	SearchByName(ctx context.Context, tenantID uuid.UUID, name string) ([]Customer, error)

	// FindByStatus lists customers with a given status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status CustomerStatus) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// DeleteForTenant deletes a customer within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts customers matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks email uniqueness, ignoring excludeID when set
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error)
}

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Lead, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Lead, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status LeadStatus) ([]Lead, error)
	FindByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]Lead, error)

	// FindHighScore returns leads with score >= minScore, best first
	FindHighScore(ctx context.Context, tenantID uuid.UUID, minScore int) ([]Lead, error)

	Save(ctx context.Context, lead *Lead) error

	// DeleteForTenant removes the lead together with its history
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// LeadHistoryRepository stores lead audit rows
type LeadHistoryRepository interface {
	Save(ctx context.Context, entries ...*LeadHistory) error

	// FindByLead returns the history of a lead, newest first
	FindByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]LeadHistory, error)
}

// ActivityRepository stores customer and lead activities
type ActivityRepository interface {
	// FindByCustomer returns activities for a customer, newest start time first
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]Activity, error)

	// FindByLead returns activities for a lead, newest start time first
	FindByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]Activity, error)

	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Activity, error)
	Save(ctx context.Context, activity *Activity) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// NoteRepository stores customer notes
type NoteRepository interface {
	// FindByCustomer returns notes for a customer, newest first
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]Note, error)

	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Note, error)
	Save(ctx context.Context, note *Note) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
