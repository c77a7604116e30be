package customer

import (
	"regexp"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CustomerStatus represents the lifecycle status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
	CustomerStatusProspect CustomerStatus = "PROSPECT"
)

// IsValid checks if the customer status is a known value
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusProspect:
		return true
	}
	return false
}

// ParseCustomerStatus normalizes and validates a status string
func ParseCustomerStatus(s string) (CustomerStatus, error) {
	status := CustomerStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Invalid customer status: "+s)
	}
	return status, nil
}

// Customer is a person the company does business with.
// Email is unique within a tenant.
type Customer struct {
	shared.TenantAggregateRoot
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	JobTitle  string
	Address   valueobject.Address
	Status    CustomerStatus
	Source    string
}

// CustomerDetails carries the mutable profile fields of a customer
type CustomerDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	JobTitle  string
	Address   valueobject.Address
	Source    string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewCustomer creates an ACTIVE customer
func NewCustomer(tenantID uuid.UUID, details CustomerDetails) (*Customer, error) {
	details = normalizeDetails(details)
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              CustomerStatusActive,
	}
	c.apply(details)
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// Update replaces the profile fields
func (c *Customer) Update(details CustomerDetails) error {
	details = normalizeDetails(details)
	if err := validateDetails(details); err != nil {
		return err
	}
	c.apply(details)
	c.Touch()
	c.AddDomainEvent(NewCustomerUpdatedEvent(c))
	return nil
}

// SetStatus changes the customer status
func (c *Customer) SetStatus(status CustomerStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid customer status: "+string(status))
	}
	if c.Status == status {
		return nil
	}
	c.Status = status
	c.Touch()
	return nil
}

// FullName returns "First Last"
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Attribute returns the value of a filterable attribute used by segment criteria.
// The second result is false for unknown attributes.
func (c *Customer) Attribute(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "status":
		return string(c.Status), true
	case "city":
		return c.Address.City, true
	case "state":
		return c.Address.State, true
	case "country":
		return c.Address.Country, true
	case "company":
		return c.Company, true
	case "source":
		return c.Source, true
	case "job_title", "jobtitle":
		return c.JobTitle, true
	}
	return "", false
}

func (c *Customer) apply(d CustomerDetails) {
	c.FirstName = d.FirstName
	c.LastName = d.LastName
	c.Email = d.Email
	c.Phone = d.Phone
	c.Company = d.Company
	c.JobTitle = d.JobTitle
	c.Address = d.Address
	c.Source = d.Source
}

func normalizeDetails(d CustomerDetails) CustomerDetails {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.Company = strings.TrimSpace(d.Company)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.Source = strings.TrimSpace(d.Source)
	return d
}

func validateDetails(d CustomerDetails) error {
	if d.FirstName == "" {
		return shared.NewDomainError("INVALID_FIRST_NAME", "First name cannot be empty")
	}
	if d.LastName == "" {
		return shared.NewDomainError("INVALID_LAST_NAME", "Last name cannot be empty")
	}
	if len(d.FirstName) > 100 || len(d.LastName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Names cannot exceed 100 characters")
	}
	return validateEmail(d.Email, true)
}

func validateEmail(email string, required bool) error {
	if email == "" {
		if required {
			return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
		}
		return nil
	}
	if len(email) > 200 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
