package valueobject

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
)

// Address is a postal address attached to customers and leads.
// All parts are optional; an address with no parts is empty.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

const maxAddressPartLength = 200

// NewAddress trims and validates the address parts
func NewAddress(street, city, state, country string) (Address, error) {
	addr := Address{
		Street:  strings.TrimSpace(street),
		City:    strings.TrimSpace(city),
		State:   strings.TrimSpace(state),
		Country: strings.TrimSpace(country),
	}
	for _, part := range []string{addr.Street, addr.City, addr.State, addr.Country} {
		if len(part) > maxAddressPartLength {
			return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Address parts cannot exceed 200 characters")
		}
	}
	return addr, nil
}

// IsEmpty returns true when no part of the address is set
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Country == ""
}

// String joins the non-empty parts with commas
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals compares two addresses case-insensitively
func (a Address) Equals(other Address) bool {
	return strings.EqualFold(a.Street, other.Street) &&
		strings.EqualFold(a.City, other.City) &&
		strings.EqualFold(a.State, other.State) &&
		strings.EqualFold(a.Country, other.Country)
}
