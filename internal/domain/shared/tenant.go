package shared

import "github.com/google/uuid"

// DefaultTenantID is used when a request carries no tenant and for the seeded admin
var DefaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
