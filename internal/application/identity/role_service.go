package identity

import "github.com/crm/backend/internal/domain/identity"

// RoleService exposes the fixed role catalogue
type RoleService struct{}

// NewRoleService creates a new role service
func NewRoleService() *RoleService {
	return &RoleService{}
}

// List returns every role with the permissions it grants
func (s *RoleService) List() []RoleResponse {
	roles := identity.AllRoles()
	out := make([]RoleResponse, len(roles))
	for i, r := range roles {
		out[i] = RoleResponse{Name: string(r), Permissions: r.Permissions()}
	}
	return out
}

// Permissions returns every known permission code
func (s *RoleService) Permissions() []string {
	return identity.PermissionsFor(identity.AllRoles())
}
