package identity

import (
	"slices"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
)

// Role is one of the fixed CRM roles
type Role string

const (
	RoleAdmin     Role = "ROLE_ADMIN"
	RoleSales     Role = "ROLE_SALES"
	RoleMarketing Role = "ROLE_MARKETING"
	RoleSupport   Role = "ROLE_SUPPORT"
	RoleUser      Role = "ROLE_USER"
)

// Permission codes in resource:action form
const (
	PermCustomerRead     = "customer:read"
	PermCustomerWrite    = "customer:write"
	PermLeadRead         = "lead:read"
	PermLeadWrite        = "lead:write"
	PermDealRead         = "deal:read"
	PermDealWrite        = "deal:write"
	PermTicketRead       = "ticket:read"
	PermTicketWrite      = "ticket:write"
	PermCampaignRead     = "campaign:read"
	PermCampaignWrite    = "campaign:write"
	PermNotificationRead = "notification:read"
	PermIntegrationUse   = "integration:use"
	PermAnalyticsRead    = "analytics:read"
	PermReportWrite      = "report:write"
	PermWorkflowRead     = "workflow:read"
	PermWorkflowManage   = "workflow:manage"
	PermUserRead         = "user:read"
	PermUserManage       = "user:manage"
)

// AllPermissions lists every permission known to the system
var AllPermissions = []string{
	PermCustomerRead, PermCustomerWrite,
	PermLeadRead, PermLeadWrite,
	PermDealRead, PermDealWrite,
	PermTicketRead, PermTicketWrite,
	PermCampaignRead, PermCampaignWrite,
	PermNotificationRead, PermIntegrationUse,
	PermAnalyticsRead, PermReportWrite,
	PermWorkflowRead, PermWorkflowManage,
	PermUserRead, PermUserManage,
}

var rolePermissions = map[Role][]string{
	RoleAdmin: AllPermissions,
	RoleSales: {
		PermCustomerRead, PermCustomerWrite, PermLeadRead, PermLeadWrite,
		PermDealRead, PermDealWrite, PermNotificationRead, PermAnalyticsRead, PermWorkflowRead,
	},
	RoleMarketing: {
		PermCustomerRead, PermLeadRead, PermLeadWrite, PermCampaignRead, PermCampaignWrite,
		PermNotificationRead, PermIntegrationUse, PermAnalyticsRead, PermReportWrite,
	},
	RoleSupport: {
		PermCustomerRead, PermTicketRead, PermTicketWrite, PermNotificationRead, PermIntegrationUse,
	},
	RoleUser: {
		PermCustomerRead, PermLeadRead, PermDealRead, PermTicketRead, PermCampaignRead,
		PermNotificationRead,
	},
}

// AllRoles lists the fixed roles
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleSales, RoleMarketing, RoleSupport, RoleUser}
}

// ParseRole accepts "ROLE_SALES" as well as "sales"
func ParseRole(s string) (Role, error) {
	r := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(r, "ROLE_") {
		r = "ROLE_" + r
	}
	if _, ok := rolePermissions[Role(r)]; !ok {
		return "", shared.NewDomainError("INVALID_ROLE", "Unknown role: "+s)
	}
	return Role(r), nil
}

// Permissions returns the permission set granted by the role
func (r Role) Permissions() []string {
	return rolePermissions[r]
}

// PermissionsFor merges the permission sets of roles, sorted and deduplicated
func PermissionsFor(roles []Role) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range roles {
		for _, p := range r.Permissions() {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}
