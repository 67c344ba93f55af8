// Package rbac decides whether a role grants a capability.
package rbac

import (
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
)

// Permitted reports whether role grants capability. Unknown capabilities and a
// nil role are never permitted.
func Permitted(role *models.Role, capability enums.Capability) bool {
	if role == nil {
		return false
	}
	switch capability {
	case enums.CapabilityViewComplaints:
		return role.CanViewComplaints
	case enums.CapabilityManageComplaints:
		return role.CanManageComplaints
	case enums.CapabilityViewRepairs:
		return role.CanViewRepairs
	case enums.CapabilityManageRepairs:
		return role.CanManageRepairs
	case enums.CapabilityViewReplacements:
		return role.CanViewReplacements
	case enums.CapabilityManageReplacements:
		return role.CanManageReplacements
	case enums.CapabilityAdmin:
		return role.IsAdmin
	case enums.CapabilityManageUsers:
		return role.CanManageUsers
	}
	return false
}

// PermittedByName is the name-keyed form of Permitted, taking a flag name
// such as "can_manage_repairs". Any name that is not a known capability is
// false.
func PermittedByName(role *models.Role, name string) bool {
	capability, err := enums.ParseCapability(name)
	if err != nil {
		return false
	}
	return Permitted(role, capability)
}

// Grants returns the role's full capability table.
func Grants(role *models.Role) map[enums.Capability]bool {
	out := make(map[enums.Capability]bool, len(enums.Capabilities()))
	for _, capability := range enums.Capabilities() {
		out[capability] = Permitted(role, capability)
	}
	return out
}

// SetGrants overwrites every flag on role; capabilities absent from granted
// are cleared.
func SetGrants(role *models.Role, granted map[enums.Capability]bool) {
	if role == nil {
		return
	}
	role.CanViewComplaints = granted[enums.CapabilityViewComplaints]
	role.CanManageComplaints = granted[enums.CapabilityManageComplaints]
	role.CanViewRepairs = granted[enums.CapabilityViewRepairs]
	role.CanManageRepairs = granted[enums.CapabilityManageRepairs]
	role.CanViewReplacements = granted[enums.CapabilityViewReplacements]
	role.CanManageReplacements = granted[enums.CapabilityManageReplacements]
	role.IsAdmin = granted[enums.CapabilityAdmin]
	role.CanManageUsers = granted[enums.CapabilityManageUsers]
}

// NewRole builds an unsaved role granting exactly the listed capabilities.
func NewRole(name string, capabilities ...enums.Capability) models.Role {
	granted := make(map[enums.Capability]bool, len(capabilities))
	for _, capability := range capabilities {
		granted[capability] = true
	}
	role := models.Role{Name: name}
	SetGrants(&role, granted)
	return role
}

// IsAdmin is the computed admin flag of a user: a pass-through to its role.
func IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	return Permitted(user.Role, enums.CapabilityAdmin)
}
