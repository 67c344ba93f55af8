package enums

import "fmt"

// Capability names one boolean permission flag on a role.
type Capability string

const (
	CapabilityViewComplaints     Capability = "can_view_complaints"
	CapabilityManageComplaints   Capability = "can_manage_complaints"
	CapabilityViewRepairs        Capability = "can_view_repairs"
	CapabilityManageRepairs      Capability = "can_manage_repairs"
	CapabilityViewReplacements   Capability = "can_view_replacements"
	CapabilityManageReplacements Capability = "can_manage_replacements"
	CapabilityAdmin              Capability = "is_admin"
	CapabilityManageUsers        Capability = "can_manage_users"
)

var validCapabilities = []Capability{
	CapabilityViewComplaints,
	CapabilityManageComplaints,
	CapabilityViewRepairs,
	CapabilityManageRepairs,
	CapabilityViewReplacements,
	CapabilityManageReplacements,
	CapabilityAdmin,
	CapabilityManageUsers,
}

// Capabilities returns every known capability in form order.
func Capabilities() []Capability {
	out := make([]Capability, len(validCapabilities))
	copy(out, validCapabilities)
	return out
}

// String implements fmt.Stringer.
func (c Capability) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Capability.
func (c Capability) IsValid() bool {
	for _, candidate := range validCapabilities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCapability converts raw input into a Capability.
func ParseCapability(value string) (Capability, error) {
	for _, candidate := range validCapabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid capability %q", value)
}
