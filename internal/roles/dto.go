package roles

import (
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
)

// RoleDTO is the view shape of a role with its capability table.
type RoleDTO struct {
	ID                    uint   `json:"id"`
	Name                  string `json:"name"`
	CanViewComplaints     bool   `json:"can_view_complaints"`
	CanManageComplaints   bool   `json:"can_manage_complaints"`
	CanViewRepairs        bool   `json:"can_view_repairs"`
	CanManageRepairs      bool   `json:"can_manage_repairs"`
	CanViewReplacements   bool   `json:"can_view_replacements"`
	CanManageReplacements bool   `json:"can_manage_replacements"`
	IsAdmin               bool   `json:"is_admin"`
	CanManageUsers        bool   `json:"can_manage_users"`
}

// RoleRequest is the admin add/edit form. Checkbox flags are true when present.
type RoleRequest struct {
	Name                  string `form:"name,required"`
	CanViewComplaints     bool   `form:"can_view_complaints"`
	CanManageComplaints   bool   `form:"can_manage_complaints"`
	CanViewRepairs        bool   `form:"can_view_repairs"`
	CanManageRepairs      bool   `form:"can_manage_repairs"`
	CanViewReplacements   bool   `form:"can_view_replacements"`
	CanManageReplacements bool   `form:"can_manage_replacements"`
	IsAdmin               bool   `form:"is_admin"`
	CanManageUsers        bool   `form:"can_manage_users"`
}

// Grants converts the checkbox set into a capability table.
func (r RoleRequest) Grants() map[enums.Capability]bool {
	return map[enums.Capability]bool{
		enums.CapabilityViewComplaints:     r.CanViewComplaints,
		enums.CapabilityManageComplaints:   r.CanManageComplaints,
		enums.CapabilityViewRepairs:        r.CanViewRepairs,
		enums.CapabilityManageRepairs:      r.CanManageRepairs,
		enums.CapabilityViewReplacements:   r.CanViewReplacements,
		enums.CapabilityManageReplacements: r.CanManageReplacements,
		enums.CapabilityAdmin:              r.IsAdmin,
		enums.CapabilityManageUsers:        r.CanManageUsers,
	}
}

func FromModel(role *models.Role) *RoleDTO {
	if role == nil {
		return nil
	}
	grants := rbac.Grants(role)
	return &RoleDTO{
		ID:                    role.ID,
		Name:                  role.Name,
		CanViewComplaints:     grants[enums.CapabilityViewComplaints],
		CanManageComplaints:   grants[enums.CapabilityManageComplaints],
		CanViewRepairs:        grants[enums.CapabilityViewRepairs],
		CanManageRepairs:      grants[enums.CapabilityManageRepairs],
		CanViewReplacements:   grants[enums.CapabilityViewReplacements],
		CanManageReplacements: grants[enums.CapabilityManageReplacements],
		IsAdmin:               grants[enums.CapabilityAdmin],
		CanManageUsers:        grants[enums.CapabilityManageUsers],
	}
}

func FromModels(list []models.Role) []RoleDTO {
	out := make([]RoleDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
