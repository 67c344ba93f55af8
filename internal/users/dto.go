package users

import (
	"github.com/angelmondragon/propertyhub/pkg/db/models"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyID   uint   `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	RoleID      uint   `json:"role_id"`
	RoleName    string `json:"role_name,omitempty"`
	IsAdmin     bool   `json:"is_admin"`
}

// CreateUserRequest is the admin add-user form.
type CreateUserRequest struct {
	Name      string `form:"name,required"`
	Email     string `form:"email,required"`
	Password  string `form:"password,required"`
	CompanyID uint   `form:"company_id,required" validate:"gt=0"`
	RoleID    uint   `form:"role_id,required" validate:"gt=0"`
}

// UpdateUserRequest is the admin edit-user form. A blank password keeps the
// current one.
type UpdateUserRequest struct {
	Name      string `form:"name,required"`
	Email     string `form:"email,required"`
	Password  string `form:"password"`
	CompanyID uint   `form:"company_id,required" validate:"gt=0"`
	RoleID    uint   `form:"role_id,required" validate:"gt=0"`
}

// FromModel maps a user model to its DTO.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	dto := &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CompanyID: u.CompanyID,
		RoleID:    u.RoleID,
		IsAdmin:   u.IsAdmin(),
	}
	if u.Company != nil {
		dto.CompanyName = u.Company.Name
	}
	if u.Role != nil {
		dto.RoleName = u.Role.Name
	}
	return dto
}

func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
