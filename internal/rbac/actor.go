package rbac

import (
	"fmt"

	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
)

// MsgNoPermission is shown whenever a capability check fails.
const MsgNoPermission = "You do not have permission to access this page."

// Actor is the request-scoped identity handed to services. It is rebuilt from
// storage on every request, so role and company changes apply immediately.
type Actor struct {
	UserID    uint
	CompanyID uint
	Name      string
	Email     string
	Role      models.Role
}

// NewActor builds an actor from a user loaded with its role.
func NewActor(user *models.User) (Actor, error) {
	if user == nil {
		return Actor{}, fmt.Errorf("user is required")
	}
	if user.Role == nil {
		return Actor{}, fmt.Errorf("user %d loaded without role", user.ID)
	}
	return Actor{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      *user.Role,
	}, nil
}

// Can reports whether the actor's role grants capability.
func (a Actor) Can(capability enums.Capability) bool {
	return Permitted(&a.Role, capability)
}

func (a Actor) IsAdmin() bool {
	return a.Can(enums.CapabilityAdmin)
}

// Require returns a forbidden error unless the actor's role grants capability.
func (a Actor) Require(capability enums.Capability) error {
	if a.Can(capability) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, MsgNoPermission).WithDetails(map[string]any{
		"capability": capability.String(),
		"role":       a.Role.Name,
	})
}
