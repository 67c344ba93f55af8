package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"gorm.io/gorm"
)

const (
	msgNotFound      = "Role not found"
	msgAlreadyExists = "Role already exists"
	msgHasUsers      = "Cannot delete role with existing users"
)

// Service manages roles for the admin console.
type Service interface {
	List(ctx context.Context, actor rbac.Actor) ([]RoleDTO, error)
	Get(ctx context.Context, actor rbac.Actor, id uint) (*RoleDTO, error)
	Create(ctx context.Context, actor rbac.Actor, req RoleRequest) (*RoleDTO, error)
	Update(ctx context.Context, actor rbac.Actor, id uint, req RoleRequest) (*RoleDTO, error)
	Delete(ctx context.Context, actor rbac.Actor, id uint) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

type service struct {
	db txRunner
}

type ServiceParams struct {
	DB txRunner
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context, actor rbac.Actor) ([]RoleDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	list, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list roles")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, actor rbac.Actor, id uint) (*RoleDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	role, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	return FromModel(role), nil
}

func (s *service) Create(ctx context.Context, actor rbac.Actor, req RoleRequest) (*RoleDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	var out *RoleDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		roles := NewRepository(tx)
		if _, err := roles.FindByName(ctx, req.Name); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyExists)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check role name")
		}
		role := models.Role{Name: req.Name}
		rbac.SetGrants(&role, req.Grants())
		if err := roles.Create(ctx, &role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create role")
		}
		out = FromModel(&role)
		return nil
	})
	return out, err
}

// Update rewrites the name and all eight flags; unchecked boxes clear flags.
func (s *service) Update(ctx context.Context, actor rbac.Actor, id uint, req RoleRequest) (*RoleDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	roles := NewRepository(s.db.DB())
	role, err := roles.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	role.Name = req.Name
	rbac.SetGrants(role, req.Grants())
	if err := roles.Save(ctx, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}
	return FromModel(role), nil
}

func (s *service) Delete(ctx context.Context, actor rbac.Actor, id uint) error {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return err
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		roles := NewRepository(tx)
		if _, err := roles.FindByID(ctx, id); err != nil {
			return mapFindError(err)
		}
		users, err := roles.CountUsers(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count role users")
		}
		if users > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, msgHasUsers).WithDetails(map[string]any{"users": users})
		}
		if err := roles.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete role")
		}
		return nil
	})
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load role")
}
