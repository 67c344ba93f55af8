package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/config"
	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/security"
	"gorm.io/gorm"
)

const (
	msgNotFound       = "User not found"
	msgEmailTaken     = "Email already registered"
	msgSelfDelete     = "You cannot delete your own account"
	msgUnknownCompany = "Selected company does not exist"
	msgUnknownRole    = "Selected role does not exist"
)

// Service is the admin console's user management surface. It spans all
// companies.
type Service interface {
	List(ctx context.Context, actor rbac.Actor) ([]UserDTO, error)
	Get(ctx context.Context, actor rbac.Actor, id uint) (*UserDTO, error)
	Create(ctx context.Context, actor rbac.Actor, req CreateUserRequest) (*UserDTO, error)
	Update(ctx context.Context, actor rbac.Actor, id uint, req UpdateUserRequest) (*UserDTO, error)
	Delete(ctx context.Context, actor rbac.Actor, id uint) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

type service struct {
	db          txRunner
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a user service.
type ServiceParams struct {
	DB          txRunner
	PasswordCfg config.PasswordConfig
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB, passwordCfg: params.PasswordCfg}, nil
}

func (s *service) List(ctx context.Context, actor rbac.Actor) ([]UserDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	list, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, actor rbac.Actor, id uint) (*UserDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	user, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	return FromModel(user), nil
}

func (s *service) Create(ctx context.Context, actor rbac.Actor, req CreateUserRequest) (*UserDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "password is required")
	}

	var created *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		users := NewRepository(tx)
		if err := checkEmailFree(ctx, users, req.Email, 0); err != nil {
			return err
		}
		if err := checkReferences(ctx, users, req.CompanyID, req.RoleID); err != nil {
			return err
		}
		user := &models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			CompanyID:    req.CompanyID,
			RoleID:       req.RoleID,
		}
		if err := users.Create(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "email") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgEmailTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		reloaded, err := users.FindByID(ctx, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		created = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

// Update overwrites name, email, company and role. The password changes only
// when a non-blank one is submitted.
func (s *service) Update(ctx context.Context, actor rbac.Actor, id uint, req UpdateUserRequest) (*UserDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	var hash string
	if strings.TrimSpace(req.Password) != "" {
		var err error
		if hash, err = security.HashPassword(req.Password, s.passwordCfg); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
	}

	var updated *models.User
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		users := NewRepository(tx)
		user, err := users.FindByID(ctx, id)
		if err != nil {
			return mapFindError(err)
		}
		if req.Email != user.Email {
			if err := checkEmailFree(ctx, users, req.Email, id); err != nil {
				return err
			}
		}
		if err := checkReferences(ctx, users, req.CompanyID, req.RoleID); err != nil {
			return err
		}

		user.Name = req.Name
		user.Email = req.Email
		user.CompanyID = req.CompanyID
		user.RoleID = req.RoleID
		if hash != "" {
			user.PasswordHash = hash
		}
		user.Company, user.Role = nil, nil
		if err := users.Save(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "email") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgEmailTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
		}
		updated, err = users.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Delete removes a user's row. The acting admin cannot remove themselves.
// Work items they authored stay in place.
func (s *service) Delete(ctx context.Context, actor rbac.Actor, id uint) error {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return err
	}
	users := NewRepository(s.db.DB())
	if _, err := users.FindByID(ctx, id); err != nil {
		return mapFindError(err)
	}
	if id == actor.UserID {
		return pkgerrors.New(pkgerrors.CodeValidation, msgSelfDelete)
	}
	if err := users.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func checkEmailFree(ctx context.Context, users *Repository, email string, exceptID uint) error {
	taken, err := users.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, msgEmailTaken)
	}
	return nil
}

func checkReferences(ctx context.Context, users *Repository, companyID, roleID uint) error {
	ok, err := users.Exists(ctx, &models.Company{}, "id = ?", companyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check company")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, msgUnknownCompany)
	}
	ok, err = users.Exists(ctx, &models.Role{}, "id = ?", roleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check role")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, msgUnknownRole)
	}
	return nil
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
}
