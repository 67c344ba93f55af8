package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"gorm.io/gorm"
)

const (
	msgNotFound      = "Company not found"
	msgAlreadyExists = "Company already exists"
	msgHasUsers      = "Cannot delete company with existing users"
)

// Service is the admin console's company management surface. Every method
// requires an admin actor and operates across all tenants.
type Service interface {
	List(ctx context.Context, actor rbac.Actor) ([]CompanyDTO, error)
	Get(ctx context.Context, actor rbac.Actor, id uint) (*CompanyDTO, error)
	Create(ctx context.Context, actor rbac.Actor, req CompanyRequest) (*CompanyDTO, error)
	Update(ctx context.Context, actor rbac.Actor, id uint, req CompanyRequest) (*CompanyDTO, error)
	Delete(ctx context.Context, actor rbac.Actor, id uint) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

type service struct {
	db txRunner
}

// ServiceParams bundles the dependencies required to build a company service.
type ServiceParams struct {
	DB txRunner
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) repo() *Repository {
	return NewRepository(s.db.DB())
}

func (s *service) List(ctx context.Context, actor rbac.Actor) ([]CompanyDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	list, err := s.repo().List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list companies")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, actor rbac.Actor, id uint) (*CompanyDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	company, err := s.repo().FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	return FromModel(company), nil
}

// Create rejects a name already in use. Names are not unique in storage, so
// the check and insert share a transaction.
func (s *service) Create(ctx context.Context, actor rbac.Actor, req CompanyRequest) (*CompanyDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	var out *CompanyDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		companies := NewRepository(tx)
		if _, err := companies.FindByName(ctx, req.Name); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyExists)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check company name")
		}
		company, err := companies.Create(ctx, req.Name)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create company")
		}
		out = FromModel(company)
		return nil
	})
	return out, err
}

// Update renames a company. Renaming onto an existing name is allowed.
func (s *service) Update(ctx context.Context, actor rbac.Actor, id uint, req CompanyRequest) (*CompanyDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	companies := s.repo()
	company, err := companies.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	if err := companies.UpdateName(ctx, id, req.Name); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update company")
	}
	company.Name = req.Name
	return FromModel(company), nil
}

func (s *service) Delete(ctx context.Context, actor rbac.Actor, id uint) error {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return err
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		companies := NewRepository(tx)
		if _, err := companies.FindByID(ctx, id); err != nil {
			return mapFindError(err)
		}
		users, err := companies.CountUsers(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count company users")
		}
		if users > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, msgHasUsers).WithDetails(map[string]any{"users": users})
		}
		if err := companies.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete company")
		}
		return nil
	})
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load company")
}
