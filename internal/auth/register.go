package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/propertyhub/internal/companies"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/roles"
	"github.com/angelmondragon/propertyhub/internal/users"
	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/security"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Default Company"
	preferredRoleName  = "Manager"
	fallbackRoleName   = "User"
)

// Register creates a self-service account. New users join the first company
// and the Manager role, or the closest non-admin substitute. Registration
// never grants admin.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgPasswordsMismatch)
	}
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "password is required")
	}

	var created *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		taken, err := userRepo.EmailTaken(ctx, req.Email, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, MsgEmailRegistered)
		}

		company, err := s.defaultCompany(ctx, companies.NewRepository(tx))
		if err != nil {
			return err
		}
		role, err := defaultRole(ctx, roles.NewRepository(tx))
		if err != nil {
			return err
		}

		user := &models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			CompanyID:    company.ID,
			RoleID:       role.ID,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "email") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, MsgEmailRegistered)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		user.Company, user.Role = company, role
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users.FromModel(created), nil
}

func (s *service) defaultCompany(ctx context.Context, repo *companies.Repository) (*models.Company, error) {
	company, err := repo.First(ctx)
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default company")
	}
	name := strings.TrimSpace(s.seedCfg.CompanyName)
	if name == "" {
		name = defaultCompanyName
	}
	company, err = repo.Create(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create default company")
	}
	return company, nil
}

func defaultRole(ctx context.Context, repo *roles.Repository) (*models.Role, error) {
	role, err := repo.FindByName(ctx, preferredRoleName)
	if err == nil && !role.IsAdmin {
		return role, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load manager role")
	}

	role, err = repo.FirstNonAdmin(ctx)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load fallback role")
	}

	baseline := rbac.NewRole(fallbackRoleName,
		enums.CapabilityViewComplaints,
		enums.CapabilityViewRepairs,
		enums.CapabilityViewReplacements,
	)
	if err := repo.Create(ctx, &baseline); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create baseline role")
	}
	return &baseline, nil
}
