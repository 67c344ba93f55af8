// Package seed creates the baseline company, roles and admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/propertyhub/internal/companies"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/roles"
	"github.com/angelmondragon/propertyhub/internal/users"
	"github.com/angelmondragon/propertyhub/pkg/config"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	"github.com/angelmondragon/propertyhub/pkg/logger"
	"github.com/angelmondragon/propertyhub/pkg/security"
	"gorm.io/gorm"
)

const AdminRoleName = "Admin"

// DefaultRoles is the fixed permission matrix, in creation order.
func DefaultRoles() []models.Role {
	return []models.Role{
		rbac.NewRole(AdminRoleName, enums.Capabilities()...),
		rbac.NewRole("Manager",
			enums.CapabilityViewComplaints, enums.CapabilityManageComplaints,
			enums.CapabilityViewRepairs, enums.CapabilityManageRepairs,
			enums.CapabilityViewReplacements, enums.CapabilityManageReplacements,
		),
		rbac.NewRole("Technician",
			enums.CapabilityViewComplaints,
			enums.CapabilityViewRepairs, enums.CapabilityManageRepairs,
		),
		rbac.NewRole("Cleaner",
			enums.CapabilityViewReplacements, enums.CapabilityManageReplacements,
		),
	}
}

// Result lists what a run created. Empty on a repeat run.
type Result struct {
	CompanyCreated bool
	RolesCreated   []string
	AdminCreated   bool
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Params bundles the seeding dependencies.
type Params struct {
	DB          txRunner
	Seed        config.SeedConfig
	PasswordCfg config.PasswordConfig
	Logger      *logger.Logger
}

// Run is check-then-create for every entity, so calling it on every start
// never duplicates rows.
func Run(ctx context.Context, params Params) (*Result, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	companyName := strings.TrimSpace(params.Seed.CompanyName)
	if companyName == "" {
		companyName = "Default Company"
	}

	result := &Result{}
	err := params.DB.WithTx(ctx, func(tx *gorm.DB) error {
		company, created, err := ensureCompany(ctx, companies.NewRepository(tx), companyName)
		if err != nil {
			return err
		}
		result.CompanyCreated = created

		roleRepo := roles.NewRepository(tx)
		var adminRole *models.Role
		for _, want := range DefaultRoles() {
			role, created, err := ensureRole(ctx, roleRepo, want)
			if err != nil {
				return err
			}
			if created {
				result.RolesCreated = append(result.RolesCreated, role.Name)
			}
			if role.Name == AdminRoleName {
				adminRole = role
			}
		}

		result.AdminCreated, err = ensureAdmin(ctx, params, users.NewRepository(tx), company, adminRole)
		return err
	})
	if err != nil {
		return nil, err
	}
	logResult(ctx, params.Logger, result)
	return result, nil
}

func ensureCompany(ctx context.Context, repo *companies.Repository, name string) (*models.Company, bool, error) {
	company, err := repo.FindByName(ctx, name)
	if err == nil {
		return company, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("load company %q: %w", name, err)
	}
	company, err = repo.Create(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("create company %q: %w", name, err)
	}
	return company, true, nil
}

// ensureRole leaves an existing role's flags untouched.
func ensureRole(ctx context.Context, repo *roles.Repository, want models.Role) (*models.Role, bool, error) {
	role, err := repo.FindByName(ctx, want.Name)
	if err == nil {
		return role, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("load role %q: %w", want.Name, err)
	}
	if err := repo.Create(ctx, &want); err != nil {
		return nil, false, fmt.Errorf("create role %q: %w", want.Name, err)
	}
	return &want, true, nil
}

func ensureAdmin(ctx context.Context, params Params, repo *users.Repository, company *models.Company, adminRole *models.Role) (bool, error) {
	admins, err := repo.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 || adminRole == nil {
		return false, nil
	}

	taken, err := repo.EmailTaken(ctx, params.Seed.AdminEmail, 0)
	if err != nil {
		return false, fmt.Errorf("check admin email: %w", err)
	}
	if taken {
		if params.Logger != nil {
			params.Logger.Warn(params.Logger.WithField(ctx, "email", params.Seed.AdminEmail), "seed.admin_email_taken")
		}
		return false, nil
	}

	hash, err := security.HashPassword(params.Seed.AdminPassword, params.PasswordCfg)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{
		Name:         params.Seed.AdminName,
		Email:        params.Seed.AdminEmail,
		PasswordHash: hash,
		CompanyID:    company.ID,
		RoleID:       adminRole.ID,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

func logResult(ctx context.Context, logg *logger.Logger, result *Result) {
	if logg == nil {
		return
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"company_created": result.CompanyCreated,
		"roles_created":   result.RolesCreated,
		"admin_created":   result.AdminCreated,
	})
	logg.Info(ctx, "seed.completed")
}
