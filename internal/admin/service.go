// Package admin assembles the cross-tenant overview shown on /admin.
package admin

import (
	"context"
	"fmt"

	"github.com/angelmondragon/propertyhub/internal/companies"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/repo"
	"github.com/angelmondragon/propertyhub/internal/roles"
	"github.com/angelmondragon/propertyhub/internal/users"
	"github.com/angelmondragon/propertyhub/internal/workitems"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"gorm.io/gorm"
)

// CompanyStats counts what belongs to one company.
type CompanyStats struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Users        int64  `json:"users"`
	Complaints   int64  `json:"complaints"`
	Repairs      int64  `json:"repairs"`
	Replacements int64  `json:"replacements"`
}

type Dashboard struct {
	Users        []users.UserDTO         `json:"users"`
	Companies    []companies.CompanyDTO  `json:"companies"`
	Roles        []roles.RoleDTO         `json:"roles"`
	Complaints   []workitems.WorkItemDTO `json:"complaints"`
	Repairs      []workitems.WorkItemDTO `json:"repairs"`
	Replacements []workitems.WorkItemDTO `json:"replacements"`
	CompanyStats []CompanyStats          `json:"company_stats"`
}

type Service interface {
	Dashboard(ctx context.Context, actor rbac.Actor) (*Dashboard, error)
}

type dbProvider interface {
	DB() *gorm.DB
}

type service struct {
	db        dbProvider
	users     users.Service
	companies companies.Service
	roles     roles.Service
	workItems *workitems.Services
}

type ServiceParams struct {
	DB        dbProvider
	Users     users.Service
	Companies companies.Service
	Roles     roles.Service
	WorkItems *workitems.Services
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.DB == nil:
		return nil, fmt.Errorf("database client is required")
	case params.Users == nil:
		return nil, fmt.Errorf("users service is required")
	case params.Companies == nil:
		return nil, fmt.Errorf("companies service is required")
	case params.Roles == nil:
		return nil, fmt.Errorf("roles service is required")
	case params.WorkItems == nil:
		return nil, fmt.Errorf("work item services are required")
	}
	return &service{
		db:        params.DB,
		users:     params.Users,
		companies: params.Companies,
		roles:     params.Roles,
		workItems: params.WorkItems,
	}, nil
}

func (s *service) Dashboard(ctx context.Context, actor rbac.Actor) (*Dashboard, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	var (
		out Dashboard
		err error
	)
	if out.Users, err = s.users.List(ctx, actor); err != nil {
		return nil, err
	}
	if out.Companies, err = s.companies.List(ctx, actor); err != nil {
		return nil, err
	}
	if out.Roles, err = s.roles.List(ctx, actor); err != nil {
		return nil, err
	}
	if out.Complaints, err = s.workItems.Complaints.ListAll(ctx, actor); err != nil {
		return nil, err
	}
	if out.Repairs, err = s.workItems.Repairs.ListAll(ctx, actor); err != nil {
		return nil, err
	}
	if out.Replacements, err = s.workItems.Replacements.ListAll(ctx, actor); err != nil {
		return nil, err
	}
	if out.CompanyStats, err = s.companyStats(ctx, out.Companies); err != nil {
		return nil, err
	}
	return &out, nil
}

// companyStats issues one grouped count per table rather than one per company.
func (s *service) companyStats(ctx context.Context, list []companies.CompanyDTO) ([]CompanyStats, error) {
	base := repo.NewBase(s.db.DB())
	counts := make([]map[uint]int64, 0, 4)
	for _, model := range []any{&models.User{}, &models.Complaint{}, &models.Repair{}, &models.Replacement{}} {
		byCompany, err := base.CountBy(ctx, model, "company_id")
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count by company")
		}
		counts = append(counts, byCompany)
	}

	stats := make([]CompanyStats, 0, len(list))
	for _, company := range list {
		stats = append(stats, CompanyStats{
			ID:           company.ID,
			Name:         company.Name,
			Users:        counts[0][company.ID],
			Complaints:   counts[1][company.ID],
			Repairs:      counts[2][company.ID],
			Replacements: counts[3][company.ID],
		})
	}
	return stats, nil
}
