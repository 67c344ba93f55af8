package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/propertyhub/api/middleware"
	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/internal/admin"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/workitems"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

const (
	adminUsersPath     = "/admin/users"
	adminCompaniesPath = "/admin/companies"
	adminRolesPath     = "/admin/roles"
)

// adminActor resolves the acting admin or answers the request itself.
func adminActor(w http.ResponseWriter, r *http.Request) (rbac.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		responses.RedirectToLogin(w, r)
		return rbac.Actor{}, false
	}
	return actor, true
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}

// AdminDashboard renders the cross-tenant overview.
func AdminDashboard(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "admin")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		dash, err := svc.Dashboard(r.Context(), actor)
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		responses.Render(w, r, http.StatusOK, "admin/dashboard.html", map[string]any{
			"users":         dash.Users,
			"companies":     dash.Companies,
			"roles":         dash.Roles,
			"complaints":    dash.Complaints,
			"repairs":       dash.Repairs,
			"replacements":  dash.Replacements,
			"company_stats": dash.CompanyStats,
		})
	}
}

// AdminWorkItems lists one kind across every company.
func AdminWorkItems(svc workitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "work item")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		list, err := svc.ListAll(r.Context(), actor)
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		plural := svc.Kind().Name + "s"
		responses.Render(w, r, http.StatusOK, fmt.Sprintf("admin/%s.html", plural), map[string]any{
			plural: list,
		})
	}
}

func adminSuccess(w http.ResponseWriter, r *http.Request, target, message string) {
	responses.RedirectWithFlash(w, r, target, enums.SeveritySuccess, message)
}
