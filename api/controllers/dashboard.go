package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/propertyhub/api/middleware"
	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/workitems"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

// DashboardService lists the work items the actor may view.
type DashboardService interface {
	Dashboard(ctx context.Context, actor rbac.Actor) (*workitems.Dashboard, error)
}

// Dashboard renders the caller's company work items.
func Dashboard(svc DashboardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "work item service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.RedirectToLogin(w, r)
			return
		}

		dash, err := svc.Dashboard(r.Context(), actor)
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		responses.Render(w, r, http.StatusOK, "dashboard.html", map[string]any{
			"user":         actorView(actor),
			"complaints":   dash.Complaints,
			"repairs":      dash.Repairs,
			"replacements": dash.Replacements,
		})
	}
}

// actorView is the current_user shape templates read.
func actorView(actor rbac.Actor) map[string]any {
	return map[string]any{
		"id":          actor.UserID,
		"name":        actor.Name,
		"email":       actor.Email,
		"company_id":  actor.CompanyID,
		"role":        actor.Role.Name,
		"is_admin":    actor.IsAdmin(),
		"permissions": rbac.Grants(&actor.Role),
	}
}
