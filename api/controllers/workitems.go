package controllers

import (
	"net/http"

	"github.com/angelmondragon/propertyhub/api/middleware"
	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/api/validators"
	"github.com/angelmondragon/propertyhub/internal/workitems"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

// WorkItemAdd handles POST /add_{kind}.
func WorkItemAdd(svc workitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work item service unavailable"))
			return
		}
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.RedirectToLogin(w, r)
			return
		}

		if _, err := svc.Create(r.Context(), actor, formBinder(r)); err != nil {
			responses.Fail(logg, w, r, err, responses.DashboardPath)
			return
		}
		responses.RedirectWithFlash(w, r, responses.DashboardPath, enums.SeveritySuccess, svc.Kind().SuccessMessage("added"))
	}
}

// WorkItemUpdate handles POST /update_{kind}/{id}.
func WorkItemUpdate(svc workitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work item service unavailable"))
			return
		}
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.RedirectToLogin(w, r)
			return
		}
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}

		if _, err := svc.Update(r.Context(), actor, id, formBinder(r)); err != nil {
			responses.Fail(logg, w, r, err, responses.DashboardPath)
			return
		}
		responses.RedirectWithFlash(w, r, responses.DashboardPath, enums.SeveritySuccess, svc.Kind().SuccessMessage("updated"))
	}
}

// WorkItemDelete handles GET /delete_{kind}/{id}.
func WorkItemDelete(svc workitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work item service unavailable"))
			return
		}
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.RedirectToLogin(w, r)
			return
		}
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.Fail(logg, w, r, err, responses.DashboardPath)
			return
		}
		responses.RedirectWithFlash(w, r, responses.DashboardPath, enums.SeveritySuccess, svc.Kind().SuccessMessage("deleted"))
	}
}

func formBinder(r *http.Request) workitems.Binder {
	return func(req *workitems.Request) error {
		return validators.DecodeForm(r, req)
	}
}
