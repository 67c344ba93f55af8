package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/api/validators"
	"github.com/angelmondragon/propertyhub/internal/roles"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

func AdminRoles(svc roles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "roles")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		list, err := svc.List(r.Context(), actor)
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		responses.Render(w, r, http.StatusOK, "admin/roles.html", map[string]any{"roles": list})
	}
}

func AdminAddRolePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Render(w, r, http.StatusOK, "admin/add_role.html", map[string]any{})
	}
}

func AdminAddRole(svc roles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "roles")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		const formPath = "/admin/add_role"
		var body roles.RoleRequest
		if err := validators.DecodeForm(r, &body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		if _, err := svc.Create(r.Context(), actor, body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		adminSuccess(w, r, adminRolesPath, "Role added successfully")
	}
}

func AdminEditRolePage(svc roles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "roles")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		role, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.Fail(logg, w, r, err, adminRolesPath)
			return
		}
		responses.Render(w, r, http.StatusOK, "admin/edit_role.html", map[string]any{"role": role})
	}
}

func AdminEditRole(svc roles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "roles")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		formPath := fmt.Sprintf("/admin/edit_role/%d", id)
		var body roles.RoleRequest
		if err := validators.DecodeForm(r, &body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		if _, err := svc.Update(r.Context(), actor, id, body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		adminSuccess(w, r, adminRolesPath, "Role updated successfully")
	}
}

func AdminDeleteRole(svc roles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "roles")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.Fail(logg, w, r, err, adminRolesPath)
			return
		}
		adminSuccess(w, r, adminRolesPath, "Role deleted successfully")
	}
}
