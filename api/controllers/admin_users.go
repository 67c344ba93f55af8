package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/api/validators"
	"github.com/angelmondragon/propertyhub/internal/companies"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/roles"
	"github.com/angelmondragon/propertyhub/internal/users"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

// UserFormOptions supplies the company and role choices of the user forms.
type UserFormOptions struct {
	Companies companies.Service
	Roles     roles.Service
}

func (o UserFormOptions) load(r *http.Request, actor rbac.Actor) (map[string]any, error) {
	companyList, err := o.Companies.List(r.Context(), actor)
	if err != nil {
		return nil, err
	}
	roleList, err := o.Roles.List(r.Context(), actor)
	if err != nil {
		return nil, err
	}
	return map[string]any{"companies": companyList, "roles": roleList}, nil
}

func (o UserFormOptions) ready() bool {
	return o.Companies != nil && o.Roles != nil
}

func AdminUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "users")
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
		responses.Render(w, r, http.StatusOK, "admin/users.html", map[string]any{"users": list})
	}
}

func AdminAddUserPage(opts UserFormOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !opts.ready() {
			unavailable(w, r, logg, "users")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		values, err := opts.load(r, actor)
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		responses.Render(w, r, http.StatusOK, "admin/add_user.html", values)
	}
}

func AdminAddUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "users")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		const formPath = "/admin/add_user"
		var body users.CreateUserRequest
		if err := validators.DecodeForm(r, &body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		if _, err := svc.Create(r.Context(), actor, body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		adminSuccess(w, r, adminUsersPath, "User added successfully")
	}
}

func AdminEditUserPage(svc users.Service, opts UserFormOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || !opts.ready() {
			unavailable(w, r, logg, "users")
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
		user, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.Fail(logg, w, r, err, adminUsersPath)
			return
		}
		values, err := opts.load(r, actor)
		if err != nil {
			responses.Fail(logg, w, r, err, "")
			return
		}
		values["user"] = user
		responses.Render(w, r, http.StatusOK, "admin/edit_user.html", values)
	}
}

func AdminEditUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "users")
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
		formPath := fmt.Sprintf("/admin/edit_user/%d", id)
		var body users.UpdateUserRequest
		if err := validators.DecodeForm(r, &body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		if _, err := svc.Update(r.Context(), actor, id, body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		adminSuccess(w, r, adminUsersPath, "User updated successfully")
	}
}

func AdminDeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "users")
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
			responses.Fail(logg, w, r, err, adminUsersPath)
			return
		}
		adminSuccess(w, r, adminUsersPath, "User deleted successfully")
	}
}
