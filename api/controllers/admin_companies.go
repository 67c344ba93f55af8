package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/api/validators"
	"github.com/angelmondragon/propertyhub/internal/companies"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

func AdminCompanies(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "companies")
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
		responses.Render(w, r, http.StatusOK, "admin/companies.html", map[string]any{"companies": list})
	}
}

func AdminAddCompanyPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Render(w, r, http.StatusOK, "admin/add_company.html", map[string]any{})
	}
}

func AdminAddCompany(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "companies")
			return
		}
		actor, ok := adminActor(w, r)
		if !ok {
			return
		}
		const formPath = "/admin/add_company"
		var body companies.CompanyRequest
		if err := validators.DecodeForm(r, &body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		if _, err := svc.Create(r.Context(), actor, body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		adminSuccess(w, r, adminCompaniesPath, "Company added successfully")
	}
}

func AdminEditCompanyPage(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "companies")
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
		company, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.Fail(logg, w, r, err, adminCompaniesPath)
			return
		}
		responses.Render(w, r, http.StatusOK, "admin/edit_company.html", map[string]any{"company": company})
	}
}

func AdminEditCompany(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "companies")
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
		formPath := fmt.Sprintf("/admin/edit_company/%d", id)
		var body companies.CompanyRequest
		if err := validators.DecodeForm(r, &body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		if _, err := svc.Update(r.Context(), actor, id, body); err != nil {
			responses.Fail(logg, w, r, err, formPath)
			return
		}
		adminSuccess(w, r, adminCompaniesPath, "Company updated successfully")
	}
}

func AdminDeleteCompany(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "companies")
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
			responses.Fail(logg, w, r, err, adminCompaniesPath)
			return
		}
		adminSuccess(w, r, adminCompaniesPath, "Company deleted successfully")
	}
}
