package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/propertyhub/api/middleware"
	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/api/validators"
	"github.com/angelmondragon/propertyhub/internal/auth"
	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

const (
	registerPath = "/register"

	msgLoggedIn   = "You have been logged in successfully"
	msgLoggedOut  = "You have been logged out"
	msgRegistered = "Account created successfully! You can now sign in"
)

// SessionRotator issues a fresh session id when the principal changes.
type SessionRotator interface {
	Rotate(ctx context.Context, st *session.State) error
}

// Index sends visitors to the dashboard or the login page.
func Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.ActorFromContext(r.Context()); ok {
			responses.Redirect(w, r, responses.DashboardPath)
			return
		}
		responses.Redirect(w, r, responses.LoginPath)
	}
}

func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Render(w, r, http.StatusOK, "login.html", map[string]any{
			"next": r.URL.Query().Get("next"),
		})
	}
}

// AuthLogin verifies the posted credentials and binds the user to a freshly
// rotated session. A failed attempt re-renders the login page with the same
// message whatever the cause.
func AuthLogin(svc auth.Service, sessions SessionRotator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || sessions == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, ok := session.FromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session unavailable"))
			return
		}

		var body auth.LoginRequest
		err := validators.DecodeForm(r, &body)
		if err == nil {
			var result *auth.LoginResult
			result, err = svc.Login(r.Context(), body)
			if err == nil {
				if err := sessions.Rotate(r.Context(), st); err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session"))
					return
				}
				st.Bind(result.User.ID)
				if logg != nil {
					logg.Info(logg.WithUserID(r.Context(), result.User.ID), "auth.login")
				}
				next := validators.SafeRedirect(r.URL.Query().Get("next"), responses.DashboardPath)
				responses.RedirectWithFlash(w, r, next, enums.SeveritySuccess, msgLoggedIn)
				return
			}
		}

		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) || pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			responses.Flash(r, enums.SeverityDanger, auth.MsgLoginFailed)
			responses.Render(w, r, http.StatusOK, "login.html", map[string]any{
				"next": r.URL.Query().Get("next"),
			})
			return
		}
		responses.WriteError(r.Context(), logg, w, err)
	}
}

func RegisterPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Render(w, r, http.StatusOK, "register.html", map[string]any{})
	}
}

// AuthRegister creates an account and sends the visitor to sign in.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeForm(r, &body); err != nil {
			responses.Fail(logg, w, r, err, registerPath)
			return
		}
		if _, err := svc.Register(r.Context(), body); err != nil {
			responses.Fail(logg, w, r, err, registerPath)
			return
		}
		responses.RedirectWithFlash(w, r, responses.LoginPath, enums.SeveritySuccess, msgRegistered)
	}
}

// AuthLogout drops the identity but keeps a session to carry the notice.
func AuthLogout(sessions SessionRotator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := session.FromContext(r.Context())
		if ok {
			st.Clear()
			if sessions != nil {
				if err := sessions.Rotate(r.Context(), st); err != nil && logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "auth.logout_rotate_failed")
				}
			}
		}
		responses.RedirectWithFlash(w, r, responses.LoginPath, enums.SeverityInfo, msgLoggedOut)
	}
}
