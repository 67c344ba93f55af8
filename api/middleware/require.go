package middleware

import (
	"net/http"

	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ActorFromContext(r.Context()); !ok {
				responses.RedirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability rejects actors whose role lacks capability.
func RequireCapability(capability enums.Capability, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				responses.RedirectToLogin(w, r)
				return
			}
			if !actor.Can(capability) {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "capability", capability.String())
					logg.Warn(ctx, "authz.denied")
				}
				responses.RedirectWithFlash(w, r, responses.DashboardPath, enums.SeverityDanger, responses.MsgNoPermission)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnonymous bounces signed-in users to the dashboard.
func RequireAnonymous() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ActorFromContext(r.Context()); ok {
				responses.Redirect(w, r, responses.DashboardPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
