package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

// ActorLoader resolves the session's user id into a fresh actor.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID uint) (rbac.Actor, error)
}

// Identity reloads the session user on every request so role and company
// changes take effect immediately. A session pointing at a deleted user is
// downgraded to anonymous.
func Identity(loader ActorLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			state, ok := session.FromContext(ctx)
			if !ok || !state.Authenticated() {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := loader.LoadActor(ctx, state.UserID())
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					state.Clear()
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithActor(ctx, actor)
			if logg != nil {
				ctx = logg.WithUserID(ctx, actor.UserID)
				ctx = logg.WithCompanyID(ctx, actor.CompanyID)
				ctx = logg.WithActorRole(ctx, actor.Role.Name)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
