package middleware

import (
	"context"

	"github.com/angelmondragon/propertyhub/internal/rbac"
)

type contextKey string

const ctxActor contextKey = "actor"

// WithActor injects the authenticated actor into the context.
func WithActor(ctx context.Context, actor rbac.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorFromContext returns the authenticated actor, if the request has one.
func ActorFromContext(ctx context.Context) (rbac.Actor, bool) {
	if ctx == nil {
		return rbac.Actor{}, false
	}
	actor, ok := ctx.Value(ctxActor).(rbac.Actor)
	return actor, ok
}
