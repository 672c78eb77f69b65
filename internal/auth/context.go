package auth

import (
	"context"

	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// ActorFromContext returns the authenticated actor placed in the request
// context by AuthMiddleware. Handlers resolve the actor here once and pass
// it explicitly into services; nothing deeper reads request context.
func ActorFromContext(ctx context.Context) (*rbac.Actor, bool) {
	a, ok := ctx.Value(ContextActorKey).(*rbac.Actor)
	return a, ok
}

func ContextWithActor(ctx context.Context, actor *rbac.Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}
