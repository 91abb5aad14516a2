package model

import (
	"context"

	"github.com/stride-hq/stride/pkg/domain/types"
)

// Actor is the already-validated acting identity supplied by the
// external identity collaborator. It is threaded explicitly through
// every workflow call; the core never resolves identity from ambient
// state.
type Actor struct {
	ID    int64
	Roles types.Roles
}

type actorCtxKey struct{}

// ContextWithActor attaches the acting identity to the context
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext retrieves the acting identity, or nil if none is
// attached
func ActorFromContext(ctx context.Context) *Actor {
	actor, ok := ctx.Value(actorCtxKey{}).(*Actor)
	if !ok {
		return nil
	}
	return actor
}
