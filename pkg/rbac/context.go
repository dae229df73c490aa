package rbac

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

type actorCtxKey struct{}

// WithActor stores the resolved actor id in the context.
func WithActor(ctx context.Context, actor int64) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor. ok is false when the
// context carries no actor or only Anonymous.
func ActorFromContext(ctx context.Context) (int64, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(int64)
	if !ok || actor == Anonymous {
		return Anonymous, false
	}
	return actor, true
}

// ActorExtractor adds "actor_id" to records logged with an actor context.
func ActorExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		actor, ok := ActorFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.ActorID(actor), true
	}
}
