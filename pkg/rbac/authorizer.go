package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

// Anonymous is the actor id of a request without a signed-in user.
const Anonymous int64 = 0

// ActorStore reads and writes the role assigned to an actor.
type ActorStore interface {
	// RoleOf returns the stored role. found is false when the actor does not exist.
	RoleOf(ctx context.Context, actor int64) (role string, found bool, err error)
	SetRole(ctx context.Context, actor int64, role string) error
}

// Authorizer answers permission questions about actors. It holds no mutable
// state; every call reads the actor's current role from the store.
type Authorizer struct {
	h     *Hierarchy
	store ActorStore
	log   *slog.Logger
}

// Option configures an Authorizer.
type Option func(*Authorizer)

// WithLogger sets the logger for store failures and denials.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authorizer) {
		if l != nil {
			a.log = l
		}
	}
}

func NewAuthorizer(h *Hierarchy, store ActorStore, opts ...Option) *Authorizer {
	a := &Authorizer{h: h, store: store, log: logger.Discard()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Hierarchy returns the role table the authorizer checks against.
func (a *Authorizer) Hierarchy() *Hierarchy {
	return a.h
}

// RoleOf resolves the actor's role. Anonymous and unknown actors, store
// failures and roles missing from the hierarchy all resolve to guest.
func (a *Authorizer) RoleOf(ctx context.Context, actor int64) string {
	if actor == Anonymous {
		return RoleGuest
	}

	role, found, err := a.store.RoleOf(ctx, actor)
	switch {
	case err != nil:
		a.log.ErrorContext(ctx, "failed to resolve actor role",
			logger.Error(err),
			logger.ActorID(actor),
			logger.Component("rbac"),
		)
		return RoleGuest
	case !found:
		return RoleGuest
	case !a.h.Valid(role):
		a.log.WarnContext(ctx, "actor has a role outside the hierarchy",
			logger.ActorID(actor),
			logger.Role(role),
			logger.Component("rbac"),
		)
		return RoleGuest
	}
	return role
}

// HasPermission reports whether the actor's role grants permission.
func (a *Authorizer) HasPermission(ctx context.Context, actor int64, permission string) bool {
	return a.h.RoleHasPermission(a.RoleOf(ctx, actor), permission)
}

// RequirePermission returns an error wrapping ErrAccessDenied unless the
// actor holds permission.
func (a *Authorizer) RequirePermission(ctx context.Context, actor int64, permission string) error {
	role := a.RoleOf(ctx, actor)
	if a.h.RoleHasPermission(role, permission) {
		return nil
	}
	a.log.InfoContext(ctx, "permission denied",
		logger.ActorID(actor),
		logger.Role(role),
		logger.Permission(permission),
		logger.Component("rbac"),
	)
	return fmt.Errorf("%w: %s", ErrAccessDenied, permission)
}

// RequireAnyPermission is RequirePermission for a set of alternatives: it
// passes when the actor holds at least one of permissions.
func (a *Authorizer) RequireAnyPermission(ctx context.Context, actor int64, permissions ...string) error {
	role := a.RoleOf(ctx, actor)
	for _, p := range permissions {
		if a.h.RoleHasPermission(role, p) {
			return nil
		}
	}
	a.log.InfoContext(ctx, "permission denied",
		logger.ActorID(actor),
		logger.Role(role),
		slog.String("permissions", strings.Join(permissions, ",")),
		logger.Component("rbac"),
	)
	return fmt.Errorf("%w: %s", ErrAccessDenied, strings.Join(permissions, " or "))
}

// RequireRole returns an error wrapping ErrAccessDenied unless the actor's
// role is at least required. An unknown required role always denies.
func (a *Authorizer) RequireRole(ctx context.Context, actor int64, required string) error {
	if !a.h.Valid(required) {
		return errors.Join(ErrAccessDenied, fmt.Errorf("%w: %q", ErrUnknownRole, required))
	}
	role := a.RoleOf(ctx, actor)
	if a.h.AtLeast(role, required) {
		return nil
	}
	a.log.InfoContext(ctx, "role level denied",
		logger.ActorID(actor),
		logger.Role(role),
		slog.String("required_role", required),
		logger.Component("rbac"),
	)
	return fmt.Errorf("%w: role %s required", ErrAccessDenied, required)
}

// RoleAtLeast compares two role names. See Hierarchy.AtLeast.
func (a *Authorizer) RoleAtLeast(actorRole, required string) bool {
	return a.h.AtLeast(actorRole, required)
}

// CanManage reports whether manager may act on target: never on itself, and
// only when manager's level is strictly above target's. Equal levels can not
// manage each other.
func (a *Authorizer) CanManage(ctx context.Context, manager, target int64) bool {
	if manager == target {
		return false
	}
	return a.h.Outranks(a.RoleOf(ctx, manager), a.RoleOf(ctx, target))
}

// SetRole stores a new role for actor. Roles outside the hierarchy are
// rejected with ErrUnknownRole without touching the store.
func (a *Authorizer) SetRole(ctx context.Context, actor int64, role string) error {
	if !a.h.Valid(role) {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err := a.store.SetRole(ctx, actor, role); err != nil {
		a.log.ErrorContext(ctx, "failed to set actor role",
			logger.Error(err),
			logger.ActorID(actor),
			logger.Role(role),
			logger.Component("rbac"),
		)
		return err
	}
	return nil
}
