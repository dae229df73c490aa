// Package rbac implements the blog's role hierarchy and permission checks.
//
// Roles form a total order by level (guest < user < moderator < admin by
// default). Each role holds an explicit permission list or the wildcard "*".
// The table is validated once into an immutable Hierarchy:
//
//	h, err := rbac.NewHierarchy(ctx, rbac.NewYAMLFileSource("roles.yaml"))
//	// or rbac.Default()
//
// An Authorizer combines the hierarchy with an ActorStore that maps user ids
// to role names. Actors the store does not know, and the Anonymous actor,
// are treated as guests:
//
//	auth := rbac.NewAuthorizer(h, users)
//	if err := auth.RequirePermission(ctx, actorID, rbac.PermCreatePost); err != nil {
//	    // errors.Is(err, rbac.ErrAccessDenied)
//	}
//
// CanManage uses a strict comparison: an actor may only manage actors of a
// lower level, never peers and never itself.
//
// For HTTP handlers, store the actor with WithActor and guard routes with
// RequirePermissionMiddleware or RequireRoleMiddleware.
package rbac
