package rbac

import "errors"

var (
	// ErrUnknownRole is returned for a role name outside the hierarchy.
	ErrUnknownRole = errors.New("rbac.unknown_role")

	// ErrAccessDenied is returned when an actor lacks a permission or role level.
	ErrAccessDenied = errors.New("rbac.access_denied")

	// ErrNoActor is returned by guards when the request carries no actor.
	ErrNoActor = errors.New("rbac.no_actor")

	// ErrInvalidHierarchy is returned when role definitions break the hierarchy rules.
	ErrInvalidHierarchy = errors.New("rbac.invalid_hierarchy")

	// ErrCircularInheritance is returned when roles have circular inheritance.
	ErrCircularInheritance = errors.New("rbac.circular_inheritance")
)
