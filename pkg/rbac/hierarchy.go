package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

type resolvedRole struct {
	level int
	perms []string
	all   bool
}

// Hierarchy is the validated, read-only role table. Build it once at startup
// and share it; nothing mutates it afterwards.
type Hierarchy struct {
	roles   map[string]resolvedRole
	ordered []string
}

// NewHierarchy loads roles from source and validates them: a guest role must
// exist, levels must be positive and unique, every role needs at least one
// permission, and inheritance must be acyclic and reference known roles.
func NewHierarchy(ctx context.Context, source RoleSource) (*Hierarchy, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRoles(roles); err != nil {
		return nil, err
	}
	if err := validateRoleInheritance(roles); err != nil {
		return nil, err
	}

	h := &Hierarchy{roles: make(map[string]resolvedRole, len(roles))}
	for name, r := range roles {
		perms := normalize(collectPermissions(name, roles, make(map[string]bool), 0))
		h.roles[name] = resolvedRole{
			level: r.Level,
			perms: perms,
			all:   slices.Contains(perms, Wildcard),
		}
		h.ordered = append(h.ordered, name)
	}
	slices.SortFunc(h.ordered, func(a, b string) int {
		return h.roles[a].level - h.roles[b].level
	})
	return h, nil
}

// MustHierarchy is NewHierarchy for static tables that are known to be valid.
func MustHierarchy(roles map[string]Role) *Hierarchy {
	h, err := NewHierarchy(context.Background(), NewInMemRoleSource(roles))
	if err != nil {
		panic(err)
	}
	return h
}

// Default returns the hierarchy built from DefaultRoles.
func Default() *Hierarchy {
	return MustHierarchy(DefaultRoles())
}

// Level returns the level of role.
func (h *Hierarchy) Level(role string) (int, error) {
	r, ok := h.roles[role]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return r.level, nil
}

// Valid reports whether role is part of the hierarchy.
func (h *Hierarchy) Valid(role string) bool {
	_, ok := h.roles[role]
	return ok
}

// Roles returns role names from the least to the most privileged.
func (h *Hierarchy) Roles() []string {
	return slices.Clone(h.ordered)
}

// Permissions returns the effective permissions of role, inherited ones
// included, sorted. Unknown roles have none.
func (h *Hierarchy) Permissions(role string) []string {
	return slices.Clone(h.roles[role].perms)
}

// RoleHasPermission reports whether role holds the wildcard or exactly permission.
func (h *Hierarchy) RoleHasPermission(role, permission string) bool {
	r, ok := h.roles[role]
	if !ok {
		return false
	}
	if r.all {
		return true
	}
	_, found := slices.BinarySearch(r.perms, permission)
	return found
}

// AtLeast reports whether actorRole's level is at least required's level.
// Unknown roles on either side yield false.
func (h *Hierarchy) AtLeast(actorRole, required string) bool {
	a, okA := h.roles[actorRole]
	r, okR := h.roles[required]
	if !okA || !okR {
		return false
	}
	return a.level >= r.level
}

// Outranks reports whether manager's level is strictly greater than target's.
// Unknown roles on either side yield false.
func (h *Hierarchy) Outranks(manager, target string) bool {
	m, okM := h.roles[manager]
	t, okT := h.roles[target]
	if !okM || !okT {
		return false
	}
	return m.level > t.level
}

func validateRoles(roles map[string]Role) error {
	if _, ok := roles[RoleGuest]; !ok {
		return errors.Join(ErrInvalidHierarchy, fmt.Errorf("role %q is required", RoleGuest))
	}

	levels := make(map[int]string, len(roles))
	for name, r := range roles {
		if name == "" {
			return errors.Join(ErrInvalidHierarchy, errors.New("empty role name"))
		}
		if r.Level <= 0 {
			return errors.Join(ErrInvalidHierarchy, fmt.Errorf("role %q: level must be positive", name))
		}
		if other, dup := levels[r.Level]; dup {
			return errors.Join(ErrInvalidHierarchy, fmt.Errorf("roles %q and %q share level %d", other, name, r.Level))
		}
		levels[r.Level] = name
		if len(r.Permissions) == 0 && len(r.Inherits) == 0 {
			return errors.Join(ErrInvalidHierarchy, fmt.Errorf("role %q has no permissions", name))
		}
		for _, parent := range r.Inherits {
			if _, ok := roles[parent]; !ok {
				return errors.Join(ErrInvalidHierarchy, fmt.Errorf("role %q inherits unknown role %q", name, parent))
			}
		}
	}
	return nil
}

func normalize(perms []string) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if p != "" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// collectPermissions gathers the direct and inherited permissions of a role.
func collectPermissions(name string, roles map[string]Role, visited map[string]bool, depth int) []string {
	if depth > MaxInheritanceDepth || visited[name] {
		return nil
	}
	visited[name] = true

	role, ok := roles[name]
	if !ok {
		return nil
	}

	result := slices.Clone(role.Permissions)
	for _, parent := range role.Inherits {
		result = append(result, collectPermissions(parent, roles, visited, depth+1)...)
	}
	return result
}

// validateRoleInheritance rejects cycles and chains deeper than MaxInheritanceDepth.
func validateRoleInheritance(roles map[string]Role) error {
	for name := range roles {
		if err := checkCircularInheritance(name, roles, []string{name}); err != nil {
			return err
		}
	}

	depths := make(map[string]int, len(roles))
	for name := range roles {
		if d := roleDepth(name, roles, depths); d > MaxInheritanceDepth {
			return errors.Join(ErrCircularInheritance,
				fmt.Errorf("inheritance depth exceeds maximum allowed depth of %d", MaxInheritanceDepth))
		}
	}
	return nil
}

func checkCircularInheritance(name string, roles map[string]Role, path []string) error {
	for _, parent := range roles[name].Inherits {
		if slices.Contains(path, parent) {
			return errors.Join(ErrCircularInheritance,
				fmt.Errorf("circular inheritance detected: %s -> %s", name, parent))
		}
		if err := checkCircularInheritance(parent, roles, append(slices.Clone(path), parent)); err != nil {
			return err
		}
	}
	return nil
}

// roleDepth must only run on acyclic input.
func roleDepth(name string, roles map[string]Role, depths map[string]int) int {
	if d, ok := depths[name]; ok {
		return d
	}
	d := 0
	for _, parent := range roles[name].Inherits {
		d = max(d, roleDepth(parent, roles, depths)+1)
	}
	depths[name] = d
	return d
}
