package rbac

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RoleSource provides role definitions.
type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}

type inMemRoleSource struct {
	roles map[string]Role
}

// NewInMemRoleSource returns a source serving a deep copy of roles.
func NewInMemRoleSource(roles map[string]Role) RoleSource {
	return &inMemRoleSource{roles: copyRoles(roles)}
}

func (s *inMemRoleSource) Load(context.Context) (map[string]Role, error) {
	return copyRoles(s.roles), nil
}

func copyRoles(roles map[string]Role) map[string]Role {
	out := make(map[string]Role, len(roles))
	for name, r := range roles {
		out[name] = Role{
			Level:       r.Level,
			Permissions: append([]string(nil), r.Permissions...),
			Inherits:    append([]string(nil), r.Inherits...),
		}
	}
	return out
}

// yamlRoles is the document layout:
//
//	roles:
//	  guest:
//	    level: 1
//	    permissions: [view_posts]
//	  admin:
//	    level: 4
//	    permissions: ["*"]
type yamlRoles struct {
	Roles map[string]Role `yaml:"roles"`
}

type yamlRoleSource struct {
	read func() (io.ReadCloser, error)
}

// NewYAMLRoleSource reads role definitions from r on Load. The reader is
// consumed by the first Load.
func NewYAMLRoleSource(r io.Reader) RoleSource {
	return &yamlRoleSource{read: func() (io.ReadCloser, error) { return io.NopCloser(r), nil }}
}

// NewYAMLFileSource reads role definitions from the file at path on every Load.
func NewYAMLFileSource(path string) RoleSource {
	return &yamlRoleSource{read: func() (io.ReadCloser, error) { return os.Open(path) }}
}

func (s *yamlRoleSource) Load(context.Context) (map[string]Role, error) {
	rc, err := s.read()
	if err != nil {
		return nil, errors.Join(ErrInvalidHierarchy, err)
	}
	defer func() { _ = rc.Close() }()

	var doc yamlRoles
	dec := yaml.NewDecoder(rc)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Join(ErrInvalidHierarchy, fmt.Errorf("decode roles: %w", err))
	}
	return doc.Roles, nil
}
