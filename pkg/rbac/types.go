package rbac

// MaxInheritanceDepth is the maximum allowed depth of role inheritance.
const MaxInheritanceDepth = 10

// Built-in role names.
const (
	RoleGuest     = "guest"
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Wildcard grants every permission.
const Wildcard = "*"

// Blog permissions.
const (
	PermViewPosts     = "view_posts"
	PermCreatePost    = "create_post"
	PermEditOwnPost   = "edit_own_post"
	PermDeleteOwnPost = "delete_own_post"
	PermComment       = "comment"
	PermReadAllPosts  = "read_all_posts"
	PermEditAnyPost   = "edit_any_post"
	PermDeleteAnyPost = "delete_any_post"
	PermManageUsers   = "manage_users"
	PermViewReports   = "view_reports"
)

// Role is the definition of one role. Level orders roles: a higher level is
// more privileged and levels must be unique.
type Role struct {
	Level       int      `yaml:"level"`
	Permissions []string `yaml:"permissions"`

	// Inherits lists roles whose permissions are added to this one.
	Inherits []string `yaml:"inherits,omitempty"`
}

// DefaultRoles returns the blog's role table. Permissions are not inherited:
// a moderator does not implicitly hold create_post.
func DefaultRoles() map[string]Role {
	return map[string]Role{
		RoleGuest: {
			Level:       1,
			Permissions: []string{PermViewPosts},
		},
		RoleUser: {
			Level: 2,
			Permissions: []string{
				PermCreatePost,
				PermEditOwnPost,
				PermDeleteOwnPost,
				PermComment,
				PermViewPosts,
			},
		},
		RoleModerator: {
			Level: 3,
			Permissions: []string{
				PermReadAllPosts,
				PermEditAnyPost,
				PermDeleteAnyPost,
				PermManageUsers,
				PermViewReports,
			},
		},
		RoleAdmin: {
			Level:       4,
			Permissions: []string{Wildcard},
		},
	}
}
