package blog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/pkg/validator"
	"github.com/dmitrymomot/blogkit/svc/blog"
)

func TestAuth_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	auth := blog.NewAuth(f.b, f.authz, f.cfg, f.clock)

	t.Run("creates a user", func(t *testing.T) {
		u, err := auth.Register(ctx, blog.RegisterInput{
			Username:             " carol_1 ",
			Email:                " Carol@Example.COM ",
			Password:             testPassword,
			PasswordConfirmation: testPassword,
		})
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "carol_1", u.Username)
		assert.Equal(t, "carol@example.com", u.Email)
		assert.Equal(t, rbac.RoleUser, u.Role)
		assert.NotEqual(t, testPassword, u.PasswordHash)
		assert.Equal(t, rbac.RoleUser, f.authz.RoleOf(ctx, u.ID))
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		_, err := auth.Register(ctx, blog.RegisterInput{
			Username:             "carol_1",
			Email:                "not-an-email",
			Password:             "short",
			PasswordConfirmation: "short",
		})
		require.ErrorIs(t, err, validator.ErrValidationFailed)

		verrs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"The username has already been taken."}, verrs.Get("username"))
		assert.Equal(t, []string{"The email must be a valid email address."}, verrs.Get("email"))
		assert.Equal(t, []string{
			"Password must be at least 8 characters long.",
			"Password must contain at least one uppercase letter.",
			"Password must contain at least one number.",
			"Password must contain at least one special character.",
		}, verrs.Get("password"))
	})

	t.Run("taken email and mismatched confirmation", func(t *testing.T) {
		_, err := auth.Register(ctx, blog.RegisterInput{
			Username:             "dave",
			Email:                "carol@example.com",
			Password:             testPassword,
			PasswordConfirmation: "Secret123?",
		})
		verrs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"The email has already been taken."}, verrs.Get("email"))
		assert.Equal(t, []string{"The password confirmation does not match."}, verrs.Get("password"))
		assert.False(t, verrs.Has("username"))
	})

	t.Run("username with injection characters", func(t *testing.T) {
		_, err := auth.Register(ctx, blog.RegisterInput{
			Username:             "x'; DROP TABLE users; --",
			Email:                "x@example.com",
			Password:             testPassword,
			PasswordConfirmation: testPassword,
		})
		verrs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"The username may only contain letters, numbers, dashes, and underscores."}, verrs.Get("username"))
	})
}

func TestUsers_CreateDuplicate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.user(t, "erin", rbac.RoleUser)

	err := f.users.Create(context.Background(), &blog.User{
		Username:     "erin",
		Email:        "other@example.com",
		Role:         rbac.RoleUser,
		PasswordHash: "x",
		CreatedAt:    testNow,
	})
	assert.ErrorIs(t, err, blog.ErrUserExists)
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	auth := blog.NewAuth(f.b, f.authz, f.cfg, f.clock)
	id := f.user(t, "frank", rbac.RoleUser)

	u, err := auth.Login(ctx, " frank ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	require.NotNil(t, u.LastLogin)
	assert.True(t, testNow.Equal(*u.LastLogin))

	stored, err := f.users.ByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.True(t, testNow.Equal(*stored.LastLogin))

	_, err = auth.Login(ctx, "frank", "Wrong123!")
	assert.ErrorIs(t, err, blog.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, blog.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, blog.ErrInvalidCredentials)
}

func TestAuth_ChangeRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	auth := blog.NewAuth(f.b, f.authz, f.cfg, f.clock)

	admin := f.user(t, "root", rbac.RoleAdmin)
	mod := f.user(t, "mia", rbac.RoleModerator)
	mod2 := f.user(t, "max", rbac.RoleModerator)
	user := f.user(t, "uma", rbac.RoleUser)
	other := f.user(t, "ugo", rbac.RoleUser)

	tests := []struct {
		name          string
		actor, target int64
		role          string
		wantErr       error
	}{
		{name: "user lacks manage_users", actor: user, target: other, role: rbac.RoleGuest, wantErr: rbac.ErrAccessDenied},
		{name: "moderator cannot manage a peer", actor: mod, target: mod2, role: rbac.RoleUser, wantErr: blog.ErrNotOutranked},
		{name: "moderator cannot grant admin", actor: mod, target: user, role: rbac.RoleAdmin, wantErr: blog.ErrRoleTooHigh},
		{name: "moderator cannot grant its own role", actor: mod, target: user, role: rbac.RoleModerator, wantErr: blog.ErrRoleTooHigh},
		{name: "admin cannot mint admins", actor: admin, target: user, role: rbac.RoleAdmin, wantErr: blog.ErrRoleTooHigh},
		{name: "unknown role", actor: admin, target: user, role: "editor", wantErr: rbac.ErrUnknownRole},
		{name: "nobody manages themselves", actor: admin, target: admin, role: rbac.RoleUser, wantErr: rbac.ErrAccessDenied},
		{name: "unknown target", actor: admin, target: 999, role: rbac.RoleUser, wantErr: blog.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ChangeRole(ctx, tt.actor, tt.target, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.NoError(t, auth.ChangeRole(ctx, mod, other, rbac.RoleGuest))
	assert.Equal(t, rbac.RoleGuest, f.authz.RoleOf(ctx, other))
	require.NoError(t, auth.ChangeRole(ctx, mod, other, rbac.RoleUser), "moderator keeps authority over whom it changed")
	assert.Equal(t, rbac.RoleUser, f.authz.RoleOf(ctx, other))

	require.NoError(t, auth.ChangeRole(ctx, admin, user, rbac.RoleModerator))
	assert.Equal(t, rbac.RoleModerator, f.authz.RoleOf(ctx, user))
}
