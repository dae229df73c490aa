package blog_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/blogkit/pkg/database"
	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/svc/blog"
)

const testPassword = "Secret123!"

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db    *sql.DB
	b     *query.Builder
	authz *rbac.Authorizer
	users *blog.Users
	posts *blog.Posts
	cfg   blog.Config
	clock blog.Option
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Driver:        "sqlite",
		DSN:           "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite",
		RetryAttempts: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, "sqlite", "", nil))

	b := query.New(db)
	users := blog.NewUsers(b)

	cfg := blog.DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost

	return &fixture{
		db:    db,
		b:     b,
		authz: rbac.NewAuthorizer(rbac.Default(), users),
		users: users,
		posts: blog.NewPosts(b),
		cfg:   cfg,
		clock: blog.WithClock(func() time.Time { return testNow }),
	}
}

func (f *fixture) user(t *testing.T, username, role string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := &blog.User{
		Username:     username,
		Email:        username + "@example.com",
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    testNow,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) post(t *testing.T, author int64, title, category, status string, created time.Time) int64 {
	t.Helper()

	p := &blog.Post{
		UserID:    author,
		Title:     title,
		Content:   "Body of " + title,
		Category:  category,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p.ID
}
