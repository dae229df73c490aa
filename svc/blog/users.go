package blog

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/blogkit/pkg/database"
	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
)

const usersTable = "users"

var userColumns = []string{"id", "username", "email", "password", "role", "created_at", "last_login"}

var _ rbac.ActorStore = (*Users)(nil)

// Users is the typed store of the users table. It is also the rbac actor store.
type Users struct {
	b *query.Builder
}

func NewUsers(b *query.Builder) *Users {
	return &Users{b: b}
}

// Create inserts u and sets its ID. A taken username or email yields ErrUserExists.
func (s *Users) Create(ctx context.Context, u *User) error {
	id, err := s.b.Insert(ctx, usersTable, query.Values{
		"username":   u.Username,
		"email":      u.Email,
		"password":   u.PasswordHash,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	})
	if err != nil {
		if database.IsDuplicateKeyError(err) {
			return errors.Join(ErrUserExists, err)
		}
		return err
	}
	u.ID = id
	return nil
}

func (s *Users) ByID(ctx context.Context, id int64) (*User, error) {
	return s.first(ctx, query.Conditions{"id": id})
}

func (s *Users) ByUsername(ctx context.Context, username string) (*User, error) {
	return s.first(ctx, query.Conditions{"username": username})
}

func (s *Users) first(ctx context.Context, conds query.Conditions) (*User, error) {
	row, err := s.b.First(ctx, usersTable, conds, query.Columns(userColumns...))
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrUserNotFound
	}
	u := userFromRow(row)
	return &u, nil
}

// TouchLogin records a successful sign-in.
func (s *Users) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := s.b.Update(ctx, usersTable, query.Values{"last_login": at}, query.Conditions{"id": id})
	return err
}

// Find returns users whose username or email contains term, by username.
func (s *Users) Find(ctx context.Context, term string, limit, offset int) ([]User, error) {
	rows, err := s.b.Select(ctx, usersTable, nil,
		query.Columns(userColumns...),
		query.Where(matchUser(term)),
		query.OrderBy("username", query.Asc),
		query.Limit(limit),
		query.Offset(offset),
	)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		users = append(users, userFromRow(r))
	}
	return users, nil
}

func (s *Users) Count(ctx context.Context, term string) (int64, error) {
	return s.b.Count(ctx, usersTable, nil, query.Where(matchUser(term)))
}

// List returns every user by username.
func (s *Users) List(ctx context.Context) ([]User, error) {
	rows, err := s.b.Select(ctx, usersTable, nil,
		query.Columns(userColumns...),
		query.OrderBy("username", query.Asc),
	)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		users = append(users, userFromRow(r))
	}
	return users, nil
}

// RoleOf implements rbac.ActorStore.
func (s *Users) RoleOf(ctx context.Context, actor int64) (string, bool, error) {
	row, err := s.b.First(ctx, usersTable, query.Conditions{"id": actor}, query.Columns("role"))
	if err != nil {
		return "", false, err
	}
	if row == nil {
		return "", false, nil
	}
	return row.String("role"), true, nil
}

// SetRole implements rbac.ActorStore. An unknown actor yields ErrUserNotFound.
func (s *Users) SetRole(ctx context.Context, actor int64, role string) error {
	n, err := s.b.Update(ctx, usersTable, query.Values{"role": role}, query.Conditions{"id": actor})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func matchUser(term string) query.Predicate {
	like := contains(term)
	return query.AnyOf(query.Like("username", like), query.Like("email", like))
}
