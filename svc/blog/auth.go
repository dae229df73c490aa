package blog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/pkg/sanitizer"
	"github.com/dmitrymomot/blogkit/pkg/validator"
)

var registerRules = validator.MustParse(
	"username", "required|alpha_dash|min:3|max:50|unique:users,username",
	"email", "required|email|max:255|unique:users",
	"password", "required|password|confirmed",
)

// dummyHash is compared against when the user does not exist so that unknown
// usernames cost the same as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("blogkit-timing-equalizer"), bcrypt.MinCost)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Auth registers and signs in users and changes their roles.
type Auth struct {
	users  *Users
	authz  *rbac.Authorizer
	engine *validator.Engine
	cost   int
	log    *slog.Logger
	now    func() time.Time
}

func NewAuth(b *query.Builder, authz *rbac.Authorizer, cfg Config, opts ...Option) *Auth {
	o := newOptions(opts)
	cfg = cfg.withDefaults()
	return &Auth{
		users:  NewUsers(b),
		authz:  authz,
		engine: validator.NewEngine(validator.WithLookup(b), validator.WithLogger(o.log)),
		cost:   cfg.BcryptCost,
		log:    o.log,
		now:    o.now,
	}
}

// Register validates the form and creates a user with the "user" role.
// Validation failures are returned as validator.ValidationErrors.
func (a *Auth) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = sanitizer.NormalizeEmail(in.Email)

	res := a.engine.Validate(ctx, validator.Input{
		"username":              in.Username,
		"email":                 in.Email,
		"password":              in.Password,
		"password_confirmation": in.PasswordConfirmation,
	}, registerRules)
	if err := res.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     in.Username,
		Email:        in.Email,
		Role:         rbac.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    a.now(),
	}
	if err := a.users.Create(ctx, u); err != nil {
		return nil, err
	}

	a.log.InfoContext(ctx, "user registered", logger.ActorID(u.ID), logger.Component("auth"))
	return u, nil
}

// Login verifies the credentials. Unknown users and wrong passwords both
// yield ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := a.users.ByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			a.log.ErrorContext(ctx, "login lookup failed", logger.Error(err), logger.Component("auth"))
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	at := a.now()
	if err := a.users.TouchLogin(ctx, u.ID, at); err != nil {
		a.log.WarnContext(ctx, "recording last login failed", logger.ActorID(u.ID), logger.Error(err), logger.Component("auth"))
	} else {
		u.LastLogin = &at
	}
	return u, nil
}

// ChangeRole assigns role to target. The actor needs manage_users, must
// outrank target and may only assign roles below its own, so it keeps
// authority over everyone it has promoted.
func (a *Auth) ChangeRole(ctx context.Context, actor, target int64, role string) error {
	if err := a.authz.RequirePermission(ctx, actor, rbac.PermManageUsers); err != nil {
		return err
	}
	if !a.authz.CanManage(ctx, actor, target) {
		return errors.Join(rbac.ErrAccessDenied, ErrNotOutranked)
	}
	if !a.authz.Hierarchy().Valid(role) {
		return rbac.ErrUnknownRole
	}
	if !a.authz.Hierarchy().Outranks(a.authz.RoleOf(ctx, actor), role) {
		return errors.Join(rbac.ErrAccessDenied, ErrRoleTooHigh)
	}

	if err := a.authz.SetRole(ctx, target, role); err != nil {
		return err
	}
	a.log.InfoContext(ctx, "role changed",
		logger.ActorID(actor),
		slog.Int64("target_id", target),
		logger.Role(role),
		logger.Component("auth"),
	)
	return nil
}
