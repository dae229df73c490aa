package blog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/pkg/sanitizer"
	"github.com/dmitrymomot/blogkit/pkg/validator"
)

var postRules = validator.MustParse(
	"title", "required|min:3|max:255",
	"content", "required",
	"category", "max:100",
	"status", "in:draft,published,archived",
)

// PostInput is the editable part of a post. An empty Status means draft.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// normalized trims every field and defaults the status. Rules run against
// this form, so length limits count what the author typed.
func (in PostInput) normalized() PostInput {
	out := PostInput{
		Title:    sanitizer.Trim(in.Title),
		Content:  sanitizer.Trim(in.Content),
		Category: sanitizer.Trim(in.Category),
		Status:   sanitizer.Trim(in.Status),
	}
	if out.Status == "" {
		out.Status = StatusDraft
	}
	return out
}

// escaped is the stored form of validated input.
func (in PostInput) escaped() PostInput {
	in.Title = sanitizer.String(in.Title)
	in.Content = sanitizer.String(in.Content)
	in.Category = sanitizer.String(in.Category)
	return in
}

func (in PostInput) input() validator.Input {
	return validator.Input{
		"title":    in.Title,
		"content":  in.Content,
		"category": in.Category,
		"status":   in.Status,
	}
}

// PostService is the write side of posts. Every operation checks the actor's
// permissions before touching the store.
type PostService struct {
	b      *query.Builder
	posts  *Posts
	authz  *rbac.Authorizer
	engine *validator.Engine
	log    *slog.Logger
	now    func() time.Time
}

func NewPostService(b *query.Builder, authz *rbac.Authorizer, opts ...Option) *PostService {
	o := newOptions(opts)
	return &PostService{
		b:      b,
		posts:  NewPosts(b),
		authz:  authz,
		engine: validator.NewEngine(validator.WithLogger(o.log)),
		log:    o.log,
		now:    o.now,
	}
}

// Get returns a post. Posts that are not published are only visible to their
// author and to actors with read_all_posts; for anyone else they do not exist.
func (s *PostService) Get(ctx context.Context, actor, id int64) (*Post, error) {
	if err := requireReader(ctx, s.authz, actor); err != nil {
		return nil, err
	}
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPublished && p.UserID != actor && !s.authz.HasPermission(ctx, actor, rbac.PermReadAllPosts) {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// Create writes a new post owned by actor. It requires create_post.
func (s *PostService) Create(ctx context.Context, actor int64, in PostInput) (*Post, error) {
	if err := s.authz.RequirePermission(ctx, actor, rbac.PermCreatePost); err != nil {
		return nil, err
	}

	in = in.normalized()
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	in = in.escaped()

	now := s.now()
	p := &Post{
		UserID:    actor,
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "post created", logger.ActorID(actor), slog.Int64("post_id", p.ID), logger.Component("posts"))
	return p, nil
}

// Update replaces the editable fields of a post. The actor needs
// edit_any_post, or edit_own_post on a post it wrote.
func (s *PostService) Update(ctx context.Context, actor, id int64, in PostInput) (*Post, error) {
	g := s.grantFor(ctx, actor, rbac.PermEditAnyPost, rbac.PermEditOwnPost)
	if g.ownPost != nil {
		return nil, g.ownPost
	}
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.check(actor, p); err != nil {
		return nil, err
	}

	in = in.normalized()
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	in = in.escaped()

	p.Title = in.Title
	p.Content = in.Content
	p.Category = in.Category
	p.Status = in.Status
	p.UpdatedAt = s.now()
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "post updated", logger.ActorID(actor), slog.Int64("post_id", p.ID), logger.Component("posts"))
	return p, nil
}

// Delete removes a post. The actor needs delete_any_post, or delete_own_post
// on a post it wrote. The ownership check and the delete share a transaction;
// the actor's role is resolved before it starts.
func (s *PostService) Delete(ctx context.Context, actor, id int64) error {
	g := s.grantFor(ctx, actor, rbac.PermDeleteAnyPost, rbac.PermDeleteOwnPost)
	if g.ownPost != nil {
		return g.ownPost
	}
	err := s.b.Transaction(ctx, func(ctx context.Context, tx *query.Builder) error {
		posts := NewPosts(tx)
		p, err := posts.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := g.check(actor, p); err != nil {
			return err
		}
		return posts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "post deleted", logger.ActorID(actor), slog.Int64("post_id", id), logger.Component("posts"))
	return nil
}

// grant is what an actor may do to posts: act on any post, or on its own.
// A non-nil ownPost denies before any post is loaded.
type grant struct {
	anyPost bool
	ownPost error
}

func (s *PostService) grantFor(ctx context.Context, actor int64, anyPerm, ownPerm string) grant {
	if s.authz.HasPermission(ctx, actor, anyPerm) {
		return grant{anyPost: true}
	}
	return grant{ownPost: s.authz.RequirePermission(ctx, actor, ownPerm)}
}

func (g grant) check(actor int64, p *Post) error {
	if g.anyPost {
		return nil
	}
	if p.UserID != actor {
		return errors.Join(rbac.ErrAccessDenied, ErrNotAuthor)
	}
	return nil
}

func (s *PostService) validate(ctx context.Context, in PostInput) error {
	return s.engine.Validate(ctx, in.input(), postRules).Err()
}
