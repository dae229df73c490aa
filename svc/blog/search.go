package blog

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/pkg/sanitizer"
	"github.com/dmitrymomot/blogkit/pkg/validator"
)

const dateLayout = time.DateOnly

var filterRules = validator.MustParse(
	"category", "max:100",
	"user_id", "integer|max:19",
	"status", "in:draft,published,archived",
	"date_from", `regex:/^\d{4}-\d{2}-\d{2}$/`,
	"date_to", `regex:/^\d{4}-\d{2}-\d{2}$/`,
)

// PostFilters narrows a post search. Values arrive as request strings and are
// validated before use; empty values are ignored.
type PostFilters struct {
	Category string `json:"category,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Status   string `json:"status,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

func (f PostFilters) input() validator.Input {
	return validator.Input{
		"category":  f.Category,
		"user_id":   f.UserID,
		"status":    f.Status,
		"date_from": f.DateFrom,
		"date_to":   f.DateTo,
	}
}

// Search is the read side of the blog: post and user search, suggestions,
// popular terms and the search log. Store failures are logged and produce
// empty results; only invalid filters and denied access are returned as errors.
type Search struct {
	posts  *Posts
	users  *Users
	logs   *SearchLogs
	authz  *rbac.Authorizer
	engine *validator.Engine
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
}

func NewSearch(b *query.Builder, authz *rbac.Authorizer, cfg Config, opts ...Option) *Search {
	o := newOptions(opts)
	return &Search{
		posts:  NewPosts(b),
		users:  NewUsers(b),
		logs:   NewSearchLogs(b),
		authz:  authz,
		engine: validator.NewEngine(validator.WithLogger(o.log)),
		cfg:    cfg.withDefaults(),
		log:    o.log,
		now:    o.now,
	}
}

// Posts searches titles, contents and author names. Queries shorter than the
// configured minimum after sanitization return an empty page. Actors without
// read_all_posts only see published posts and their own.
func (s *Search) Posts(ctx context.Context, actor int64, q string, f PostFilters, page, perPage int) (PostPage, error) {
	if err := requireReader(ctx, s.authz, actor); err != nil {
		return PostPage{}, err
	}

	q = sanitizer.String(q)
	if len(q) < s.cfg.SearchMinQuery {
		return PostPage{Posts: []Post{}, Query: q}, nil
	}

	if res := s.engine.Validate(ctx, f.input(), filterRules); res.HasErrors() {
		return PostPage{}, res.Err()
	}

	like := contains(q)
	preds := []query.Predicate{
		query.AnyOf(query.Like("p.title", like), query.Like("p.content", like), query.Like("u.username", like)),
	}
	preds = append(preds, s.filterPredicates(f)...)
	preds = append(preds, s.visibility(ctx, actor)...)

	return s.postPage(ctx, preds, q, page, perPage), nil
}

// Recent lists the newest posts visible to actor.
func (s *Search) Recent(ctx context.Context, actor int64, page, perPage int) (PostPage, error) {
	if err := requireReader(ctx, s.authz, actor); err != nil {
		return PostPage{}, err
	}
	return s.postPage(ctx, s.visibility(ctx, actor), "", page, perPage), nil
}

func (s *Search) postPage(ctx context.Context, preds []query.Predicate, q string, page, perPage int) PostPage {
	empty := PostPage{Posts: []Post{}, Query: q}

	total, err := s.posts.Count(ctx, preds)
	if err != nil {
		s.fail(ctx, "post search count failed", err)
		return empty
	}

	pg := NewPagination(total, s.cfg.perPage(perPage), page)
	posts, err := s.posts.Find(ctx, preds, pg.Limit(), pg.Offset())
	if err != nil {
		s.fail(ctx, "post search failed", err)
		return empty
	}

	return PostPage{Posts: posts, Total: total, Pagination: &pg, Query: q}
}

func (s *Search) filterPredicates(f PostFilters) []query.Predicate {
	var preds []query.Predicate
	if f.Category != "" {
		preds = append(preds, query.Eq("p.category", sanitizer.String(f.Category)))
	}
	if f.UserID != "" {
		id, _ := strconv.ParseInt(f.UserID, 10, 64)
		preds = append(preds, query.Eq("p.user_id", id))
	}
	if f.Status != "" {
		preds = append(preds, query.Eq("p.status", f.Status))
	}
	if t, err := time.Parse(dateLayout, f.DateFrom); err == nil {
		preds = append(preds, query.Gte("p.created_at", t))
	}
	// date_to is inclusive of the whole day.
	if t, err := time.Parse(dateLayout, f.DateTo); err == nil {
		preds = append(preds, query.Lt("p.created_at", t.AddDate(0, 0, 1)))
	}
	return preds
}

// requireReader admits actors that may read posts: view_posts for the public
// ones, or read_all_posts.
func requireReader(ctx context.Context, authz *rbac.Authorizer, actor int64) error {
	return authz.RequireAnyPermission(ctx, actor, rbac.PermViewPosts, rbac.PermReadAllPosts)
}

func (s *Search) visibility(ctx context.Context, actor int64) []query.Predicate {
	if s.authz.HasPermission(ctx, actor, rbac.PermReadAllPosts) {
		return nil
	}
	published := query.Eq("p.status", StatusPublished)
	if actor == rbac.Anonymous {
		return []query.Predicate{published}
	}
	return []query.Predicate{query.AnyOf(published, query.Eq("p.user_id", actor))}
}

// Users searches usernames and emails. It requires manage_users.
func (s *Search) Users(ctx context.Context, actor int64, q string, page, perPage int) (UserPage, error) {
	if err := s.authz.RequirePermission(ctx, actor, rbac.PermManageUsers); err != nil {
		return UserPage{}, err
	}

	q = sanitizer.String(q)
	empty := UserPage{Users: []User{}, Query: q}
	if len(q) < s.cfg.SearchMinQuery {
		return empty, nil
	}

	total, err := s.users.Count(ctx, q)
	if err != nil {
		s.fail(ctx, "user search count failed", err)
		return empty, nil
	}

	pg := NewPagination(total, s.cfg.perPage(perPage), page)
	users, err := s.users.Find(ctx, q, pg.Limit(), pg.Offset())
	if err != nil {
		s.fail(ctx, "user search failed", err)
		return empty, nil
	}

	return UserPage{Users: users, Total: total, Pagination: &pg, Query: q}, nil
}

// Suggestions returns published titles containing q. limit <= 0 uses the default.
func (s *Search) Suggestions(ctx context.Context, q string, limit int) []string {
	q = sanitizer.String(q)
	if len(q) < s.cfg.SearchMinQuery {
		return []string{}
	}
	if limit <= 0 {
		limit = s.cfg.SuggestionLimit
	}

	titles, err := s.posts.Titles(ctx, q, limit)
	if err != nil {
		s.fail(ctx, "search suggestions failed", err)
		return []string{}
	}
	return titles
}

// Popular returns the most searched terms within the configured window.
func (s *Search) Popular(ctx context.Context, limit int) []PopularTerm {
	if limit <= 0 {
		limit = s.cfg.PopularLimit
	}

	terms, err := s.logs.Popular(ctx, s.now().Add(-s.cfg.PopularWindow), limit)
	if err != nil {
		s.fail(ctx, "popular searches failed", err)
		return []PopularTerm{}
	}
	return terms
}

// Log records a search. Failures are logged and otherwise ignored.
func (s *Search) Log(ctx context.Context, q string, actor int64, results int64) {
	q = sanitizer.String(q)
	if q == "" {
		return
	}
	if err := s.logs.Record(ctx, q, actor, results, s.now()); err != nil {
		s.fail(ctx, "search logging failed", err)
	}
}

// Categories returns the categories in use, in order.
func (s *Search) Categories(ctx context.Context) []string {
	cats, err := s.posts.Categories(ctx)
	if err != nil {
		s.fail(ctx, "listing categories failed", err)
		return []string{}
	}
	return cats
}

func (s *Search) fail(ctx context.Context, msg string, err error) {
	s.log.ErrorContext(ctx, msg, logger.Error(err), logger.Component("search"))
}
