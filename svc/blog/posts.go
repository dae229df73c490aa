package blog

import (
	"context"

	"github.com/dmitrymomot/blogkit/pkg/query"
)

const postsTable = "posts"

var postColumns = []string{
	"p.id", "p.user_id", "p.title", "p.content", "p.category",
	"p.status", "p.created_at", "p.updated_at", "u.username",
}

// Posts is the typed store of the posts table.
type Posts struct {
	b *query.Builder
}

func NewPosts(b *query.Builder) *Posts {
	return &Posts{b: b}
}

// withAuthor selects posts aliased as p joined to their author u.
func withAuthor(opts ...query.SelectOption) []query.SelectOption {
	return append([]query.SelectOption{
		query.As("p"),
		query.Columns(postColumns...),
		query.LeftJoin("users", "u", "p.user_id", "u.id"),
	}, opts...)
}

// Create inserts p and sets its ID. CreatedAt and UpdatedAt must be set.
func (s *Posts) Create(ctx context.Context, p *Post) error {
	id, err := s.b.Insert(ctx, postsTable, query.Values{
		"user_id":    p.UserID,
		"title":      p.Title,
		"content":    p.Content,
		"category":   nullable(p.Category),
		"status":     p.Status,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	})
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Get returns the post with its author, or ErrPostNotFound.
func (s *Posts) Get(ctx context.Context, id int64) (*Post, error) {
	row, err := s.b.First(ctx, postsTable, query.Conditions{"p.id": id}, withAuthor()...)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrPostNotFound
	}
	p := postFromRow(row)
	return &p, nil
}

// Update writes the editable fields of p. It returns ErrPostNotFound when no
// row has p.ID.
func (s *Posts) Update(ctx context.Context, p *Post) error {
	n, err := s.b.Update(ctx, postsTable, query.Values{
		"title":      p.Title,
		"content":    p.Content,
		"category":   nullable(p.Category),
		"status":     p.Status,
		"updated_at": p.UpdatedAt,
	}, query.Conditions{"id": p.ID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *Posts) Delete(ctx context.Context, id int64) error {
	n, err := s.b.Delete(ctx, postsTable, query.Conditions{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Find returns one page of posts matching preds, newest first.
func (s *Posts) Find(ctx context.Context, preds []query.Predicate, limit, offset int) ([]Post, error) {
	rows, err := s.b.Select(ctx, postsTable, nil, withAuthor(
		query.Where(preds...),
		query.OrderBy("p.created_at", query.Desc),
		query.Limit(limit),
		query.Offset(offset),
	)...)
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, postFromRow(r))
	}
	return posts, nil
}

// Count returns the number of posts matching preds.
func (s *Posts) Count(ctx context.Context, preds []query.Predicate) (int64, error) {
	return s.b.Count(ctx, postsTable, nil,
		query.As("p"),
		query.LeftJoin("users", "u", "p.user_id", "u.id"),
		query.Where(preds...),
	)
}

// Titles returns distinct titles containing term among published posts.
func (s *Posts) Titles(ctx context.Context, term string, limit int) ([]string, error) {
	rows, err := s.b.Select(ctx, postsTable, query.Conditions{"status": StatusPublished},
		query.Distinct(),
		query.Columns("title"),
		query.Where(query.Like("title", contains(term))),
		query.OrderBy("title", query.Asc),
		query.Limit(limit),
	)
	if err != nil {
		return nil, err
	}
	return column(rows, "title"), nil
}

// Categories returns the distinct non-null categories in order.
func (s *Posts) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.b.Select(ctx, postsTable, nil,
		query.Distinct(),
		query.Columns("category"),
		query.Where(query.NotNull("category")),
		query.OrderBy("category", query.Asc),
	)
	if err != nil {
		return nil, err
	}
	return column(rows, "category"), nil
}

// CountByUser returns how many posts user has written.
func (s *Posts) CountByUser(ctx context.Context, user int64) (int64, error) {
	return s.b.Count(ctx, postsTable, query.Conditions{"user_id": user})
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func contains(term string) string {
	return "%" + term + "%"
}

func column(rows []query.Row, name string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.String(name))
	}
	return out
}
