package blog

import (
	"context"
	"time"

	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
)

const searchLogsTable = "search_logs"

// SearchLogs is the typed store of the search_logs table.
type SearchLogs struct {
	b *query.Builder
}

func NewSearchLogs(b *query.Builder) *SearchLogs {
	return &SearchLogs{b: b}
}

// Record stores one search. Anonymous actors are stored with a NULL user_id.
func (s *SearchLogs) Record(ctx context.Context, term string, actor int64, results int64, at time.Time) error {
	var user any
	if actor != rbac.Anonymous {
		user = actor
	}
	_, err := s.b.Insert(ctx, searchLogsTable, query.Values{
		"search_term":   term,
		"user_id":       user,
		"results_count": results,
		"created_at":    at,
	})
	return err
}

// Popular returns the most searched terms since the given time.
func (s *SearchLogs) Popular(ctx context.Context, since time.Time, limit int) ([]PopularTerm, error) {
	rows, err := s.b.Select(ctx, searchLogsTable, nil,
		query.Columns("search_term"),
		query.CountAs("search_count"),
		query.Where(query.Gte("created_at", since)),
		query.GroupBy("search_term"),
		query.OrderBy("search_count", query.Desc),
		query.Limit(limit),
	)
	if err != nil {
		return nil, err
	}
	out := make([]PopularTerm, 0, len(rows))
	for _, r := range rows {
		out = append(out, PopularTerm{Term: r.String("search_term"), Count: r.Int64("search_count")})
	}
	return out, nil
}

// Prune removes entries older than before and returns how many were removed.
func (s *SearchLogs) Prune(ctx context.Context, before time.Time) (int64, error) {
	return s.b.DeleteWhere(ctx, searchLogsTable, query.Lt("created_at", before))
}
