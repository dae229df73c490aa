package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogkit/pkg/query"
)

func TestBuildSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dialect  query.Dialect
		spec     query.SelectSpec
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "all rows",
			dialect: query.Question,
			spec:    query.NewSelect("posts", nil),
			wantSQL: "SELECT * FROM posts",
		},
		{
			name:     "equality conditions are sorted",
			dialect:  query.Question,
			spec:     query.NewSelect("users", query.Conditions{"role": "admin", "email": "a@b.c"}),
			wantSQL:  "SELECT * FROM users WHERE email = ? AND role = ?",
			wantArgs: []any{"a@b.c", "admin"},
		},
		{
			name:     "dollar placeholders",
			dialect:  query.Dollar,
			spec:     query.NewSelect("users", query.Conditions{"role": "admin", "email": "a@b.c"}),
			wantSQL:  "SELECT * FROM users WHERE email = $1 AND role = $2",
			wantArgs: []any{"a@b.c", "admin"},
		},
		{
			name:    "columns order and paging",
			dialect: query.Question,
			spec: query.NewSelect("posts", nil,
				query.Columns("id", "title"),
				query.OrderBy("created_at", "desc"),
				query.Limit(10),
				query.Offset(20),
			),
			wantSQL: "SELECT id, title FROM posts ORDER BY created_at DESC LIMIT 10 OFFSET 20",
		},
		{
			name:    "unknown direction becomes ASC",
			dialect: query.Question,
			spec:    query.NewSelect("posts", nil, query.OrderBy("id", "sideways; DROP TABLE posts")),
			wantSQL: "SELECT * FROM posts ORDER BY id ASC",
		},
		{
			name:    "offset without limit is ignored",
			dialect: query.Question,
			spec:    query.NewSelect("posts", nil, query.Offset(5)),
			wantSQL: "SELECT * FROM posts",
		},
		{
			name:    "zero limit is ignored",
			dialect: query.Question,
			spec:    query.NewSelect("posts", nil, query.Limit(0)),
			wantSQL: "SELECT * FROM posts",
		},
		{
			name:    "injection characters are stripped from identifiers",
			dialect: query.Question,
			spec: query.NewSelect("posts; DROP TABLE users--", query.Conditions{"id = 1 OR 1": 5},
				query.OrderBy("title`", "ASC"),
			),
			wantSQL:  "SELECT * FROM postsDROPTABLEusers WHERE id1OR1 = ? ORDER BY title ASC",
			wantArgs: []any{5},
		},
		{
			name:    "join with aliases and predicates",
			dialect: query.Dollar,
			spec: query.NewSelect("posts", query.Conditions{"p.status": "published"},
				query.As("p"),
				query.Columns("p.id", "p.title", "u.name"),
				query.LeftJoin("users", "u", "p.user_id", "u.id"),
				query.Where(query.AnyOf(query.Like("p.title", "%go%"), query.Like("p.content", "%go%"))),
				query.OrderBy("p.created_at", "DESC"),
				query.Limit(5),
			),
			wantSQL:  "SELECT p.id, p.title, u.name FROM posts p LEFT JOIN users u ON p.user_id = u.id WHERE p.status = $1 AND (p.title LIKE $2 OR p.content LIKE $3) ORDER BY p.created_at DESC LIMIT 5",
			wantArgs: []any{"published", "%go%", "%go%"},
		},
		{
			name:    "empty OR group is skipped",
			dialect: query.Question,
			spec:    query.NewSelect("posts", nil, query.Where(query.AnyOf())),
			wantSQL: "SELECT * FROM posts",
		},
		{
			name:     "distinct with comparison",
			dialect:  query.Question,
			spec:     query.NewSelect("posts", nil, query.Distinct(), query.Columns("user_id"), query.Where(query.Gte("id", 3))),
			wantSQL:  "SELECT DISTINCT user_id FROM posts WHERE id >= ?",
			wantArgs: []any{3},
		},
		{
			name:     "null checks",
			dialect:  query.Question,
			spec:     query.NewSelect("posts", nil, query.Distinct(), query.Columns("category"), query.Where(query.NotNull("category"), query.AnyOf(query.IsNull("user_id"), query.Eq("user_id", 2))), query.OrderBy("category", "")),
			wantSQL:  "SELECT DISTINCT category FROM posts WHERE category IS NOT NULL AND (user_id IS NULL OR user_id = ?) ORDER BY category ASC",
			wantArgs: []any{2},
		},
		{
			name:    "grouped count",
			dialect: query.Dollar,
			spec: query.NewSelect("search_logs", nil,
				query.Columns("search_term"),
				query.CountAs("search_count"),
				query.Where(query.Gte("created_at", "2024-01-01")),
				query.GroupBy("search_term"),
				query.OrderBy("search_count", "desc"),
				query.Limit(10),
			),
			wantSQL:  "SELECT search_term, COUNT(*) AS search_count FROM search_logs WHERE created_at >= $1 GROUP BY search_term ORDER BY search_count DESC LIMIT 10",
			wantArgs: []any{"2024-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stmt, err := query.BuildSelect(tt.dialect, tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Equal(t, tt.wantArgs, stmt.Args)
		})
	}
}

func TestBuildSelect_InvalidIdentifier(t *testing.T) {
	t.Parallel()

	specs := map[string]query.SelectSpec{
		"table":    query.NewSelect("';--", nil),
		"column":   query.NewSelect("posts", nil, query.Columns("id", "()")),
		"order by": query.NewSelect("posts", nil, query.OrderBy("--", "ASC")),
		"where":    query.NewSelect("posts", query.Conditions{" ": 1}),
		"join":     query.NewSelect("posts", nil, query.InnerJoin("users", "u", "!", "u.id")),
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			_, err := query.BuildSelect(query.Question, spec)
			assert.ErrorIs(t, err, query.ErrInvalidIdentifier)
		})
	}
}

func TestBuildSelect_InvalidOperator(t *testing.T) {
	t.Parallel()

	spec := query.NewSelect("posts", nil, query.Where(query.Cond{Column: "id", Op: "; DELETE", Value: 1}))
	_, err := query.BuildSelect(query.Question, spec)
	assert.ErrorIs(t, err, query.ErrInvalidOperator)
}

func TestBuildCount(t *testing.T) {
	t.Parallel()

	spec := query.NewSelect("posts", query.Conditions{"status": "published"}, query.Limit(10), query.OrderBy("id", "DESC"))
	stmt, err := query.BuildCount(query.Dollar, spec)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM posts WHERE status = $1", stmt.SQL)
	assert.Equal(t, []any{"published"}, stmt.Args)
}

func TestBuildInsert(t *testing.T) {
	t.Parallel()

	t.Run("question", func(t *testing.T) {
		stmt, err := query.BuildInsert(query.Question, "users", query.Values{"name": "Ann", "email": "ann@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (email, name) VALUES (?, ?)", stmt.SQL)
		assert.Equal(t, []any{"ann@example.com", "Ann"}, stmt.Args)
	})

	t.Run("dollar", func(t *testing.T) {
		stmt, err := query.BuildInsert(query.Dollar, "users", query.Values{"name": "Ann", "email": "ann@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (email, name) VALUES ($1, $2)", stmt.SQL)
	})

	t.Run("values are never inlined", func(t *testing.T) {
		payload := "x'); DROP TABLE users; --"
		stmt, err := query.BuildInsert(query.Question, "posts", query.Values{"title": payload})
		require.NoError(t, err)
		assert.NotContains(t, stmt.SQL, "DROP")
		assert.Equal(t, []any{payload}, stmt.Args)
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := query.BuildInsert(query.Question, "users", query.Values{})
		assert.ErrorIs(t, err, query.ErrEmptyData)
	})
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	stmt, err := query.BuildUpdate(query.Dollar, "posts",
		query.Values{"title": "New", "content": "Body"},
		query.Conditions{"id": 7},
	)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE posts SET content = $1, title = $2 WHERE id = $3", stmt.SQL)
	assert.Equal(t, []any{"Body", "New", 7}, stmt.Args)

	_, err = query.BuildUpdate(query.Question, "posts", query.Values{"title": "x"}, nil)
	assert.ErrorIs(t, err, query.ErrMissingConditions)
}

func TestBuildDelete(t *testing.T) {
	t.Parallel()

	stmt, err := query.BuildDelete(query.Question, "posts", query.Conditions{"id": 7, "user_id": 2})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM posts WHERE id = ? AND user_id = ?", stmt.SQL)
	assert.Equal(t, []any{7, 2}, stmt.Args)

	_, err = query.BuildDelete(query.Question, "posts", query.Conditions{})
	assert.ErrorIs(t, err, query.ErrMissingConditions)
}

func TestDialectFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, query.Dollar, query.DialectFor("pgx"))
	assert.Equal(t, query.Dollar, query.DialectFor("postgres"))
	assert.Equal(t, query.Question, query.DialectFor("sqlite"))
	assert.Equal(t, query.Question, query.DialectFor("mysql"))
}
