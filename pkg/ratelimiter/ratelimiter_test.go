package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogkit/pkg/clientip"
	"github.com/dmitrymomot/blogkit/pkg/ratelimiter"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newBucket(t *testing.T, c *clock, cfg ratelimiter.Config) (*ratelimiter.Bucket, *ratelimiter.MemoryStore) {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(c.now))
	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b, store
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()

	for _, cfg := range []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b, _ := newBucket(t, c, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})

	res, err := b.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, 2, res.Limit)

	res, _ = b.Allow(ctx, "k")
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	res, _ = b.Allow(ctx, "k")
	assert.False(t, res.Allowed())
	assert.Equal(t, time.Minute, res.RetryAfter(c.now()))

	// Other keys are independent.
	res, _ = b.Allow(ctx, "other")
	assert.True(t, res.Allowed())

	// Denied attempts do not push the bucket further into debt.
	b.Allow(ctx, "k")
	c.advance(time.Minute)
	res, _ = b.Allow(ctx, "k")
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	c.advance(time.Hour)
	res, _ = b.Status(ctx, "k")
	assert.Equal(t, 2, res.Remaining)
}

func TestBucket_AllowN(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Now()}
	b, _ := newBucket(t, c, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second})

	_, err := b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)

	res, err := b.AllowN(context.Background(), "k", 4)
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	res, _ = b.AllowN(context.Background(), "k", 3)
	assert.True(t, res.Allowed())
}

func TestBucket_Reset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{t: time.Now()}
	b, store := newBucket(t, c, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})

	b.Allow(ctx, "k")
	res, _ := b.Allow(ctx, "k")
	assert.False(t, res.Allowed())

	require.NoError(t, b.Reset(ctx, "k"))
	assert.Equal(t, 0, store.Len())
	res, _ = b.Allow(ctx, "k")
	assert.True(t, res.Allowed())
}

func TestMemoryStore_DropsStaleBuckets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &clock{t: time.Now()}
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(c.now), ratelimiter.WithStaleAge(time.Minute))
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)

	b.Allow(ctx, "a")
	b.Allow(ctx, "b")
	assert.Equal(t, 2, store.Len())

	c.advance(2 * time.Minute)
	b.Allow(ctx, "c")
	assert.Equal(t, 1, store.Len())
}

func TestComposite(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	r = r.WithContext(clientip.WithIP(r.Context(), "192.0.2.1"))

	assert.Equal(t, "192.0.2.1:POST /auth/login", ratelimiter.Composite(ratelimiter.ByIP, ratelimiter.ByRoute)(r))
	assert.Equal(t, "", ratelimiter.Composite(func(*http.Request) string { return "" })(r))

	long := ratelimiter.Composite(func(*http.Request) string { return strings.Repeat("x", 100) })(r)
	assert.LessOrEqual(t, len(long), 64)
	assert.NotEmpty(t, long)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	limited := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }
	failed := func(w http.ResponseWriter, _ *http.Request, _ error) { w.WriteHeader(http.StatusInternalServerError) }
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	h := clientip.Middleware(false)(ratelimiter.Middleware(b, ratelimiter.ByIP, limited, failed)(ok))

	send := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	rec := send("192.0.2.1:1000")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = send("192.0.2.1:1001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = send("192.0.2.2:1000")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

type failingStore struct{}

func (failingStore) Consume(context.Context, string, int, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("boom")
}
func (failingStore) Reset(context.Context, string) error { return nil }

func TestMiddleware_StoreError(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(failingStore{}, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)

	var gotErr error
	h := ratelimiter.Middleware(b, ratelimiter.ByRoute,
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
		func(w http.ResponseWriter, _ *http.Request, err error) {
			gotErr = err
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { t.Fatal("handler must not run") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.EqualError(t, gotErr, "boom")
}
