package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/blogkit/pkg/clientip"
	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/ratelimiter"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/svc/blog"
)

// API is the JSON surface of the blog.
type API struct {
	b        *query.Builder
	authz    *rbac.Authorizer
	search   *blog.Search
	posts    *blog.PostService
	auth     *blog.Auth
	sessions *SessionStore
	limiter  *ratelimiter.Bucket
	log      *slog.Logger
	maxBody  int64
	trust    bool
	db       *sql.DB
	driver   string
}

// Option configures an API.
type Option func(*apiOptions)

type apiOptions struct {
	log      *slog.Logger
	sessions *SessionStore
	limiter  *ratelimiter.Bucket
	maxBody  int64
	trust    bool
	db       *sql.DB
	driver   string
	blogOpts []blog.Option
}

func WithLogger(l *slog.Logger) Option {
	return func(o *apiOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSessionStore shares a session store, e.g. between tests and the API.
func WithSessionStore(s *SessionStore) Option {
	return func(o *apiOptions) { o.sessions = s }
}

// WithMaxBodyBytes caps JSON request bodies. The default is 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(o *apiOptions) {
		if n > 0 {
			o.maxBody = n
		}
	}
}

// WithLoginLimiter throttles login and registration per client address.
// Without it those routes are not limited.
func WithLoginLimiter(b *ratelimiter.Bucket) Option {
	return func(o *apiOptions) { o.limiter = b }
}

// WithTrustProxy reads the client address from forwarding headers.
func WithTrustProxy(trust bool) Option {
	return func(o *apiOptions) { o.trust = trust }
}

// WithStoreStats mounts the admin-only GET /stats report over db.
func WithStoreStats(db *sql.DB, driver string) Option {
	return func(o *apiOptions) {
		o.db = db
		o.driver = driver
	}
}

// WithServiceOptions passes options to the underlying blog services.
func WithServiceOptions(opts ...blog.Option) Option {
	return func(o *apiOptions) { o.blogOpts = append(o.blogOpts, opts...) }
}

func New(b *query.Builder, authz *rbac.Authorizer, cfg blog.Config, opts ...Option) *API {
	o := apiOptions{log: logger.Discard(), maxBody: 1 << 20}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sessions == nil {
		o.sessions = NewSessionStore()
	}
	svcOpts := append([]blog.Option{blog.WithLogger(o.log)}, o.blogOpts...)

	return &API{
		b:        b,
		authz:    authz,
		search:   blog.NewSearch(b, authz, cfg, svcOpts...),
		posts:    blog.NewPostService(b, authz, svcOpts...),
		auth:     blog.NewAuth(b, authz, cfg, svcOpts...),
		sessions: o.sessions,
		limiter:  o.limiter,
		log:      o.log,
		maxBody:  o.maxBody,
		trust:    o.trust,
		db:       o.db,
		driver:   o.driver,
	}
}

// Router returns the HTTP handler with every route mounted.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, clientip.Middleware(a.trust), middleware.Recoverer, accessLog(a.log), a.authenticate)

	r.Get("/healthz", a.liveness)
	r.Get("/readyz", a.readiness)

	r.Route("/auth", func(r chi.Router) {
		r.With(a.throttle).Post("/register", a.register)
		r.With(a.throttle).Post("/login", a.login)
		r.With(a.verifyCSRF).Post("/logout", a.logout)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Use(a.verifyCSRF)
		r.Get("/", a.listPosts)
		r.Get("/search", a.searchPosts)
		r.Get("/suggestions", a.suggestions)
		r.Get("/categories", a.categories)
		r.Post("/", a.createPost)
		r.Get("/{id}", a.getPost)
		r.Put("/{id}", a.updatePost)
		r.Delete("/{id}", a.deletePost)
	})

	r.With(rbac.RequirePermissionMiddleware(a.authz, rbac.PermViewReports)).
		Get("/searches/popular", a.popular)

	r.Route("/users", func(r chi.Router) {
		r.Use(rbac.RequirePermissionMiddleware(a.authz, rbac.PermManageUsers), a.verifyCSRF)
		r.Get("/search", a.searchUsers)
		r.Put("/{id}/role", a.changeRole)
	})

	r.With(rbac.RequireRoleMiddleware(a.authz, rbac.RoleAdmin)).
		Get("/roles", a.roles)
	if a.db != nil {
		r.With(rbac.RequireRoleMiddleware(a.authz, rbac.RoleAdmin)).
			Get("/stats", a.storeStats)
	}

	return r
}

func (a *API) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (a *API) readiness(w http.ResponseWriter, r *http.Request) {
	if !a.b.HealthCheck(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type roleView struct {
	Name        string   `json:"name"`
	Level       int      `json:"level"`
	Permissions []string `json:"permissions"`
}

func (a *API) roles(w http.ResponseWriter, _ *http.Request) {
	h := a.authz.Hierarchy()
	out := make([]roleView, 0, len(h.Roles()))
	for _, name := range h.Roles() {
		level, _ := h.Level(name)
		out = append(out, roleView{Name: name, Level: level, Permissions: h.Permissions(name)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) storeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := blog.StoreStats(r.Context(), a.db, a.driver)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
