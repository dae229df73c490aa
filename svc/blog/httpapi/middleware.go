package httpapi

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/blogkit/pkg/csrf"
	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/ratelimiter"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

// requestID accepts a well-formed incoming id or generates a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !requestIDPattern.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

// accessLog writes one record per request.
func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				logger.Duration(time.Since(start)),
				logger.Component("http"),
			)
		})
	}
}

// authenticate resolves the session header to an actor. Requests without a
// known session continue as anonymous.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := a.sessions.Get(r.Header.Get(SessionHeader))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx := rbac.WithActor(r.Context(), actorOf(sess))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyCSRF rejects state-changing requests whose token does not match the
// session's.
func (a *API) verifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		sess, ok := a.sessions.Get(r.Header.Get(SessionHeader))
		if !ok || !csrf.Validate(sess, r.Header.Get(CSRFHeader)) {
			a.log.WarnContext(r.Context(), "csrf token rejected", logger.Component("http"))
			writeError(w, http.StatusForbidden, "Invalid CSRF token.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// throttle applies the login limiter, keyed by client address and route.
func (a *API) throttle(next http.Handler) http.Handler {
	if a.limiter == nil {
		return next
	}
	limited := func(w http.ResponseWriter, r *http.Request) {
		a.log.WarnContext(r.Context(), "attempt throttled", slog.String("path", r.URL.Path), logger.Component("http"))
		writeError(w, http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	key := ratelimiter.Composite(ratelimiter.ByIP, ratelimiter.ByRoute)
	return ratelimiter.Middleware(a.limiter, key, limited, a.fail)(next)
}
