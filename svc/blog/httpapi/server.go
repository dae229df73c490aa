package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

var (
	// ErrStart indicates that the server failed to start.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
)

// Serve runs handler until ctx is cancelled, then shuts down gracefully within
// cfg.ShutdownTimeout. Signal handling belongs to the caller's context.
func Serve(ctx context.Context, cfg Config, handler http.Handler, log *slog.Logger) error {
	ln, err := net.Listen("tcp", addrOr(cfg.Addr))
	if err != nil {
		return errors.Join(ErrStart, err)
	}
	return ServeListener(ctx, ln, cfg, handler, log)
}

// ServeListener is Serve on an existing listener.
func ServeListener(ctx context.Context, ln net.Listener, cfg Config, handler http.Handler, log *slog.Logger) error {
	if log == nil {
		log = logger.Discard()
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()), logger.Component("http"))

	var runErr error
	select {
	case <-ctx.Done():
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Join(ErrShutdown, err)
		}
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	log.InfoContext(ctx, "http server stopped", logger.Component("http"))
	return nil
}

func addrOr(addr string) string {
	if addr == "" {
		return ":8080"
	}
	return addr
}
