package blog

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

// Option configures the services of this package.
type Option func(*options)

type options struct {
	log *slog.Logger
	now func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		log: logger.Discard(),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. Store failures that are swallowed by search
// are reported here.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
