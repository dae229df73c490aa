package httpapi

import (
	"time"

	"github.com/dmitrymomot/blogkit/pkg/ratelimiter"
)

// Config is the HTTP server configuration.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`             // Addr is the address the server listens on.
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`       // ReadTimeout is the maximum duration for reading the entire request.
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`      // WriteTimeout is the maximum duration before timing out writes of the response.
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`      // IdleTimeout is how long keep-alive connections wait for the next request.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`    // ShutdownTimeout is the time allowed for graceful shutdown.
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"` // MaxBodyBytes caps JSON request bodies.
	TrustProxy      bool          `env:"HTTP_TRUST_PROXY" envDefault:"false"`      // TrustProxy honours forwarding headers for the client address.
	SessionTTL      time.Duration `env:"HTTP_SESSION_TTL" envDefault:"24h"`        // SessionTTL is how long an unused session stays valid.

	// LoginRate throttles sign-in and sign-up attempts per client address.
	LoginRate ratelimiter.Config `envPrefix:"HTTP_LOGIN_RATE_"`
}
