package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogkit/pkg/config"
	"github.com/dmitrymomot/blogkit/pkg/ratelimiter"
	"github.com/dmitrymomot/blogkit/svc/blog"
	"github.com/dmitrymomot/blogkit/svc/blog/httpapi"
)

var serveFlags struct {
	addr      string
	noMigrate bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Apply pending migrations and start the HTTP API. The server stops
gracefully on SIGINT or SIGTERM.

Examples:
  # Listen on the configured HTTP_ADDR
  blogkit serve

  # Override the listen address
  blogkit serve --addr 127.0.0.1:9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.addr, "addr", "a", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.noMigrate, "no-migrate", false, "do not apply migrations on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !serveFlags.noMigrate {
		if err := a.migrate(ctx); err != nil {
			return err
		}
	}

	var blogCfg blog.Config
	if err := config.Load(&blogCfg); err != nil {
		return err
	}
	var httpCfg httpapi.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	if serveFlags.addr != "" {
		httpCfg.Addr = serveFlags.addr
	}

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), httpCfg.LoginRate)
	if err != nil {
		return err
	}

	api := httpapi.New(a.b, a.authz, blogCfg,
		httpapi.WithLogger(a.log),
		httpapi.WithMaxBodyBytes(httpCfg.MaxBodyBytes),
		httpapi.WithTrustProxy(httpCfg.TrustProxy),
		httpapi.WithLoginLimiter(limiter),
		httpapi.WithSessionStore(httpapi.NewSessionStore(httpapi.WithSessionTTL(httpCfg.SessionTTL))),
	)
	return httpapi.Serve(ctx, httpCfg, api.Router(), a.log)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
