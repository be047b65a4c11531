package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/vidya/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI server",
	Long: `Run the web UI server. Serves the chat page, a websocket endpoint
for exchanges, /healthz, /api/status, and /metrics. Each websocket
connection owns one session.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.sweeper.Start(); err != nil {
		return err
	}

	log := rt.log.GetZerolog()

	// Probe provider connectivity so the status indicator is accurate
	// before the first exchange. A failed probe is logged, not fatal.
	go func() {
		pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := rt.engine.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("Provider connectivity check failed")
			return
		}
		log.Info().Str("provider", rt.cfg.Provider.Provider).Msg("Provider reachable")
	}()

	srv, err := web.NewServer(web.Options{
		Host:               rt.cfg.Web.Host,
		Port:               rt.cfg.Web.Port,
		RateLimitPerMinute: rt.cfg.Web.RateLimitPerMinute,
	}, rt.engine, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
