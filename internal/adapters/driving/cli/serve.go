package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/ragchat/internal/logger"
	"github.com/custodia-labs/ragchat/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API: POST /api/documents accepts an upload and
GET /api/chat streams answers as server-sent events. When a watch
directory is configured, files dropped there are ingested
automatically.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestSvc == nil || chatSvc == nil {
		return errors.New("services not configured")
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	server := httpapi.NewServer(ingestSvc, chatSvc,
		httpapi.WithUploadsDir(cfg.Server.UploadsDir),
		httpapi.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.WatchDir != "" {
		w := watcher.New(cfg.Server.WatchDir, ingestSvc)
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Watcher stopped: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(addr)
	}()

	select {
	case <-ctx.Done():
		cmd.Println("Shutting down.")
		return nil
	case err := <-errCh:
		return err
	}
}
