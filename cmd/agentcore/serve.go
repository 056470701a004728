package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentcore"
	httpAdapter "github.com/aretw0/agentcore/internal/adapters/http"
	"github.com/aretw0/agentcore/internal/presentation/tui"
	"github.com/aretw0/agentcore/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workflow front door",
	Long:  `Starts the Workflow Interpreter behind an HTTP server accepting workflow/execute requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Server.Listen = listen
		}

		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr, strings.TrimSpace(agentcore.Version))
		}

		metrics := observability.NewMetrics()
		in, tools, err := newInterpreter(cmd.Context(), cfg, metrics, logger)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr: cfg.Server.Listen,
			Handler: httpAdapter.NewHandler(in,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetrics(metrics.Handler()),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return runServer(srv, logger.With("servers", tools.Servers()))
	},
}

// runServer serves until SIGINT/SIGTERM, then drains in-flight requests.
func runServer(srv *http.Server, logger *slog.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-shutdown:
		logger.Info("Shutdown started", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "Listen address (overrides server.listen)")
}
