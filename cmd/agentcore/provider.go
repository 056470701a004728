package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentcore/internal/config"
	"github.com/aretw0/agentcore/pkg/adapters/aws"
	"github.com/aretw0/agentcore/pkg/adapters/custom"
	providerHTTP "github.com/aretw0/agentcore/pkg/adapters/http"
	"github.com/aretw0/agentcore/pkg/adapters/mcp"
	"github.com/aretw0/agentcore/pkg/adapters/sqldb"
	"github.com/aretw0/agentcore/pkg/provider"
)

const (
	transportHTTP  = "http"
	transportStdio = "stdio"
	transportSSE   = "sse"
)

var providerCmd = &cobra.Command{
	Use:       "provider <aws|custom|database>",
	Short:     "Run a tool provider",
	ValidArgs: []string{aws.ProviderName, custom.ProviderName, sqldb.ProviderName},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Starts one tool provider. Options come from the backends.<name> section of the
configuration.

Supported Transports:
- http (default): tools/list and tools/call over JSON POST, as the orchestrator expects.
- stdio: the same registry as an MCP server on Standard Input/Output.
- sse: the same registry as an MCP server over Server-Sent Events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		listen, _ := cmd.Flags().GetString("listen")
		baseURL, _ := cmd.Flags().GetString("base-url")

		p, closer, err := buildProvider(cmd.Context(), cfg, args[0], logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closer(); err != nil {
				logger.Warn("Provider close failed", "err", err)
			}
		}()
		logger = logger.With("provider", p.Name(), "status", p.Status().String())

		switch transport {
		case transportHTTP:
			srv := &http.Server{
				Addr:              listen,
				Handler:           providerHTTP.NewHandler(p, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(srv, logger)
		case transportStdio, transportSSE:
			srv, err := mcp.NewServer(p, logger)
			if err != nil {
				return err
			}
			if transport == transportStdio {
				logger.Info("Starting MCP server (stdio)")
				return srv.ServeStdio()
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if baseURL == "" {
				baseURL = "http://localhost" + listen
			}
			return srv.ServeSSE(ctx, listen, baseURL)
		default:
			return fmt.Errorf("unknown transport %q (supported: http, stdio, sse)", transport)
		}
	},
}

// buildProvider constructs the named provider from its backend options. The returned closer
// releases backend resources.
func buildProvider(ctx context.Context, cfg *config.Config, name string, logger *slog.Logger) (*provider.Provider, func() error, error) {
	noop := func() error { return nil }
	switch name {
	case aws.ProviderName:
		var opts aws.Options
		if err := cfg.BackendOptions(name, &opts); err != nil {
			return nil, nil, err
		}
		return aws.NewProvider(ctx, opts, logger), noop, nil
	case custom.ProviderName:
		var opts custom.Options
		if err := cfg.BackendOptions(name, &opts); err != nil {
			return nil, nil, err
		}
		return custom.NewProvider(ctx, opts, logger), noop, nil
	case sqldb.ProviderName:
		opts := sqldb.Options{Driver: sqldb.DriverSQLite, DSN: "file:agentcore.db"}
		if err := cfg.BackendOptions(name, &opts); err != nil {
			return nil, nil, err
		}
		p, closer := sqldb.NewProvider(ctx, opts, logger)
		return p, closer, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", name)
	}
}

func init() {
	rootCmd.AddCommand(providerCmd)
	providerCmd.Flags().String("transport", transportHTTP, "Transport: 'http', 'stdio' or 'sse'")
	providerCmd.Flags().String("listen", ":80", "Listen address (http and sse)")
	providerCmd.Flags().String("base-url", "", "Public base URL advertised by the SSE transport")
}
