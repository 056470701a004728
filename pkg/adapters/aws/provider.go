package aws

import (
	"context"
	"log/slog"

	"github.com/aretw0/agentcore/pkg/provider"
	"github.com/aretw0/agentcore/pkg/registry"
)

// ProviderName is the server id the orchestrator uses for this provider.
const ProviderName = "aws"

// NewProvider connects to AWS and returns the provider. A failed connection is not an
// error: the provider still lists its tools but reports itself unavailable.
func NewProvider(ctx context.Context, opts Options, logger *slog.Logger) *provider.Provider {
	clients, arn, err := Connect(ctx, opts)
	status := provider.Ready()
	if err != nil {
		logger.Warn("AWS session unavailable", "err", err)
		status = provider.Unavailable(CredentialsMessage)
	} else {
		logger.Info("AWS session initialized", "identity", arn)
	}
	return NewProviderWithClients(clients, opts, status, logger)
}

// NewProviderWithClients builds the provider over already-constructed clients.
func NewProviderWithClients(clients *Clients, opts Options, status provider.Status, logger *slog.Logger) *provider.Provider {
	reg := registry.MustNew(Tools(clients, opts)...)
	return provider.New(ProviderName, reg, status, provider.WithLogger(logger))
}
