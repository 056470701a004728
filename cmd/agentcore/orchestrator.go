package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/agentcore/internal/config"
	"github.com/aretw0/agentcore/internal/workflow"
	"github.com/aretw0/agentcore/pkg/adapters/aws"
	"github.com/aretw0/agentcore/pkg/client"
	"github.com/aretw0/agentcore/pkg/observability"
	"github.com/aretw0/agentcore/pkg/reasoning"
)

// newBackend builds the configured reasoning backend.
func newBackend(ctx context.Context, cfg config.ReasoningConfig) (reasoning.Backend, error) {
	switch cfg.Backend {
	case config.BackendBedrock:
		awsCfg, err := aws.LoadConfig(ctx, aws.Options{Region: cfg.Region, ServiceRegion: cfg.Region})
		if err != nil {
			return nil, err
		}
		clients := aws.NewClients(awsCfg, aws.Options{ServiceRegion: cfg.Region, ModelID: cfg.Model})
		return reasoning.NewBedrock(clients.Bedrock, cfg.Model), nil
	case config.BackendGemini:
		model := cfg.Model
		if model == "" || model == aws.DefaultModelID {
			model = reasoning.DefaultGeminiModel
		}
		return reasoning.NewGemini(ctx, cfg.APIKey, model)
	default:
		return nil, fmt.Errorf("unknown reasoning backend %q", cfg.Backend)
	}
}

// newInterpreter wires the Tool Client, the Reasoning Client and the metrics hooks into a
// Workflow Interpreter.
func newInterpreter(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*workflow.Interpreter, *client.Client, error) {
	tools := client.New(cfg.Providers,
		client.WithTimeout(cfg.Tools.Timeout.Std()),
		client.WithLogger(logger),
	)

	backend, err := newBackend(ctx, cfg.Reasoning)
	if err != nil {
		return nil, nil, fmt.Errorf("reasoning backend: %w", err)
	}
	reasoner := reasoning.New(backend,
		reasoning.WithMaxTokens(cfg.Reasoning.MaxTokens),
		reasoning.WithTimeout(cfg.Reasoning.Timeout.Std()),
		reasoning.WithLogger(logger),
		reasoning.WithObserver(metrics.ObserveReasoning),
	)

	in := workflow.New(metrics.InstrumentInvoker(tools), reasoner,
		workflow.WithLifecycleHooks(metrics.Hooks()),
		workflow.WithLogger(logger),
	)
	return in, tools, nil
}
