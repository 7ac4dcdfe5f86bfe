package cli

import (
	"context"
	"log/slog"
	"time"

	"sage/internal/agent"
	"sage/internal/auth"
	"sage/internal/config"
	"sage/internal/mcp"
	"sage/internal/provider"
)

// runtime holds everything a command needs after wiring: discovered
// tools, the model provider, and the event bus.
type runtime struct {
	cfg      config.Config
	registry *mcp.Registry
	invoker  *mcp.Invoker
	provider *provider.Gemini
	bus      *agent.Bus
	logger   *slog.Logger
}

// buildRuntime loads configuration, connects every tool server, and
// wires the provider behind the token client.
func buildRuntime(ctx context.Context, configPath string, logger *slog.Logger) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewClient(auth.Config{
		URL:          cfg.Auth.URL,
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		Scope:        cfg.LLM.Scope,
		DefaultTTL:   time.Duration(cfg.Auth.TokenRefreshSeconds) * time.Second,
	}, nil)

	servers := make([]mcp.Server, 0, len(cfg.MCP.Servers))
	for name, server := range cfg.MCP.Servers {
		client := mcp.NewClient(server.URL, nil, time.Duration(server.TimeoutSeconds)*time.Second)
		servers = append(servers, mcp.Server{Name: name, Client: client})
	}
	registry := mcp.NewRegistry(servers)
	if err := registry.Discover(ctx); err != nil {
		return nil, err
	}
	logger.Debug("discovered tools", "count", len(registry.Tools()))

	gemini := provider.NewGemini(provider.Config{
		URL:         cfg.LLM.URL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		TopK:        cfg.LLM.TopK,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, tokens, nil)

	return &runtime{
		cfg:      cfg,
		registry: registry,
		invoker:  mcp.NewInvoker(registry, time.Duration(cfg.Agent.ToolTimeoutSeconds)*time.Second),
		provider: gemini,
		bus:      agent.NewBus(logger),
		logger:   logger,
	}, nil
}

// newSession builds a conversation session over the runtime's wiring.
func (r *runtime) newSession() *agent.Session {
	orchestrator := &agent.Orchestrator{
		Provider:      r.provider,
		Invoker:       r.invoker,
		Tools:         r.registry.Tools(),
		System:        r.cfg.Agent.SystemPrompt,
		Bus:           r.bus,
		MaxIterations: r.cfg.Agent.MaxIterations,
	}
	return agent.NewSession(orchestrator, r.cfg.Agent.HistoryTurns)
}
