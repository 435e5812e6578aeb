package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/openpaper/papermeta/internal/config"
	"github.com/openpaper/papermeta/internal/extract"
	"github.com/openpaper/papermeta/internal/providers"
	"github.com/openpaper/papermeta/internal/svcctx"
)

// newServices wires the config manager, logger, provider registry and
// orchestrator, and attaches them to the command context.
func newServices(ctx context.Context) (context.Context, *svcctx.Services, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return ctx, nil, err
	}
	cfg := cm.Get()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))

	registry := providers.NewRegistry()
	registry.SetLogger(logger)

	buildClient := func(cfg *config.Config) {
		clientCfg := cfg.ToOpenAIConfig()
		clientCfg.Logger = logger
		registry.RegisterLLM(providers.OpenAIName, providers.NewOpenAIClient(clientCfg))
	}
	buildClient(cfg)

	// Rebuild the client when the config file changes on disk. The
	// orchestrator resolves through the registry per call, so the
	// replacement is picked up by the next request.
	cm.OnChange(buildClient)
	cm.WatchConfig()

	orch := extract.NewOrchestrator(registry.ResolveLLM(providers.OpenAIName),
		extract.WithLogger(logger),
		extract.WithFastModel(cfg.LLM.FastModel),
		extract.WithRetries(cfg.LLM.MaxRetries, cfg.RetryDelay()),
		extract.WithMaxContentChars(cfg.Extract.MaxContentChars),
	)

	services := &svcctx.Services{
		Logger:       logger,
		ConfigMgr:    cm,
		Registry:     registry,
		Orchestrator: orch,
	}
	return svcctx.WithServices(ctx, services), services, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
