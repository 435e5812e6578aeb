// Package svcctx provides service context for dependency injection via
// context, keeping command wiring free of import cycles.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/openpaper/papermeta/internal/config"
	"github.com/openpaper/papermeta/internal/extract"
	"github.com/openpaper/papermeta/internal/providers"
)

// Services holds the core services that flow through context. Components
// extract what they need via the individual extractors.
type Services struct {
	Logger       *slog.Logger
	ConfigMgr    *config.Manager
	Registry     *providers.Registry
	Orchestrator *extract.Orchestrator
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigMgr
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// OrchestratorFrom extracts the extraction orchestrator from context.
func OrchestratorFrom(ctx context.Context) *extract.Orchestrator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Orchestrator
	}
	return nil
}
