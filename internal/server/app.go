package server

import (
	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/logger"
	"github.com/brizzai/oauth-relay/internal/provider"
	"github.com/brizzai/oauth-relay/internal/relay"
	"github.com/brizzai/oauth-relay/internal/requester"
	"go.uber.org/fx"
)

// Options assembles the application graph for cfg
func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		logger.WithFxLogger,
		logger.Module,
		requester.Module,
		provider.Module,
		relay.Module,
		Module,
	)
}
