// Package relay wires the OAuth relay pages onto an HTTP mux.
package relay

import (
	"net/http"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/logger"
	"github.com/brizzai/oauth-relay/internal/provider"
	"github.com/brizzai/oauth-relay/internal/relay/constants"
	"github.com/brizzai/oauth-relay/internal/relay/handlers"
	"github.com/brizzai/oauth-relay/internal/relay/middleware"
	"github.com/brizzai/oauth-relay/internal/relay/tokenstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service represents the relay
type Service struct {
	storage config.TokenStorage
	handler *handlers.Handler
}

// ServiceParams are the dependencies of NewService
type ServiceParams struct {
	fx.In

	Config   *config.Config
	Provider provider.Provider
	Tokens   tokenstore.Source
	Memory   *tokenstore.MemoryStore `optional:"true"`
}

// NewService creates a new relay service
func NewService(p ServiceParams) *Service {
	return &Service{
		storage: p.Config.Relay.TokenStorage,
		handler: handlers.NewHandler(p.Provider, p.Tokens, p.Memory, p.Config.Relay.CodeParamSource),
	}
}

// RegisterRoutes registers the relay routes. With static-config token storage
// only the profile page is served; the login and exchange pages belong to the
// memory variant.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(constants.HealthPath, s.handler.HandleHealth)
	mux.HandleFunc(constants.UserPath, s.handler.HandleUser)

	if s.storage == config.TokenStorageStatic {
		logger.Info("Serving profile page only", zap.String("token_storage", string(s.storage)))
		return
	}

	mux.HandleFunc(constants.LoginPath+"{$}", s.handler.HandleLogin)
	mux.HandleFunc(constants.CallbackPath, s.handler.HandleCallback)
	mux.HandleFunc(constants.AuthPath, s.handler.HandleCallback)
}

// HTTPHandler returns the relay routes wrapped with the middleware stack
func (s *Service) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return middleware.LogRequests(middleware.Recover(mux))
}

// Module provides the relay service and its token storage
var Module = fx.Module("relay",
	fx.Provide(
		tokenstore.New,
		NewService,
	),
)
