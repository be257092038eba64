// Package server runs the relay HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/logger"
	"github.com/brizzai/oauth-relay/internal/relay"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// defaultShutdownTimeout is the maximum time to wait for server shutdown
	defaultShutdownTimeout = 5 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Server owns the listening socket and the http.Server serving the relay
type Server struct {
	config     *config.ServerConfig
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a new server for the relay routes
func NewServer(cfg *config.Config, svc *relay.Service) *Server {
	return &Server{
		config: &cfg.Server,
		httpServer: &http.Server{
			Addr:              cfg.Server.Address(),
			Handler:           svc.HTTPHandler(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Listen binds the configured address
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Serve accepts connections until Shutdown. It returns nil on a clean shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	logger.Info("Starting server", zap.String("address", s.Addr()))
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	logger.Info("Shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// registerLifecycle ties the server to the fx application lifecycle. A serve
// failure after startup shuts the whole application down.
func registerLifecycle(lc fx.Lifecycle, s *Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := s.Listen(); err != nil {
				return err
			}
			go func() {
				if err := s.Serve(); err != nil {
					logger.Error("Server stopped unexpectedly", zap.Error(err))
					if err := shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						logger.Error("Failed to shut down application", zap.Error(err))
					}
				}
			}()
			return nil
		},
		OnStop: s.Shutdown,
	})
}

// Module provides the HTTP server and starts it with the application
var Module = fx.Module("server",
	fx.Provide(
		NewServer,
	),
	fx.Invoke(registerLifecycle),
)
