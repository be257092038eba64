package logger

import (
	"github.com/brizzai/oauth-relay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Module provides the process logger and routes fx lifecycle events through it
var Module = fx.Module("logger",
	fx.Provide(newFromConfig),
)

// WithFxLogger makes fx report its own events through the provided zap logger
var WithFxLogger = fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
})

func newFromConfig(cfg *config.Config) (*zap.Logger, error) {
	if err := InitLogger(&cfg.Logging); err != nil {
		return nil, err
	}
	return GetLogger(), nil
}
