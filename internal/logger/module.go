package logger

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/config"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(fromConfig)

func fromConfig(cfg *config.Config) *slog.Logger {
	return New(cfg.LogLevel)
}
