package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/app"
	"github.com/polkiloo/secondfamilies/internal/archive"
	"github.com/polkiloo/secondfamilies/internal/config"
	"github.com/polkiloo/secondfamilies/internal/logger"
	"github.com/polkiloo/secondfamilies/internal/notify"
	"github.com/polkiloo/secondfamilies/internal/pkg/auth"
	"github.com/polkiloo/secondfamilies/internal/server/http/router"
	"github.com/polkiloo/secondfamilies/internal/session"
	"github.com/polkiloo/secondfamilies/internal/staging"
	"github.com/polkiloo/secondfamilies/internal/storage/postgres"
	"github.com/polkiloo/secondfamilies/internal/usecase"
)

// Module assembles the full application graph. Extra options are appended
// last so callers can replace any component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		staging.Module,
		session.Module,
		notify.Module,
		archive.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
