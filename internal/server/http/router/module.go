package router

import (
	"html/template"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/app"
	"github.com/polkiloo/secondfamilies/internal/config"
	"github.com/polkiloo/secondfamilies/internal/server/http/handlers"
	"github.com/polkiloo/secondfamilies/web"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	func(f *app.CharityFacade) handlers.CharityFacade { return f },
	web.Templates,
	newEngine,
)

type engineParams struct {
	fx.In

	Facade    handlers.CharityFacade
	Templates *template.Template
	Logger    *slog.Logger
	Config    *config.Config
}

func newEngine(p engineParams) *gin.Engine {
	return Setup(p.Facade, p.Templates, p.Logger, Options{SecureCookies: p.Config.CookieSecure})
}
