package router

import (
	"html/template"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/secondfamilies/internal/server/http/handlers"
	"github.com/polkiloo/secondfamilies/internal/server/http/middleware"
)

const maxFormBytes = 32 << 20

// Options tunes router behaviour.
type Options struct {
	SecureCookies bool
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CharityFacade, templates *template.Template, logger *slog.Logger, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.MaxMultipartMemory = maxFormBytes
	engine.SetHTMLTemplate(templates)

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(maxFormBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	pageHandler := handlers.NewPageHandler(facade, logger)
	accountHandler := handlers.NewAccountHandler(facade, logger, opts.SecureCookies)
	donationHandler := handlers.NewDonationHandler(facade, logger, opts.SecureCookies)

	engine.GET("/healthz", pageHandler.Health)
	engine.NoRoute(middleware.OptionalAuth(facade), pageHandler.NotFound)

	site := engine.Group("")
	site.Use(middleware.VisitorSession(opts.SecureCookies))
	site.Use(middleware.OptionalAuth(facade))

	site.GET("/", pageHandler.Home)

	account := site.Group("/account")
	account.GET("/register", accountHandler.RegisterPage)
	account.POST("/register", accountHandler.Register)
	account.GET("/login", accountHandler.LoginPage)
	account.POST("/login", accountHandler.Login)
	account.POST("/logout", accountHandler.Logout)
	account.GET("/forgot-password", accountHandler.ForgotPasswordPage)
	account.POST("/forgot-password", accountHandler.ForgotPassword)
	account.GET("/reset-password", accountHandler.ResetPasswordPage)
	account.POST("/reset-password", accountHandler.ResetPassword)

	donate := site.Group("/donate")
	donate.GET("", donationHandler.DonatePage)
	donate.POST("", donationHandler.Donate)
	donate.GET("/goods", donationHandler.GoodsPage)
	donate.POST("/goods", donationHandler.DonateGoods)
	donate.GET("/success", middleware.AuthRequired(facade), donationHandler.Success)

	return engine
}
