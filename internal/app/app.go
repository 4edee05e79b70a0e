package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/config"
	"github.com/polkiloo/secondfamilies/internal/notify"
	"github.com/polkiloo/secondfamilies/internal/session"
	"github.com/polkiloo/secondfamilies/internal/staging"
	"github.com/polkiloo/secondfamilies/internal/storage/postgres"
	"github.com/polkiloo/secondfamilies/internal/usecase"
	"github.com/polkiloo/secondfamilies/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newCharityFacade,
		newHTTPServer,
		newJanitor,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Auth      *usecase.AuthUseCase
	Donations *usecase.DonationUseCase
	Notifier  *notify.Service
	Storage   *postgres.Storage
}

func newCharityFacade(p facadeParams) *CharityFacade {
	return NewCharityFacade(p.Auth, p.Donations, p.Notifier, p.Storage, p.Config.PublicBaseURL, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type janitorParams struct {
	fx.In

	Area     *staging.Area
	Sessions session.Store
	Config   *config.Config
	Logger   *slog.Logger
}

func newJanitor(p janitorParams) *worker.Janitor {
	var purger worker.Purger
	if mem, ok := p.Sessions.(*session.MemoryStore); ok {
		purger = mem
	}
	return worker.NewJanitor(p.Area, purger, p.Config.JanitorInterval, p.Config.StagingTTL, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Janitor    *worker.Janitor
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting secondfamilies", slog.String("addr", p.Server.Addr))
			p.Janitor.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Janitor.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("secondfamilies stopped")
			return nil
		},
	})
}
