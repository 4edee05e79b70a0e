package session

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/config"
)

// Module provides the hand-off Store: redis when configured, memory otherwise.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Lifecycle fx.Lifecycle
}

func newStore(p storeParams) (Store, error) {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("using in-memory session store")
		return NewMemoryStore(p.Config.SessionTTL), nil
	}
	store, err := NewRedisStore(context.Background(), RedisOptions{
		Addr:     p.Config.RedisAddr,
		Password: p.Config.RedisPassword,
		DB:       p.Config.RedisDB,
		TTL:      p.Config.SessionTTL,
	})
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
