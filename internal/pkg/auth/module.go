package auth

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) (Strategy, error) {
	opts := Options{TTL: p.Config.AuthTokenTTL}
	switch p.Config.AuthStrategy {
	case "", "hmac":
		return NewHMACStrategy(p.Config.AuthSecret, opts), nil
	case "jwt":
		return NewJWTStrategy(p.Config.AuthSecret, opts), nil
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", p.Config.AuthStrategy)
	}
}
