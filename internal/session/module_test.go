package session

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/secondfamilies/internal/config"
)

func TestModule_SelectsStore(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var store Store
	app := fxtest.New(t,
		fx.Supply(&config.Config{SessionTTL: time.Minute}),
		fx.Supply(logger),
		Module,
		fx.Populate(&store),
	)
	app.RequireStart()
	app.RequireStop()
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", store)
	}

	fake := newFakeRedis()
	withFakeRedis(t, fake)
	app = fxtest.New(t,
		fx.Supply(&config.Config{RedisAddr: "localhost:6379", SessionTTL: time.Minute}),
		fx.Supply(logger),
		Module,
		fx.Populate(&store),
	)
	app.RequireStart()
	if _, ok := store.(*RedisStore); !ok {
		t.Fatalf("expected *RedisStore, got %T", store)
	}
	app.RequireStop()
	if !fake.closed {
		t.Fatal("expected redis client closed on stop")
	}
}
