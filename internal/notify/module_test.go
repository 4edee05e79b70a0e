package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/secondfamilies/internal/config"
)

func TestModule_DropTransportByDefault(t *testing.T) {
	cfg := &config.Config{MailDropDir: t.TempDir(), MailFrom: "noreply@example.org"}
	var (
		transport Transport
		svc       *Service
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Supply(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		Module,
		fx.Populate(&transport, &svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	if _, ok := transport.(*DropTransport); !ok {
		t.Fatalf("expected *DropTransport, got %T", transport)
	}
	if svc == nil || svc.sender.From != "noreply@example.org" {
		t.Fatalf("unexpected service %+v", svc)
	}
}

func TestModule_SMTPAndQueue(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.org", SMTPPort: 587, NotifyAsync: true, NotifyWorkers: 1, NotifyQueueSize: 1}
	var transport Transport
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Supply(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		Module,
		fx.Populate(&transport),
	)
	app.RequireStart()

	queue, ok := transport.(*Queue)
	if !ok {
		t.Fatalf("expected *Queue, got %T", transport)
	}
	if _, ok := queue.next.(*SMTPTransport); !ok {
		t.Fatalf("expected queue to wrap *SMTPTransport, got %T", queue.next)
	}
	app.RequireStop()
	if err := queue.Deliver(context.Background(), sampleMessage()); err == nil {
		t.Fatal("expected closed queue after stop")
	}
}
