package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/config"
)

// Module provides the notification service and its transport.
var Module = fx.Options(
	fx.Provide(newTransport),
	fx.Provide(newService),
)

type transportParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Lifecycle fx.Lifecycle
}

func newTransport(p transportParams) (Transport, error) {
	var base Transport
	if p.Config.SMTPHost != "" {
		base = NewSMTPTransport(SMTPConfig{
			Host:     p.Config.SMTPHost,
			Port:     p.Config.SMTPPort,
			Username: p.Config.SMTPUser,
			Password: p.Config.SMTPSecret,
		})
	} else {
		drop, err := NewDropTransport(p.Config.MailDropDir)
		if err != nil {
			return nil, err
		}
		p.Logger.Warn("smtp host not configured, writing mail to drop dir", slog.String("dir", p.Config.MailDropDir))
		base = drop
	}

	if !p.Config.NotifyAsync {
		return base, nil
	}

	queue := NewQueue(base, p.Config.NotifyWorkers, p.Config.NotifyQueueSize, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			queue.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			queue.Stop()
			return nil
		},
	})
	return queue, nil
}

func newService(transport Transport, cfg *config.Config, logger *slog.Logger) *Service {
	return NewService(transport, Sender{
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
		CopyTo:   cfg.NotifyCCAddress,
	}, logger)
}
