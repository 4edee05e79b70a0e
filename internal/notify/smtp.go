package notify

import (
	"context"

	"github.com/wneessen/go-mail"
)

// SMTPConfig describes the relay used by SMTPTransport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport sends each message over a fresh authenticated connection.
type SMTPTransport struct {
	host string
	opts []mail.Option
}

// NewSMTPTransport builds SMTPTransport. Authentication is skipped when no
// username is configured.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return &SMTPTransport{host: cfg.Host, opts: opts}
}

// Deliver connects, authenticates, sends and disconnects. There is no retry
// and go-mail errors are returned as they are.
func (t *SMTPTransport) Deliver(ctx context.Context, m *Message) error {
	msg, err := buildMsg(m)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(t.host, t.opts...)
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return err
	}
	defer client.Close()

	return client.Send(msg)
}
