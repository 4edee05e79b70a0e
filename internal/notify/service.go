package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

// Transport delivers composed messages.
type Transport interface {
	Deliver(ctx context.Context, m *Message) error
}

// Sender describes the envelope applied to every outgoing message.
type Sender struct {
	From     string
	FromName string
	// CopyTo receives every message on both Cc and Bcc when set.
	CopyTo string
}

const (
	subjectGoodsReceipt  = "Donate Goods & Items"
	subjectConfirmation  = "Thank you for your donation"
	subjectPasswordReset = "Reset your password"
	recipientTitle       = "Second Family"
)

var (
	goodsReceiptTmpl = template.Must(template.New("goods").Parse(
		`Hey {{.Name}}.Thanks for your Donation of Goods & Items.<br /><br />` +
			`Item - {{.Item}}.<br />` +
			`Quantity - {{.Quantity}}.<br />` +
			`Location - {{.Address}}.<br />` +
			`Do you need a pickup? - {{.NeedPickup}}.<br />` +
			`Can you drop off? - {{.CanDropOff}}.<br />` +
			`Available date/time for pickup/drop off :- {{.DatePickDrop}}.<br /><br /><br />` +
			`Thank You`))

	confirmationTmpl = template.Must(template.New("confirmation").Parse(
		`Hey {{.Name}}.<br /><br />` +
			`Thank you for your donation to Second Families. ` +
			`Your support helps families in need.<br /><br /><br />` +
			`Thank You`))

	resetTmpl = template.Must(template.New("reset").Parse(
		`Hey {{.Name}}.<br /><br />` +
			`Please reset your password by clicking <a href="{{.Link}}">here</a>.<br /><br />` +
			`If you did not request a reset you can ignore this email.`))
)

var ErrUnknownKind = errors.New("unknown notification kind")

// Service composes donation notifications and hands them to a Transport.
type Service struct {
	transport Transport
	sender    Sender
	logger    *slog.Logger
}

// NewService constructs notification service.
func NewService(transport Transport, sender Sender, logger *slog.Logger) *Service {
	return &Service{transport: transport, sender: sender, logger: logger}
}

// SendDonationNotification composes the message for kind and delivers it.
// Transport errors are returned unchanged.
func (s *Service) SendDonationNotification(ctx context.Context, donation model.Donation, kind Kind, attachments []model.Attachment) error {
	msg, err := s.Compose(donation, kind, attachments)
	if err != nil {
		return err
	}
	if err := s.transport.Deliver(ctx, msg); err != nil {
		return err
	}
	s.logger.Info("notification delivered",
		slog.String("kind", string(kind)),
		slog.String("to", msg.To),
		slog.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

// Compose renders the message without sending it. Attachment contents are
// read into memory so the staged files may be removed afterwards.
func (s *Service) Compose(donation model.Donation, kind Kind, attachments []model.Attachment) (*Message, error) {
	data := struct {
		model.Donation
		Name string
	}{Donation: donation, Name: donation.FullName()}

	var (
		tmpl    *template.Template
		subject string
	)
	switch kind {
	case KindGoodsReceipt:
		tmpl, subject = goodsReceiptTmpl, subjectGoodsReceipt
	case KindMonetaryConfirmation:
		tmpl, subject = confirmationTmpl, subjectConfirmation
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	body, err := render(tmpl, data)
	if err != nil {
		return nil, err
	}

	parts := make([]Part, 0, len(attachments))
	for _, a := range attachments {
		content, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", a.Name, err)
		}
		parts = append(parts, Part{Name: a.Name, Data: content})
	}

	msg := s.envelope(kind, donation.Email, subject, body)
	msg.Attachments = parts
	return msg, nil
}

// SendPasswordReset mails a reset link to email.
func (s *Service) SendPasswordReset(ctx context.Context, email, name, link string) error {
	body, err := render(resetTmpl, struct{ Name, Link string }{Name: name, Link: link})
	if err != nil {
		return err
	}
	if err := s.transport.Deliver(ctx, s.envelope(KindPasswordReset, email, subjectPasswordReset, body)); err != nil {
		return err
	}
	s.logger.Info("password reset mail delivered", slog.String("to", email))
	return nil
}

func (s *Service) envelope(kind Kind, to, subject, body string) *Message {
	msg := &Message{
		Kind:     kind,
		FromName: s.sender.FromName,
		From:     s.sender.From,
		ToName:   recipientTitle,
		To:       to,
		Subject:  subject,
		HTMLBody: body,
	}
	if s.sender.CopyTo != "" {
		msg.Cc = []string{s.sender.CopyTo}
		msg.Bcc = []string{s.sender.CopyTo}
	}
	return msg
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
