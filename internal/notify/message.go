package notify

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Kind selects the notification template.
type Kind string

const (
	KindGoodsReceipt         Kind = "goods_receipt"
	KindMonetaryConfirmation Kind = "monetary_confirmation"
	KindPasswordReset        Kind = "password_reset"
)

// Part is an attachment carried in memory.
type Part struct {
	Name string
	Data []byte
}

// Message is a composed email ready for a Transport.
type Message struct {
	Kind        Kind
	FromName    string
	From        string
	ToName      string
	To          string
	Cc          []string
	Bcc         []string
	Subject     string
	HTMLBody    string
	Attachments []Part
}

// buildMsg converts m into a go-mail message.
func buildMsg(m *Message) (*mail.Msg, error) {
	if m == nil || m.To == "" {
		return nil, errors.New("message has no recipient")
	}
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.FromName, m.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.AddToFormat(m.ToName, m.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if len(m.Cc) > 0 {
		if err := msg.Cc(m.Cc...); err != nil {
			return nil, fmt.Errorf("cc address: %w", err)
		}
	}
	if len(m.Bcc) > 0 {
		if err := msg.Bcc(m.Bcc...); err != nil {
			return nil, fmt.Errorf("bcc address: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTMLBody)
	for _, part := range m.Attachments {
		if err := msg.AttachReader(part.Name, bytes.NewReader(part.Data)); err != nil {
			return nil, fmt.Errorf("attach %s: %w", part.Name, err)
		}
	}
	return msg, nil
}
