package mail

import (
	"context"

	apporder "github.com/oculare/shop-backend/internal/application/order"
	"gopkg.in/gomail.v2"
)

// Mailer sends customer notifications over SMTP.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewMailer(host string, port int, username, password, fromName string) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     username,
		fromName: fromName,
	}
}

func (m *Mailer) Send(ctx context.Context, msg apporder.Message) error {
	_ = ctx

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if msg.AttachmentPath != "" {
		gm.Attach(msg.AttachmentPath)
	}

	return m.dialer.DialAndSend(gm)
}
