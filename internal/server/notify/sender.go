package notify

import (
	"context"

	"github.com/akash0382/ApniSec/internal/logging"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers messages over SMTP. Port 465 uses implicit TLS.
type SMTPSender struct {
	from   string
	dialer mailDialer
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{from: from, dialer: gomail.NewDialer(host, port, user, password)}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return s.dialer.DialAndSend(m)
}

// LogSender records messages instead of sending them. Used when SMTP is not
// configured.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Warn(ctx, "email disabled, skipping", "to", msg.To, "subject", msg.Subject)
	return nil
}
