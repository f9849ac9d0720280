package mail

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Message struct {
	From    string
	To      string
	Subject string
	Text    string
}

// Build turns m into a plain-text MIME message with Date and Message-ID set.
func (m Message) Build() (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Text)
	msg.SetDate()
	msg.SetMessageID()
	return msg, nil
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, m Message) error {
	s.Log.Info("mail",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.Int("body_len", len(m.Text)),
	)
	return nil
}

type SMTPSender struct {
	client *gomail.Client
}

// NewSMTPSender builds a client for addr (host:port). PLAIN auth is used
// only when user is set; STARTTLS is attempted when the server offers it.
func NewSMTPSender(addr, user, password string) (*SMTPSender, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("smtp addr: %w", err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return nil, fmt.Errorf("smtp port: %w", err)
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(user),
			gomail.WithPassword(password),
		)
	}
	c, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: c}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := m.Build()
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
