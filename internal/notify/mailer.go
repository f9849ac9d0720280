package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tazhibayda/task-manager/internal/mail"
	"github.com/tazhibayda/task-manager/internal/queue"
	"go.uber.org/zap"
)

// Mailer turns account events into mail. Its Handle method is a queue.Handler.
type Mailer struct {
	Sender mail.Sender
	From   string
	Log    *zap.Logger
}

func (m *Mailer) Handle(ctx context.Context, key string, body []byte) error {
	var ev queue.AccountEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return queue.Permanent(fmt.Errorf("decode %s: %w", key, err))
	}
	if ev.Email == "" {
		return queue.Permanent(fmt.Errorf("%s: empty email", key))
	}

	var msg mail.Message
	switch key {
	case queue.KeyUserRegistered:
		msg = mail.Welcome(m.From, ev.Email, ev.Name)
	case queue.KeyUserCancelled:
		msg = mail.Cancellation(m.From, ev.Email, ev.Name)
	default:
		return queue.Permanent(fmt.Errorf("unknown routing key %q", key))
	}

	if err := m.Sender.Send(ctx, msg); err != nil {
		return err
	}
	m.Log.Debug("mail sent", zap.String("key", key), zap.String("user_id", ev.UserID))
	return nil
}

// InlinePublisher delivers events straight to a Mailer, for deployments without a broker.
type InlinePublisher struct {
	Mailer *Mailer
}

func (p InlinePublisher) Publish(ctx context.Context, _ string, key string, event any, _ string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Mailer.Handle(ctx, key, body)
}

func (InlinePublisher) Close() error { return nil }
