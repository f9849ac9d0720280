package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/task-manager/internal/domain"
	applog "github.com/tazhibayda/task-manager/internal/log"
	"github.com/tazhibayda/task-manager/internal/mail"
	"github.com/tazhibayda/task-manager/internal/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type published struct {
	exchange, key, reqID string
	event                queue.AccountEvent
}

type fakePub struct {
	mu    sync.Mutex
	got   []published
	err   error
	block chan struct{}
}

func (f *fakePub) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, published{exchange, key, reqID, event.(queue.AccountEvent)})
	return f.err
}
func (f *fakePub) Close() error { return nil }

func user() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Email: "ann@x.com", Name: "Ann"}
}

func TestDispatcher_PublishesInOrder(t *testing.T) {
	pub := &fakePub{}
	d := NewDispatcher(pub, "account.events", zap.NewNop(), 8)

	ctx := applog.WithRequestID(context.Background(), "req-1")
	u := user()
	d.Welcome(ctx, u)
	d.Cancellation(ctx, u)
	d.Close()

	require.Len(t, pub.got, 2)
	require.Equal(t, queue.KeyUserRegistered, pub.got[0].key)
	require.Equal(t, queue.KeyUserCancelled, pub.got[1].key)
	require.Equal(t, "account.events", pub.got[0].exchange)
	require.Equal(t, "req-1", pub.got[0].reqID)
	require.Equal(t, u.ID.Hex(), pub.got[0].event.UserID)
}

func TestDispatcher_PublishFailureIsIsolated(t *testing.T) {
	boom := errors.New("broker down")
	d := NewDispatcher(&fakePub{err: boom}, "x", zap.NewNop(), 8)

	d.Welcome(context.Background(), user())

	select {
	case err := <-d.Errors():
		require.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported")
	}
	d.Close()
}

func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	pub := &fakePub{block: make(chan struct{})}
	d := NewDispatcher(pub, "x", zap.NewNop(), 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Welcome(context.Background(), user())
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked")
	}

	var full bool
	for len(d.Errors()) > 0 {
		if errors.Is(<-d.Errors(), ErrQueueFull) {
			full = true
		}
	}
	require.True(t, full)

	close(pub.block)
	d.Close()
	d.Welcome(context.Background(), user()) // after Close: dropped, no panic
}

type recordSender struct{ msgs []mail.Message }

func (r *recordSender) Send(_ context.Context, m mail.Message) error {
	r.msgs = append(r.msgs, m)
	return nil
}

func TestMailer_Handle(t *testing.T) {
	s := &recordSender{}
	m := &Mailer{Sender: s, From: "app@x.com", Log: zap.NewNop()}
	ctx := context.Background()

	require.NoError(t, m.Handle(ctx, queue.KeyUserRegistered, []byte(`{"user_id":"1","email":"a@x.com","name":"A"}`)))
	require.NoError(t, m.Handle(ctx, queue.KeyUserCancelled, []byte(`{"user_id":"1","email":"a@x.com","name":"A"}`)))
	require.Len(t, s.msgs, 2)
	require.Equal(t, "Thanks for joining in!", s.msgs[0].Subject)
	require.Equal(t, "Sorry to see you go!", s.msgs[1].Subject)

	require.True(t, queue.IsPermanent(m.Handle(ctx, queue.KeyUserRegistered, []byte(`{`))))
	require.True(t, queue.IsPermanent(m.Handle(ctx, "user.unknown", []byte(`{"email":"a@x.com"}`))))
	require.True(t, queue.IsPermanent(m.Handle(ctx, queue.KeyUserRegistered, []byte(`{}`))))
}

func TestInlinePublisher(t *testing.T) {
	s := &recordSender{}
	p := InlinePublisher{Mailer: &Mailer{Sender: s, From: "app@x.com", Log: zap.NewNop()}}
	err := p.Publish(context.Background(), "x", queue.KeyUserRegistered,
		queue.AccountEvent{UserID: "1", Email: "a@x.com", Name: "A"}, "rid")
	require.NoError(t, err)
	require.Len(t, s.msgs, 1)
	require.Equal(t, "a@x.com", s.msgs[0].To)
}
