// Package notify moves account notifications off the request path.
//
// The API side hands events to a Dispatcher, which publishes them from its own
// goroutine; publish failures surface on Errors() and never reach the request.
// The worker side (Mailer) turns published events into mail.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tazhibayda/task-manager/internal/domain"
	applog "github.com/tazhibayda/task-manager/internal/log"
	"github.com/tazhibayda/task-manager/internal/queue"
	"go.uber.org/zap"
)

var (
	ErrQueueFull = errors.New("notify: queue full")
	ErrClosed    = errors.New("notify: dispatcher closed")
)

const publishTimeout = 5 * time.Second

type job struct {
	key   string
	event queue.AccountEvent
	reqID string
}

type Dispatcher struct {
	pub      queue.Publisher
	exchange string
	log      *zap.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	errs   chan error
	wg     sync.WaitGroup
}

func NewDispatcher(pub queue.Publisher, exchange string, log *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 128
	}
	d := &Dispatcher{
		pub:      pub,
		exchange: exchange,
		log:      log,
		jobs:     make(chan job, buffer),
		errs:     make(chan error, buffer),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) Welcome(ctx context.Context, u *domain.User) {
	d.enqueue(ctx, queue.KeyUserRegistered, u)
}

func (d *Dispatcher) Cancellation(ctx context.Context, u *domain.User) {
	d.enqueue(ctx, queue.KeyUserCancelled, u)
}

// Errors reports failed or dropped notifications. Nobody has to read it:
// sends are non-blocking and excess errors are discarded.
func (d *Dispatcher) Errors() <-chan error { return d.errs }

// Close stops intake, publishes what is already queued and waits for the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
	close(d.errs)
}

func (d *Dispatcher) enqueue(ctx context.Context, key string, u *domain.User) {
	j := job{
		key:   key,
		event: queue.AccountEvent{UserID: u.ID.Hex(), Email: u.Email, Name: u.Name},
		reqID: applog.RequestID(ctx),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("notification not delivered", zap.String("key", key), zap.Error(ErrClosed))
		return
	}
	select {
	case d.jobs <- j:
	default:
		d.report(key, ErrQueueFull)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := d.pub.Publish(ctx, d.exchange, j.key, j.event, j.reqID)
		cancel()
		if err != nil {
			d.report(j.key, err)
		}
	}
}

func (d *Dispatcher) report(key string, err error) {
	d.log.Warn("notification not delivered", zap.String("key", key), zap.Error(err))
	select {
	case d.errs <- err:
	default:
	}
}
