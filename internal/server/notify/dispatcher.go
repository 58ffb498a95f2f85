package notify

import (
	"context"
	"sync"

	"github.com/akash0382/ApniSec/internal/logging"
)

const (
	DefaultQueueSize = 256
	DefaultWorkers   = 2
)

// Dispatcher queues notifications and delivers them from a fixed pool of
// workers. A full queue drops the notification.
type Dispatcher struct {
	sender Sender
	logger logging.Logger
	queue  chan Notification
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, logger logging.Logger, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	d := &Dispatcher{
		sender: sender,
		logger: logger,
		queue:  make(chan Notification, queueSize),
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}
	return d
}

func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn(ctx, "dispatcher closed, dropping notification", "kind", n.Kind, "to", n.To)
		return
	}
	select {
	case d.queue <- n:
	default:
		d.logger.Warn(ctx, "notification queue full, dropping", "kind", n.Kind, "to", n.To)
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	ctx := context.Background()
	for n := range d.queue {
		d.deliver(ctx, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notification) {
	msg, err := Render(n)
	if err != nil {
		d.logger.Error(ctx, "render notification", "kind", n.Kind, "error", err)
		return
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn(ctx, "send notification failed", "kind", n.Kind, "to", n.To, "error", err)
		return
	}
	d.logger.Debug(ctx, "notification sent", "kind", n.Kind, "to", n.To)
}

// Close stops accepting notifications and waits for the queued ones to be
// delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
