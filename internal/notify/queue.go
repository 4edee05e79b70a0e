package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrQueueClosed = errors.New("notification queue closed")

// Queue delivers messages asynchronously through a pool of workers.
// Delivery failures are logged and dropped.
type Queue struct {
	next    Transport
	workers int
	logger  *slog.Logger

	jobs    chan *Message
	done    chan struct{}
	wg      sync.WaitGroup
	senders sync.WaitGroup
	mu      sync.RWMutex
	cancel  context.CancelFunc
	stopped bool
}

// NewQueue constructs a queue in front of next.
func NewQueue(next Transport, workers, size int, logger *slog.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 1
	}
	return &Queue{
		next:    next,
		workers: workers,
		logger:  logger,
		jobs:    make(chan *Message, size),
		done:    make(chan struct{}),
	}
}

// Start launches the workers.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	q.cancel = cancel

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(runCtx)
	}
}

// Stop refuses new messages, drains queued ones and waits for workers.
// Messages still queued when no worker was ever started are dropped.
func (q *Queue) Stop() {
	q.mu.Lock()
	first := !q.stopped
	if first {
		q.stopped = true
		close(q.done)
	}
	q.mu.Unlock()

	if first {
		q.senders.Wait()
		close(q.jobs)
	}
	q.wg.Wait()

	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.mu.Unlock()
}

// Deliver enqueues m, blocking while the queue is full. A blocked Deliver
// returns ErrQueueClosed once Stop is called.
func (q *Queue) Deliver(ctx context.Context, m *Message) error {
	q.mu.RLock()
	if q.stopped {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.RUnlock()
	defer q.senders.Done()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrQueueClosed
	case q.jobs <- m:
		return nil
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for m := range q.jobs {
		if err := q.next.Deliver(ctx, m); err != nil {
			q.logger.Error("async notification failed",
				slog.String("kind", string(m.Kind)),
				slog.String("to", m.To),
				slog.String("error", err.Error()),
			)
		}
	}
}
