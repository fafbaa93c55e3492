// Package queue runs fire-and-forget background tasks on a fixed pool of
// in-process workers.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"conferencecentral/internal/domain"
)

// ErrClosed is returned by Enqueue after the queue has shut down.
var ErrClosed = errors.New("task queue is closed")

const defaultMaxAttempts = 3

// Queue buffers tasks in a channel and dispatches them to handlers by task name.
// A failed handler is retried with backoff; invalid tasks are dropped.
type Queue struct {
	workers     int
	tasks       chan domain.Task
	handlers    map[string]domain.TaskHandler
	maxAttempts uint
	retryDelay  time.Duration
	logger      *slog.Logger

	mu     sync.RWMutex
	closed bool
}

var _ domain.TaskQueue = (*Queue)(nil)

func New(workers, buffer int, logger *slog.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Queue{
		workers:     workers,
		tasks:       make(chan domain.Task, buffer),
		handlers:    make(map[string]domain.TaskHandler),
		maxAttempts: defaultMaxAttempts,
		retryDelay:  100 * time.Millisecond,
		logger:      logger,
	}
}

// Handle registers the handler for a task name. It must be called before Run.
func (q *Queue) Handle(name string, h domain.TaskHandler) {
	q.handlers[name] = h
}

// Enqueue never blocks: a full buffer yields domain.ErrQueueFull.
func (q *Queue) Enqueue(ctx context.Context, task domain.Task) error {
	if _, ok := q.handlers[task.Name]; !ok {
		return fmt.Errorf("%w: no handler for task %q", domain.ErrInvalidInput, task.Name)
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.tasks <- task:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Run processes tasks until ctx is cancelled, then stops accepting new tasks
// and drains the ones already buffered.
func (q *Queue) Run(ctx context.Context) error {
	// Draining must not be cut short by the cancellation that triggered it.
	workCtx := context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	for i := 0; i < q.workers; i++ {
		g.Go(func() error {
			for task := range q.tasks {
				q.process(workCtx, task)
			}
			return nil
		})
	}

	<-ctx.Done()
	q.mu.Lock()
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	err := g.Wait()
	q.logger.Info("task queue drained")
	return err
}

func (q *Queue) process(ctx context.Context, task domain.Task) {
	h := q.handlers[task.Name]
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.retryDelay

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := h(ctx, task)
		if errors.Is(err, domain.ErrInvalidInput) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(q.maxAttempts))
	if err != nil {
		q.logger.Error("task failed", "task", task.Name, "params", task.Params, "attempts", attempts, "error", err)
		return
	}
	q.logger.Debug("task done", "task", task.Name, "attempts", attempts)
}
