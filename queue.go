package vksubmit

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Driver is the queue-submission boundary a backend implements for one
// VkQueue. Each method is a single driver call and may block inside the
// driver. Errors are returned as the driver's Result, unmodified.
type Driver interface {
	// QueueSubmit issues vkQueueSubmit with the batches in order. fence may
	// be NullFence. A call with no batches only signals the fence.
	QueueSubmit(batches []SubmitBatch, fence Fence) error

	// QueuePresent issues vkQueuePresentKHR and returns one result per
	// swapchain, in the order of info.Swapchains, along with the overall
	// result as an error.
	QueuePresent(info *PresentInfo) ([]Result, error)

	// QueueBindSparse issues vkQueueBindSparse with the batches in order.
	QueueBindSparse(batches []BindSparseBatch, fence Fence) error
}

// Queue serializes access to one Driver. Vulkan requires external
// synchronization of a VkQueue, so every flush holds the queue's guard for
// exactly the duration of its driver call.
type Queue struct {
	driver Driver
	lock   *semaphore.Weighted
	label  string
	logger *slog.Logger
}

// QueueOption configures a Queue during creation.
type QueueOption func(*queueOptions)

type queueOptions struct {
	label  string
	logger *slog.Logger
}

// WithLabel names the queue in log records.
func WithLabel(label string) QueueOption {
	return func(o *queueOptions) {
		o.label = label
	}
}

// WithLogger overrides the package logger for this queue.
func WithLogger(l *slog.Logger) QueueOption {
	return func(o *queueOptions) {
		o.logger = l
	}
}

// NewQueue wraps d. The Queue must be the only path to d's VkQueue.
func NewQueue(d Driver, opts ...QueueOption) *Queue {
	var o queueOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Queue{
		driver: d,
		lock:   semaphore.NewWeighted(1),
		label:  o.label,
		logger: o.logger,
	}
}

// Label returns the name given with WithLabel.
func (q *Queue) Label() string {
	return q.label
}

// Lock waits for exclusive access to the queue. ctx only bounds the wait;
// it has no effect on driver calls made while the guard is held.
func (q *Queue) Lock(ctx context.Context) (*Guard, error) {
	if q == nil {
		return nil, ErrNilQueue
	}
	if err := q.lock.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("vksubmit: lock queue %q: %w", q.label, err)
	}
	return &Guard{queue: q}, nil
}

func (q *Queue) log() *slog.Logger {
	l := q.logger
	if l == nil {
		l = Logger()
	}
	if q.label != "" {
		l = l.With("queue", q.label)
	}
	return l
}

// Guard is exclusive access to a Queue. Release it with defer right after a
// successful Lock.
type Guard struct {
	queue    *Queue
	released atomic.Bool
}

// Driver returns the guarded driver.
func (g *Guard) Driver() Driver {
	return g.queue.driver
}

// Release gives the queue back. Calling it more than once is harmless.
func (g *Guard) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.queue.lock.Release(1)
	}
}
