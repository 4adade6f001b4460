package vksubmit

import (
	"context"
	"fmt"
)

// CommandBufferBuilder accumulates the batches of one vkQueueSubmit call.
// Batches run on the queue in the order they were started; waits and signals
// only constrain their own batch. At most one fence is attached to the call.
//
// The builder is not safe for concurrent use and is consumed by Flush.
type CommandBufferBuilder struct {
	batches  []SubmitBatch
	fence    Fence
	consumed bool
}

// NewCommandBufferBuilder returns a builder with one open, empty batch.
func NewCommandBufferBuilder() *CommandBufferBuilder {
	return &CommandBufferBuilder{batches: make([]SubmitBatch, 1)}
}

func (b *CommandBufferBuilder) current() *SubmitBatch {
	return &b.batches[len(b.batches)-1]
}

// StartBatch closes the current batch and opens a new one. It does nothing
// while the current batch is still empty.
func (b *CommandBufferBuilder) StartBatch() {
	if b.current().empty() {
		return
	}
	b.batches = append(b.batches, SubmitBatch{})
}

// AddCommandBuffer appends cb to the current batch.
func (b *CommandBufferBuilder) AddCommandBuffer(cb CommandBuffer) {
	cur := b.current()
	cur.CommandBuffers = append(cur.CommandBuffers, cb)
}

// AddWait makes the current batch wait on a binary semaphore before stage.
func (b *CommandBufferBuilder) AddWait(sem Semaphore, stage PipelineStageFlags) {
	cur := b.current()
	cur.Waits = append(cur.Waits, SemaphoreWait{Semaphore: sem, Stage: stage})
}

// AddTimelineWait makes the current batch wait until a timeline semaphore
// reaches value.
func (b *CommandBufferBuilder) AddTimelineWait(sem Semaphore, value uint64, stage PipelineStageFlags) {
	cur := b.current()
	cur.Waits = append(cur.Waits, SemaphoreWait{Semaphore: sem, Value: value, Stage: stage})
}

// AddSignal signals a binary semaphore when the current batch completes.
func (b *CommandBufferBuilder) AddSignal(sem Semaphore) {
	cur := b.current()
	cur.Signals = append(cur.Signals, SemaphoreSignal{Semaphore: sem})
}

// AddTimelineSignal sets a timeline semaphore to value when the current batch
// completes.
func (b *CommandBufferBuilder) AddTimelineSignal(sem Semaphore, value uint64) {
	cur := b.current()
	cur.Signals = append(cur.Signals, SemaphoreSignal{Semaphore: sem, Value: value})
}

// SetFence attaches the fence signaled when every batch of the call has
// completed. The fence is for the caller to wait on; Flush never waits.
func (b *CommandBufferBuilder) SetFence(f Fence) error {
	if b.fence != NullFence {
		return fmt.Errorf("%w: command buffer submission", ErrFenceAlreadySet)
	}
	b.fence = f
	return nil
}

// HasFence reports whether a fence is attached.
func (b *CommandBufferBuilder) HasFence() bool {
	return b.fence != NullFence
}

// Fence returns the attached fence, or NullFence.
func (b *CommandBufferBuilder) Fence() Fence {
	return b.fence
}

// SignalCount returns the number of signal operations across all batches.
func (b *CommandBufferBuilder) SignalCount() int {
	n := 0
	for i := range b.batches {
		n += len(b.batches[i].Signals)
	}
	return n
}

// Batches returns the batches that Flush would submit.
func (b *CommandBufferBuilder) Batches() []SubmitBatch {
	batches := b.batches
	if n := len(batches); n > 0 && batches[n-1].empty() {
		batches = batches[:n-1]
	}
	return append([]SubmitBatch(nil), batches...)
}

// Merge appends the batches of other after those of b, so both end up in one
// driver call. Fails without modifying either builder if both carry a fence.
func (b *CommandBufferBuilder) Merge(other *CommandBufferBuilder) error {
	if other == nil || other == b {
		return nil
	}
	if b.HasFence() && other.HasFence() {
		return ErrFenceConflict
	}
	if b.current().empty() {
		b.batches = b.batches[:len(b.batches)-1]
	}
	b.batches = append(b.batches, other.batches...)
	if len(b.batches) == 0 {
		b.batches = append(b.batches, SubmitBatch{})
	}
	if other.HasFence() {
		b.fence = other.fence
	}
	other.batches = []SubmitBatch{{}}
	other.fence = NullFence
	return nil
}

func (b *CommandBufferBuilder) kind() Kind { return KindCommandBuffer }

// prependWaits places waits ahead of the first batch's own waits.
func (b *CommandBufferBuilder) prependWaits(waits []SemaphoreWait) {
	if len(waits) == 0 {
		return
	}
	first := &b.batches[0]
	first.Waits = append(append([]SemaphoreWait(nil), waits...), first.Waits...)
}

// Flush submits every batch with one vkQueueSubmit while holding the queue.
// Driver errors are returned unmodified. Once the queue is held the builder
// is spent, whatever the driver reports; a nil queue or a failed lock leaves
// it intact for another Flush.
func (b *CommandBufferBuilder) Flush(ctx context.Context, q *Queue) error {
	if b.consumed {
		return ErrConsumed
	}
	if q == nil {
		return ErrNilQueue
	}

	batches := b.Batches()
	if len(batches) == 0 && b.fence == NullFence {
		b.consumed = true
		return nil
	}

	g, err := q.Lock(ctx)
	if err != nil {
		return err
	}
	defer g.Release()
	b.consumed = true

	log := q.log()
	log.Debug("vksubmit: queue submit", "batches", len(batches), "fence", b.fence != NullFence)
	if err := g.Driver().QueueSubmit(batches, b.fence); err != nil {
		log.Warn("vksubmit: queue submit failed", "err", err)
		return err
	}
	return nil
}
