package vksubmit

import (
	"context"
	"fmt"
)

// BindSparseBuilder accumulates the batches of one vkQueueBindSparse call.
// At most one fence is attached to the call.
//
// Overlapping binds of one resource with different memory in the same batch
// are undefined in the driver and are not detected here. Neither are resource
// groups with no binds; callers must leave those out.
type BindSparseBuilder struct {
	batches  []BindSparseBatch
	fence    Fence
	consumed bool
}

// NewBindSparseBuilder returns an empty builder with no batches.
func NewBindSparseBuilder() *BindSparseBuilder {
	return &BindSparseBuilder{}
}

// AddBatch appends the contents of batch as the next batch of the call and
// resets batch so it can be filled again.
func (b *BindSparseBuilder) AddBatch(batch *BindSparseBatchBuilder) {
	b.batches = append(b.batches, batch.info)
	batch.info = BindSparseBatch{}
}

// SetFence attaches the fence signaled when every batch has completed.
func (b *BindSparseBuilder) SetFence(f Fence) error {
	if b.fence != NullFence {
		return fmt.Errorf("%w: sparse bind", ErrFenceAlreadySet)
	}
	b.fence = f
	return nil
}

// HasFence reports whether a fence is attached.
func (b *BindSparseBuilder) HasFence() bool {
	return b.fence != NullFence
}

// Fence returns the attached fence, or NullFence.
func (b *BindSparseBuilder) Fence() Fence {
	return b.fence
}

// Batches returns the batches that Flush would issue.
func (b *BindSparseBuilder) Batches() []BindSparseBatch {
	return append([]BindSparseBatch(nil), b.batches...)
}

// Merge appends the batches of other after those of b. Fails without
// modifying either builder if both carry a fence.
func (b *BindSparseBuilder) Merge(other *BindSparseBuilder) error {
	if other == nil || other == b {
		return nil
	}
	if b.HasFence() && other.HasFence() {
		return ErrFenceConflict
	}
	b.batches = append(b.batches, other.batches...)
	if other.HasFence() {
		b.fence = other.fence
	}
	other.batches = nil
	other.fence = NullFence
	return nil
}

func (b *BindSparseBuilder) kind() Kind { return KindBindSparse }

// prependWaits places waits ahead of the first batch's own waits, opening a
// batch if there is none. Sparse binding has no wait stage, so stages are
// dropped.
func (b *BindSparseBuilder) prependWaits(waits []SemaphoreWait) {
	if len(waits) == 0 {
		return
	}
	if len(b.batches) == 0 {
		b.batches = append(b.batches, BindSparseBatch{})
	}
	first := &b.batches[0]
	merged := make([]SemaphoreWait, 0, len(waits)+len(first.Waits))
	for _, w := range waits {
		merged = append(merged, SemaphoreWait{Semaphore: w.Semaphore, Value: w.Value})
	}
	first.Waits = append(merged, first.Waits...)
}

// Flush issues every batch with one vkQueueBindSparse while holding the
// queue. Driver errors are returned unmodified. The builder is spent once the
// queue is held.
func (b *BindSparseBuilder) Flush(ctx context.Context, q *Queue) error {
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
	log.Debug("vksubmit: queue bind sparse", "batches", len(batches), "fence", b.fence != NullFence)
	if err := g.Driver().QueueBindSparse(batches, b.fence); err != nil {
		log.Warn("vksubmit: queue bind sparse failed", "err", err)
		return err
	}
	return nil
}

// BindSparseBatchBuilder collects one batch of a sparse bind call: its own
// waits and signals, and any number of per-resource bind groups.
type BindSparseBatchBuilder struct {
	info BindSparseBatch
}

// NewBindSparseBatchBuilder returns an empty batch.
func NewBindSparseBatchBuilder() *BindSparseBatchBuilder {
	return &BindSparseBatchBuilder{}
}

// AddWait makes the batch wait on a binary semaphore.
func (b *BindSparseBatchBuilder) AddWait(sem Semaphore) {
	b.info.Waits = append(b.info.Waits, SemaphoreWait{Semaphore: sem})
}

// AddTimelineWait makes the batch wait until a timeline semaphore reaches value.
func (b *BindSparseBatchBuilder) AddTimelineWait(sem Semaphore, value uint64) {
	b.info.Waits = append(b.info.Waits, SemaphoreWait{Semaphore: sem, Value: value})
}

// AddSignal signals a binary semaphore once the batch's binds are done.
func (b *BindSparseBatchBuilder) AddSignal(sem Semaphore) {
	b.info.Signals = append(b.info.Signals, SemaphoreSignal{Semaphore: sem})
}

// AddTimelineSignal sets a timeline semaphore to value once the batch's binds are done.
func (b *BindSparseBatchBuilder) AddTimelineSignal(sem Semaphore, value uint64) {
	b.info.Signals = append(b.info.Signals, SemaphoreSignal{Semaphore: sem, Value: value})
}

// AddBuffer appends the binds collected by r and resets r.
func (b *BindSparseBatchBuilder) AddBuffer(r *SparseBufferBindBuilder) {
	b.info.BufferBinds = append(b.info.BufferBinds, SparseBufferBindInfo{Buffer: r.buffer, Binds: r.binds})
	r.binds = nil
}

// AddImageOpaque appends the binds collected by r and resets r.
func (b *BindSparseBatchBuilder) AddImageOpaque(r *SparseImageOpaqueBindBuilder) {
	b.info.ImageOpaqueBinds = append(b.info.ImageOpaqueBinds, SparseImageOpaqueBindInfo{Image: r.image, Binds: r.binds})
	r.binds = nil
}

// AddImage appends the binds collected by r and resets r.
func (b *BindSparseBatchBuilder) AddImage(r *SparseImageBindBuilder) {
	b.info.ImageBinds = append(b.info.ImageBinds, SparseImageBindInfo{Image: r.image, Binds: r.binds})
	r.binds = nil
}

// SignalCount returns the number of signals in the batch.
func (b *BindSparseBatchBuilder) SignalCount() int {
	return len(b.info.Signals)
}

// IsEmpty reports whether the batch holds no waits, signals or binds.
func (b *BindSparseBatchBuilder) IsEmpty() bool {
	return len(b.info.Waits) == 0 && len(b.info.Signals) == 0 &&
		len(b.info.BufferBinds) == 0 && len(b.info.ImageOpaqueBinds) == 0 && len(b.info.ImageBinds) == 0
}

// SparseBufferBindBuilder collects the binds of one sparse buffer.
type SparseBufferBindBuilder struct {
	buffer Buffer
	binds  []SparseMemoryBind
}

// NewSparseBufferBindBuilder starts a bind group for buf.
func NewSparseBufferBindBuilder(buf Buffer) *SparseBufferBindBuilder {
	return &SparseBufferBindBuilder{buffer: buf}
}

// AddBind backs size bytes of the buffer at offset with mem at memOffset.
func (r *SparseBufferBindBuilder) AddBind(offset, size uint64, mem DeviceMemory, memOffset uint64) {
	r.binds = append(r.binds, SparseMemoryBind{
		ResourceOffset: offset,
		Size:           size,
		Memory:         mem,
		MemoryOffset:   memOffset,
	})
}

// AddUnbind removes the backing of size bytes at offset.
func (r *SparseBufferBindBuilder) AddUnbind(offset, size uint64) {
	r.binds = append(r.binds, SparseMemoryBind{ResourceOffset: offset, Size: size})
}

// SparseImageOpaqueBindBuilder collects opaque binds of one sparse image,
// addressed as a linear range with no subresource layout.
type SparseImageOpaqueBindBuilder struct {
	image Image
	binds []SparseMemoryBind
}

// NewSparseImageOpaqueBindBuilder starts an opaque bind group for img.
func NewSparseImageOpaqueBindBuilder(img Image) *SparseImageOpaqueBindBuilder {
	return &SparseImageOpaqueBindBuilder{image: img}
}

// AddBind backs size bytes at offset with mem at memOffset. metadata selects
// the image's metadata aspect instead of its data.
func (r *SparseImageOpaqueBindBuilder) AddBind(offset, size uint64, mem DeviceMemory, memOffset uint64, metadata bool) {
	var flags SparseMemoryBindFlags
	if metadata {
		flags = SPARSE_MEMORY_BIND_METADATA_BIT
	}
	r.binds = append(r.binds, SparseMemoryBind{
		ResourceOffset: offset,
		Size:           size,
		Memory:         mem,
		MemoryOffset:   memOffset,
		Flags:          flags,
	})
}

// AddUnbind removes the backing of size bytes at offset.
func (r *SparseImageOpaqueBindBuilder) AddUnbind(offset, size uint64) {
	r.binds = append(r.binds, SparseMemoryBind{ResourceOffset: offset, Size: size})
}

// SparseImageBindBuilder collects subresource-aware binds of one sparse
// residency image.
type SparseImageBindBuilder struct {
	image Image
	binds []SparseImageMemoryBind
}

// NewSparseImageBindBuilder starts a subresource bind group for img.
func NewSparseImageBindBuilder(img Image) *SparseImageBindBuilder {
	return &SparseImageBindBuilder{image: img}
}

// AddBind backs one block of a subresource.
func (r *SparseImageBindBuilder) AddBind(bind SparseImageMemoryBind) {
	r.binds = append(r.binds, bind)
}

// AddUnbind removes the backing of one block of a subresource.
func (r *SparseImageBindBuilder) AddUnbind(subresource ImageSubresource, offset Offset3D, extent Extent3D) {
	r.binds = append(r.binds, SparseImageMemoryBind{
		Subresource: subresource,
		Offset:      offset,
		Extent:      extent,
	})
}
