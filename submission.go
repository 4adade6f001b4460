package vksubmit

import (
	"context"
	"fmt"
)

// Kind identifies what a Submission holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindSemaphoresWait
	KindCommandBuffer
	KindPresent
	KindBindSparse
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindSemaphoresWait:
		return "semaphores wait"
	case KindCommandBuffer:
		return "command buffer"
	case KindPresent:
		return "present"
	case KindBindSparse:
		return "bind sparse"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Builder is one of *SemaphoresWaitBuilder, *CommandBufferBuilder,
// *PresentBuilder or *BindSparseBuilder. The set is closed.
type Builder interface {
	kind() Kind
}

// waitReceiver is implemented by the builders that a pending semaphore wait
// can be fused into.
type waitReceiver interface {
	Builder
	prependWaits([]SemaphoreWait)
}

var (
	_ waitReceiver = (*CommandBufferBuilder)(nil)
	_ waitReceiver = (*PresentBuilder)(nil)
	_ waitReceiver = (*BindSparseBuilder)(nil)
)

// Submission holds at most one pending builder for a queue. A pending
// semaphore wait is fused into the next builder handed to Merge, so work that
// must wait on unrelated earlier work costs one driver call instead of two.
//
// The zero value is empty and ready to use.
type Submission struct {
	pending Builder
}

// IsEmpty reports whether nothing is pending.
func (s *Submission) IsEmpty() bool {
	return s.pending == nil
}

// Kind returns the kind of the pending builder, or KindEmpty.
func (s *Submission) Kind() Kind {
	if s.pending == nil {
		return KindEmpty
	}
	return s.pending.kind()
}

// Builder returns the pending builder, or nil.
func (s *Submission) Builder() Builder {
	return s.pending
}

// Set stores b as the pending builder. The submission must be empty.
func (s *Submission) Set(b Builder) error {
	if s.pending != nil {
		return fmt.Errorf("%w: %s", ErrPending, s.pending.kind())
	}
	if isNilBuilder(b) {
		return nil
	}
	s.pending = b
	return nil
}

// Merge fuses the pending semaphore wait into b and makes b the pending
// builder. The pending waits precede any wait b already holds in its first
// batch. Merging into an empty submission, or while a real builder is
// pending, fails with ErrInvalidMerge; flush the pending builder first.
// Timeline waits cannot be fused into a present, which only accepts binary
// semaphores; that merge also fails with ErrInvalidMerge and changes nothing.
func (s *Submission) Merge(b Builder) error {
	w, ok := s.pending.(*SemaphoresWaitBuilder)
	if !ok {
		return fmt.Errorf("%w: pending submission is %s", ErrInvalidMerge, s.Kind())
	}
	if isNilBuilder(b) {
		return fmt.Errorf("%w: nil builder", ErrInvalidMerge)
	}

	switch next := b.(type) {
	case *SemaphoresWaitBuilder:
		next.waits = append(w.take(), next.waits...)
	case *CommandBufferBuilder:
		next.prependWaits(w.take())
	case *PresentBuilder:
		if timelineWaits(w.waits) {
			return fmt.Errorf("%w: present waits only on binary semaphores", ErrInvalidMerge)
		}
		next.prependWaits(w.take())
	case *BindSparseBuilder:
		next.prependWaits(w.take())
	default:
		return fmt.Errorf("%w: unknown builder %T", ErrInvalidMerge, b)
	}
	s.pending = b
	return nil
}

// Take removes and returns the pending builder.
func (s *Submission) Take() Builder {
	b := s.pending
	s.pending = nil
	return b
}

// Flush issues the pending builder to q and leaves the submission empty. The
// status is only set for a present. A pending non-empty semaphore wait cannot
// be flushed on its own: it stays pending and ErrOrphanedWait is returned.
// When the builder never reached the driver (nil queue, lock not acquired)
// it also stays pending, so Flush can be retried.
func (s *Submission) Flush(ctx context.Context, q *Queue) (PresentStatus, error) {
	switch b := s.pending.(type) {
	case nil:
		return nil, nil
	case *SemaphoresWaitBuilder:
		if b.IsEmpty() {
			s.pending = nil
			return nil, nil
		}
		return nil, ErrOrphanedWait
	case *CommandBufferBuilder:
		err := b.Flush(ctx, q)
		s.release(b.consumed)
		return nil, err
	case *PresentBuilder:
		status, err := b.Flush(ctx, q)
		s.release(b.consumed)
		return status, err
	case *BindSparseBuilder:
		err := b.Flush(ctx, q)
		s.release(b.consumed)
		return nil, err
	default:
		return nil, fmt.Errorf("vksubmit: unknown builder %T", b)
	}
}

// release drops the pending builder once it has been spent.
func (s *Submission) release(spent bool) {
	if spent {
		s.pending = nil
	}
}

// End closes a submission cycle and leaves the submission empty. Semaphore
// waits that were never merged into real work are reported as
// ErrOrphanedWait. A real builder left pending is dropped without any driver
// call.
func (s *Submission) End() error {
	b := s.Take()
	if w, ok := b.(*SemaphoresWaitBuilder); ok && !w.IsEmpty() {
		Logger().Warn("vksubmit: dropping unmerged semaphore waits", "waits", w.Len())
		return fmt.Errorf("%w: %d waits", ErrOrphanedWait, w.Len())
	}
	return nil
}

func isNilBuilder(b Builder) bool {
	switch v := b.(type) {
	case nil:
		return true
	case *SemaphoresWaitBuilder:
		return v == nil
	case *CommandBufferBuilder:
		return v == nil
	case *PresentBuilder:
		return v == nil
	case *BindSparseBuilder:
		return v == nil
	}
	return false
}
