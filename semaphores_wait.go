package vksubmit

// SemaphoresWaitBuilder collects semaphore waits with no work attached. No
// driver call accepts a bare wait, so its only use is to be merged into the
// next real submission through a Submission.
type SemaphoresWaitBuilder struct {
	waits []SemaphoreWait
}

// NewSemaphoresWaitBuilder returns an empty builder.
func NewSemaphoresWaitBuilder() *SemaphoresWaitBuilder {
	return &SemaphoresWaitBuilder{}
}

// AddWait appends a binary semaphore wait at the given stage.
func (b *SemaphoresWaitBuilder) AddWait(sem Semaphore, stage PipelineStageFlags) {
	b.waits = append(b.waits, SemaphoreWait{Semaphore: sem, Stage: stage})
}

// AddTimelineWait appends a wait for a timeline semaphore to reach value.
func (b *SemaphoresWaitBuilder) AddTimelineWait(sem Semaphore, value uint64, stage PipelineStageFlags) {
	b.waits = append(b.waits, SemaphoreWait{Semaphore: sem, Value: value, Stage: stage})
}

// IsEmpty reports whether no wait has been added.
func (b *SemaphoresWaitBuilder) IsEmpty() bool {
	return len(b.waits) == 0
}

// Len returns the number of waits.
func (b *SemaphoresWaitBuilder) Len() int {
	return len(b.waits)
}

// Waits returns a copy of the accumulated waits in insertion order.
func (b *SemaphoresWaitBuilder) Waits() []SemaphoreWait {
	return append([]SemaphoreWait(nil), b.waits...)
}

// Merge appends the waits of other after those of b and empties other.
func (b *SemaphoresWaitBuilder) Merge(other *SemaphoresWaitBuilder) {
	if other == nil || other == b {
		return
	}
	b.waits = append(b.waits, other.waits...)
	other.waits = nil
}

func (b *SemaphoresWaitBuilder) kind() Kind { return KindSemaphoresWait }

// take hands the waits over and leaves b empty.
func (b *SemaphoresWaitBuilder) take() []SemaphoreWait {
	w := b.waits
	b.waits = nil
	return w
}
