package vksubmit

import (
	"context"
	"errors"
)

// PresentBuilder accumulates one vkQueuePresentKHR call: a set of wait
// semaphores shared by every swapchain, and the swapchain images to present.
type PresentBuilder struct {
	waits      []Semaphore
	swapchains []SwapchainPresent
	consumed   bool
}

// NewPresentBuilder returns an empty builder.
func NewPresentBuilder() *PresentBuilder {
	return &PresentBuilder{}
}

// AddWait makes the whole present wait on a binary semaphore.
func (b *PresentBuilder) AddWait(sem Semaphore) {
	b.waits = append(b.waits, sem)
}

// AddSwapchain queues imageIndex of sc for presentation.
func (b *PresentBuilder) AddSwapchain(sc SwapchainKHR, imageIndex uint32) {
	b.swapchains = append(b.swapchains, SwapchainPresent{Swapchain: sc, ImageIndex: imageIndex})
}

// AddSwapchainRegions is AddSwapchain with the rectangles that changed since
// the image was last presented (VK_KHR_incremental_present). The driver may
// ignore them.
func (b *PresentBuilder) AddSwapchainRegions(sc SwapchainKHR, imageIndex uint32, regions []RectLayer) {
	b.swapchains = append(b.swapchains, SwapchainPresent{
		Swapchain:  sc,
		ImageIndex: imageIndex,
		Regions:    append([]RectLayer(nil), regions...),
	})
}

// SwapchainCount returns the number of swapchains queued so far.
func (b *PresentBuilder) SwapchainCount() int {
	return len(b.swapchains)
}

// Info returns the present call as Flush would issue it.
func (b *PresentBuilder) Info() PresentInfo {
	return PresentInfo{
		Waits:      append([]Semaphore(nil), b.waits...),
		Swapchains: append([]SwapchainPresent(nil), b.swapchains...),
	}
}

func (b *PresentBuilder) kind() Kind { return KindPresent }

func (b *PresentBuilder) prependWaits(waits []SemaphoreWait) {
	if len(waits) == 0 {
		return
	}
	sems := make([]Semaphore, 0, len(waits)+len(b.waits))
	for _, w := range waits {
		sems = append(sems, w.Semaphore)
	}
	b.waits = append(sems, b.waits...)
}

// Flush presents every swapchain with one vkQueuePresentKHR while holding the
// queue, and returns one status per swapchain in insertion order. The builder
// is spent once the queue is held.
//
// SUBOPTIMAL and OUT_OF_DATE describe single surfaces: they are reported in
// the returned status with a nil error, so a caller presenting to several
// surfaces can recreate only the affected ones. Any other failure is returned
// unmodified as the error, still alongside the per-swapchain status.
func (b *PresentBuilder) Flush(ctx context.Context, q *Queue) (PresentStatus, error) {
	if b.consumed {
		return nil, ErrConsumed
	}
	if q == nil {
		return nil, ErrNilQueue
	}
	if len(b.swapchains) == 0 {
		return nil, ErrNoSwapchains
	}

	info := b.Info()

	g, err := q.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer g.Release()
	b.consumed = true

	log := q.log()
	log.Debug("vksubmit: queue present", "swapchains", len(info.Swapchains), "waits", len(info.Waits))
	results, err := g.Driver().QueuePresent(&info)
	status := normalizeStatus(results, len(info.Swapchains), err)

	var r Result
	if err != nil && errors.As(err, &r) && r.surfaceLocal() {
		log.Debug("vksubmit: present reported surface status", "result", r, "out_of_date", status.OutOfDate())
		return status, nil
	}
	if err != nil {
		log.Warn("vksubmit: queue present failed", "err", err)
		return status, err
	}
	return status, nil
}

// normalizeStatus pads or trims the driver's per-swapchain results to n
// entries. Missing entries take the overall result.
func normalizeStatus(results []Result, n int, overall error) PresentStatus {
	status := make(PresentStatus, n)
	fill := ResultOf(overall)
	for i := range status {
		if i < len(results) {
			status[i] = results[i]
		} else {
			status[i] = fill
		}
	}
	return status
}

// PresentStatus holds one Result per presented swapchain.
type PresentStatus []Result

// OK reports whether every swapchain presented with SUCCESS.
func (s PresentStatus) OK() bool {
	for _, r := range s {
		if r != SUCCESS {
			return false
		}
	}
	return true
}

// OutOfDate returns the indices of swapchains that must be recreated before
// they can be presented again.
func (s PresentStatus) OutOfDate() []int {
	return s.indices(func(r Result) bool { return r == OUT_OF_DATE })
}

// Suboptimal returns the indices of swapchains that presented but no longer
// match the surface exactly.
func (s PresentStatus) Suboptimal() []int {
	return s.indices(func(r Result) bool { return r == SUBOPTIMAL })
}

// Failed returns the indices of swapchains that hit a hard error.
func (s PresentStatus) Failed() []int {
	return s.indices(func(r Result) bool { return r.IsError() && r != OUT_OF_DATE })
}

func (s PresentStatus) indices(match func(Result) bool) []int {
	var idx []int
	for i, r := range s {
		if match(r) {
			idx = append(idx, i)
		}
	}
	return idx
}
