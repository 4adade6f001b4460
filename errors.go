package vksubmit

import "errors"

// Usage errors. They report a broken builder invariant at the offending call
// and are never produced by a driver.
var (
	// ErrFenceAlreadySet is returned when a second fence is attached to a
	// builder that already carries one. The first fence is kept.
	ErrFenceAlreadySet = errors.New("vksubmit: fence already set")

	// ErrFenceConflict is returned when two builders that both carry a fence
	// are merged into one driver call.
	ErrFenceConflict = errors.New("vksubmit: both builders carry a fence")

	// ErrInvalidMerge is returned when the pending submission is not a
	// semaphore wait, or the incoming builder is nil.
	ErrInvalidMerge = errors.New("vksubmit: invalid merge")

	// ErrPending is returned when a builder is stored over a pending one.
	ErrPending = errors.New("vksubmit: submission already pending")

	// ErrOrphanedWait is returned when semaphore waits reach the end of a
	// submission cycle without being attached to real work.
	ErrOrphanedWait = errors.New("vksubmit: semaphore waits were never merged into a submission")

	// ErrConsumed is returned when a builder is flushed a second time.
	ErrConsumed = errors.New("vksubmit: builder already flushed")

	// ErrNoSwapchains is returned when a present builder is flushed with no
	// swapchain.
	ErrNoSwapchains = errors.New("vksubmit: present without swapchains")

	// ErrNilQueue is returned when a builder is flushed to a nil queue.
	ErrNilQueue = errors.New("vksubmit: nil queue")
)
