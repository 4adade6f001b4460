// Package vksubmit batches Vulkan queue work into as few driver calls as
// possible.
//
// Four builders model the four kinds of queue operation:
//
//   - SemaphoresWaitBuilder: semaphore waits with no work attached
//   - CommandBufferBuilder: batches of command buffers for vkQueueSubmit
//   - PresentBuilder: swapchain images for vkQueuePresentKHR
//   - BindSparseBuilder: sparse memory binds for vkQueueBindSparse
//
// A Submission holds one pending builder and fuses a pending semaphore wait
// into the next real builder, so waiting on earlier unrelated work does not
// cost an extra driver call:
//
//	var s vksubmit.Submission
//	w := vksubmit.NewSemaphoresWaitBuilder()
//	w.AddWait(imageAcquired, vksubmit.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT)
//	_ = s.Set(w)
//
//	cb := vksubmit.NewCommandBufferBuilder()
//	cb.AddCommandBuffer(frame)
//	cb.AddSignal(renderDone)
//	if err := s.Merge(cb); err != nil {
//	    return err
//	}
//	if _, err := s.Flush(ctx, queue); err != nil {
//	    return err
//	}
//
// # Handles
//
// Builders store raw handle values and never own them. Every handle must stay
// valid until Flush returns; the same command buffer may be submitted again in
// a later call.
//
// # Queues and drivers
//
// The driver calls themselves sit behind the Driver interface. backend/native
// implements it with cgo over the Vulkan headers, backend/vkgo over
// github.com/vulkan-go/vulkan, and backend/record records calls in memory.
//
// A Queue wraps one Driver and serializes access to it: each Flush holds the
// queue's guard for the duration of its single driver call and releases it on
// every path. Builders themselves are not safe for concurrent use.
//
// # Errors
//
// Misuse of a builder is reported with the Err* values of this package.
// Driver failures come back as Result, unmodified; nothing here retries.
package vksubmit
