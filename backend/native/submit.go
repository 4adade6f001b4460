package native

/*
#include <vulkan/vulkan.h>
#include <stdlib.h>
*/
import "C"

import (
	"github.com/NOT-REAL-GAMES/vksubmit"
)

// QueueSubmit issues one vkQueueSubmit. With no batches the call still goes
// out when a fence is given, so the fence is signaled once earlier work on
// the queue completes.
func (d *Driver) QueueSubmit(batches []vksubmit.SubmitBatch, f vksubmit.Fence) error {
	if len(batches) == 0 && f == vksubmit.NullFence {
		return nil
	}

	var a arena
	defer a.free()

	cSubmits := calloc[C.VkSubmitInfo](&a, len(batches))
	for i := range batches {
		batch := &batches[i]
		info := &cSubmits[i]
		info.sType = C.VK_STRUCTURE_TYPE_SUBMIT_INFO
		info.pNext = nil

		waitSems, waitStages, waitValues := waitSemaphores(&a, batch.Waits, true)
		info.waitSemaphoreCount = C.uint32_t(len(waitSems))
		info.pWaitSemaphores = first(waitSems)
		info.pWaitDstStageMask = first(waitStages)

		cmdBufs := calloc[C.VkCommandBuffer](&a, len(batch.CommandBuffers))
		for j, cb := range batch.CommandBuffers {
			cmdBufs[j] = commandBuffer(cb)
		}
		info.commandBufferCount = C.uint32_t(len(cmdBufs))
		info.pCommandBuffers = first(cmdBufs)

		sigSems, sigValues := signalSemaphores(&a, batch.Signals)
		info.signalSemaphoreCount = C.uint32_t(len(sigSems))
		info.pSignalSemaphores = first(sigSems)

		if batch.HasTimeline() {
			info.pNext = timelineInfo(&a, waitValues, sigValues)
		}
	}

	return result(C.vkQueueSubmit(d.queue, C.uint32_t(len(cSubmits)), first(cSubmits), fence(f)))
}
