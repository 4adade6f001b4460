package native

/*
#include <vulkan/vulkan.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/NOT-REAL-GAMES/vksubmit"
)

// QueuePresent issues one vkQueuePresentKHR and reports the result of every
// swapchain through pResults. Incremental present regions are chained as
// VkPresentRegionsKHR when any swapchain carries them.
func (d *Driver) QueuePresent(p *vksubmit.PresentInfo) ([]vksubmit.Result, error) {
	var a arena
	defer a.free()

	info := &calloc[C.VkPresentInfoKHR](&a, 1)[0]
	info.sType = C.VK_STRUCTURE_TYPE_PRESENT_INFO_KHR
	info.pNext = nil

	waitSems := calloc[C.VkSemaphore](&a, len(p.Waits))
	for i, sem := range p.Waits {
		waitSems[i] = semaphore(sem)
	}
	info.waitSemaphoreCount = C.uint32_t(len(waitSems))
	info.pWaitSemaphores = first(waitSems)

	n := len(p.Swapchains)
	swapchains := calloc[C.VkSwapchainKHR](&a, n)
	indices := calloc[C.uint32_t](&a, n)
	results := calloc[C.VkResult](&a, n)
	for i, sc := range p.Swapchains {
		swapchains[i] = swapchain(sc.Swapchain)
		indices[i] = C.uint32_t(sc.ImageIndex)
	}
	info.swapchainCount = C.uint32_t(n)
	info.pSwapchains = first(swapchains)
	info.pImageIndices = first(indices)
	info.pResults = first(results)

	if p.HasRegions() {
		info.pNext = presentRegions(&a, p.Swapchains)
	}

	err := result(C.vkQueuePresentKHR(d.queue, info))

	out := make([]vksubmit.Result, n)
	for i, r := range results {
		out[i] = vksubmit.Result(r)
	}
	return out, err
}

func presentRegions(a *arena, swapchains []vksubmit.SwapchainPresent) unsafe.Pointer {
	regions := calloc[C.VkPresentRegionKHR](a, len(swapchains))
	for i, sc := range swapchains {
		rects := calloc[C.VkRectLayerKHR](a, len(sc.Regions))
		for j, r := range sc.Regions {
			rects[j].offset.x = C.int32_t(r.Offset.X)
			rects[j].offset.y = C.int32_t(r.Offset.Y)
			rects[j].extent.width = C.uint32_t(r.Extent.Width)
			rects[j].extent.height = C.uint32_t(r.Extent.Height)
			rects[j].layer = C.uint32_t(r.Layer)
		}
		regions[i].rectangleCount = C.uint32_t(len(rects))
		regions[i].pRectangles = first(rects)
	}

	info := &calloc[C.VkPresentRegionsKHR](a, 1)[0]
	info.sType = C.VK_STRUCTURE_TYPE_PRESENT_REGIONS_KHR
	info.swapchainCount = C.uint32_t(len(regions))
	info.pRegions = first(regions)
	return unsafe.Pointer(info)
}
