package native

/*
#include <vulkan/vulkan.h>
#include <stdlib.h>
*/
import "C"

import (
	"github.com/NOT-REAL-GAMES/vksubmit"
)

// QueueBindSparse issues one vkQueueBindSparse carrying buffer, opaque image
// and image binds for every batch.
func (d *Driver) QueueBindSparse(batches []vksubmit.BindSparseBatch, f vksubmit.Fence) error {
	if len(batches) == 0 && f == vksubmit.NullFence {
		return nil
	}

	var a arena
	defer a.free()

	cInfos := calloc[C.VkBindSparseInfo](&a, len(batches))
	for i := range batches {
		batch := &batches[i]
		info := &cInfos[i]
		info.sType = C.VK_STRUCTURE_TYPE_BIND_SPARSE_INFO
		info.pNext = nil

		waitSems, _, waitValues := waitSemaphores(&a, batch.Waits, false)
		info.waitSemaphoreCount = C.uint32_t(len(waitSems))
		info.pWaitSemaphores = first(waitSems)

		bufferBinds := calloc[C.VkSparseBufferMemoryBindInfo](&a, len(batch.BufferBinds))
		for j, r := range batch.BufferBinds {
			binds := memoryBinds(&a, r.Binds)
			bufferBinds[j].buffer = buffer(r.Buffer)
			bufferBinds[j].bindCount = C.uint32_t(len(binds))
			bufferBinds[j].pBinds = first(binds)
		}
		info.bufferBindCount = C.uint32_t(len(bufferBinds))
		info.pBufferBinds = first(bufferBinds)

		opaqueBinds := calloc[C.VkSparseImageOpaqueMemoryBindInfo](&a, len(batch.ImageOpaqueBinds))
		for j, r := range batch.ImageOpaqueBinds {
			binds := memoryBinds(&a, r.Binds)
			opaqueBinds[j].image = image(r.Image)
			opaqueBinds[j].bindCount = C.uint32_t(len(binds))
			opaqueBinds[j].pBinds = first(binds)
		}
		info.imageOpaqueBindCount = C.uint32_t(len(opaqueBinds))
		info.pImageOpaqueBinds = first(opaqueBinds)

		imageBinds := calloc[C.VkSparseImageMemoryBindInfo](&a, len(batch.ImageBinds))
		for j, r := range batch.ImageBinds {
			binds := imageMemoryBinds(&a, r.Binds)
			imageBinds[j].image = image(r.Image)
			imageBinds[j].bindCount = C.uint32_t(len(binds))
			imageBinds[j].pBinds = first(binds)
		}
		info.imageBindCount = C.uint32_t(len(imageBinds))
		info.pImageBinds = first(imageBinds)

		sigSems, sigValues := signalSemaphores(&a, batch.Signals)
		info.signalSemaphoreCount = C.uint32_t(len(sigSems))
		info.pSignalSemaphores = first(sigSems)

		if batch.HasTimeline() {
			info.pNext = timelineInfo(&a, waitValues, sigValues)
		}
	}

	return result(C.vkQueueBindSparse(d.queue, C.uint32_t(len(cInfos)), first(cInfos), fence(f)))
}

func memoryBinds(a *arena, binds []vksubmit.SparseMemoryBind) []C.VkSparseMemoryBind {
	out := calloc[C.VkSparseMemoryBind](a, len(binds))
	for i, b := range binds {
		out[i].resourceOffset = C.VkDeviceSize(b.ResourceOffset)
		out[i].size = C.VkDeviceSize(b.Size)
		out[i].memory = deviceMemory(b.Memory)
		out[i].memoryOffset = C.VkDeviceSize(b.MemoryOffset)
		out[i].flags = C.VkSparseMemoryBindFlags(b.Flags)
	}
	return out
}

func imageMemoryBinds(a *arena, binds []vksubmit.SparseImageMemoryBind) []C.VkSparseImageMemoryBind {
	out := calloc[C.VkSparseImageMemoryBind](a, len(binds))
	for i, b := range binds {
		out[i].subresource.aspectMask = C.VkImageAspectFlags(b.Subresource.AspectMask)
		out[i].subresource.mipLevel = C.uint32_t(b.Subresource.MipLevel)
		out[i].subresource.arrayLayer = C.uint32_t(b.Subresource.ArrayLayer)
		out[i].offset.x = C.int32_t(b.Offset.X)
		out[i].offset.y = C.int32_t(b.Offset.Y)
		out[i].offset.z = C.int32_t(b.Offset.Z)
		out[i].extent.width = C.uint32_t(b.Extent.Width)
		out[i].extent.height = C.uint32_t(b.Extent.Height)
		out[i].extent.depth = C.uint32_t(b.Extent.Depth)
		out[i].memory = deviceMemory(b.Memory)
		out[i].memoryOffset = C.VkDeviceSize(b.MemoryOffset)
		out[i].flags = C.VkSparseMemoryBindFlags(b.Flags)
	}
	return out
}
