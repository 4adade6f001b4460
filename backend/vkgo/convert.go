package vkgo

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/NOT-REAL-GAMES/vksubmit"
)

func submitInfos(batches []vksubmit.SubmitBatch) ([]vk.SubmitInfo, error) {
	infos := make([]vk.SubmitInfo, len(batches))
	for i := range batches {
		batch := &batches[i]
		if batch.HasTimeline() {
			return nil, fmt.Errorf("%w: timeline semaphore in submit batch %d", ErrUnsupported, i)
		}

		waits := make([]vk.Semaphore, len(batch.Waits))
		stages := make([]vk.PipelineStageFlags, len(batch.Waits))
		for j, w := range batch.Waits {
			waits[j] = Semaphore(w.Semaphore)
			stages[j] = vk.PipelineStageFlags(w.Stage)
		}
		cmdBufs := make([]vk.CommandBuffer, len(batch.CommandBuffers))
		for j, cb := range batch.CommandBuffers {
			cmdBufs[j] = CommandBuffer(cb)
		}

		infos[i] = vk.SubmitInfo{
			SType:                vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(waits)),
			PWaitSemaphores:      waits,
			PWaitDstStageMask:    stages,
			CommandBufferCount:   uint32(len(cmdBufs)),
			PCommandBuffers:      cmdBufs,
			SignalSemaphoreCount: uint32(len(batch.Signals)),
			PSignalSemaphores:    signalSemaphores(batch.Signals),
		}
	}
	return infos, nil
}

func presentInfo(p *vksubmit.PresentInfo) (vk.PresentInfo, error) {
	if p.HasRegions() {
		return vk.PresentInfo{}, fmt.Errorf("%w: incremental present regions", ErrUnsupported)
	}

	waits := make([]vk.Semaphore, len(p.Waits))
	for i, sem := range p.Waits {
		waits[i] = Semaphore(sem)
	}
	swapchains := make([]vk.Swapchain, len(p.Swapchains))
	indices := make([]uint32, len(p.Swapchains))
	for i, sc := range p.Swapchains {
		swapchains[i] = Swapchain(sc.Swapchain)
		indices[i] = sc.ImageIndex
	}

	return vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waits)),
		PWaitSemaphores:    waits,
		SwapchainCount:     uint32(len(swapchains)),
		PSwapchains:        swapchains,
		PImageIndices:      indices,
		PResults:           make([]vk.Result, len(swapchains)),
	}, nil
}

func bindSparseInfos(batches []vksubmit.BindSparseBatch) ([]vk.BindSparseInfo, error) {
	infos := make([]vk.BindSparseInfo, len(batches))
	for i := range batches {
		batch := &batches[i]
		if batch.HasTimeline() {
			return nil, fmt.Errorf("%w: timeline semaphore in bind sparse batch %d", ErrUnsupported, i)
		}

		waits := make([]vk.Semaphore, len(batch.Waits))
		for j, w := range batch.Waits {
			waits[j] = Semaphore(w.Semaphore)
		}

		bufferBinds := make([]vk.SparseBufferMemoryBindInfo, len(batch.BufferBinds))
		for j, r := range batch.BufferBinds {
			bufferBinds[j] = vk.SparseBufferMemoryBindInfo{
				Buffer:    Buffer(r.Buffer),
				BindCount: uint32(len(r.Binds)),
				PBinds:    memoryBinds(r.Binds),
			}
		}
		opaqueBinds := make([]vk.SparseImageOpaqueMemoryBindInfo, len(batch.ImageOpaqueBinds))
		for j, r := range batch.ImageOpaqueBinds {
			opaqueBinds[j] = vk.SparseImageOpaqueMemoryBindInfo{
				Image:     Image(r.Image),
				BindCount: uint32(len(r.Binds)),
				PBinds:    memoryBinds(r.Binds),
			}
		}
		imageBinds := make([]vk.SparseImageMemoryBindInfo, len(batch.ImageBinds))
		for j, r := range batch.ImageBinds {
			imageBinds[j] = vk.SparseImageMemoryBindInfo{
				Image:     Image(r.Image),
				BindCount: uint32(len(r.Binds)),
				PBinds:    imageMemoryBinds(r.Binds),
			}
		}

		infos[i] = vk.BindSparseInfo{
			SType:                vk.StructureTypeBindSparseInfo,
			WaitSemaphoreCount:   uint32(len(waits)),
			PWaitSemaphores:      waits,
			BufferBindCount:      uint32(len(bufferBinds)),
			PBufferBinds:         bufferBinds,
			ImageOpaqueBindCount: uint32(len(opaqueBinds)),
			PImageOpaqueBinds:    opaqueBinds,
			ImageBindCount:       uint32(len(imageBinds)),
			PImageBinds:          imageBinds,
			SignalSemaphoreCount: uint32(len(batch.Signals)),
			PSignalSemaphores:    signalSemaphores(batch.Signals),
		}
	}
	return infos, nil
}

func signalSemaphores(signals []vksubmit.SemaphoreSignal) []vk.Semaphore {
	sems := make([]vk.Semaphore, len(signals))
	for i, s := range signals {
		sems[i] = Semaphore(s.Semaphore)
	}
	return sems
}

func memoryBinds(binds []vksubmit.SparseMemoryBind) []vk.SparseMemoryBind {
	out := make([]vk.SparseMemoryBind, len(binds))
	for i, b := range binds {
		out[i] = vk.SparseMemoryBind{
			ResourceOffset: vk.DeviceSize(b.ResourceOffset),
			Size:           vk.DeviceSize(b.Size),
			Memory:         DeviceMemory(b.Memory),
			MemoryOffset:   vk.DeviceSize(b.MemoryOffset),
			Flags:          vk.SparseMemoryBindFlags(b.Flags),
		}
	}
	return out
}

func imageMemoryBinds(binds []vksubmit.SparseImageMemoryBind) []vk.SparseImageMemoryBind {
	out := make([]vk.SparseImageMemoryBind, len(binds))
	for i, b := range binds {
		out[i] = vk.SparseImageMemoryBind{
			Subresource: vk.ImageSubresource{
				AspectMask: vk.ImageAspectFlags(b.Subresource.AspectMask),
				MipLevel:   b.Subresource.MipLevel,
				ArrayLayer: b.Subresource.ArrayLayer,
			},
			Offset: vk.Offset3D{X: b.Offset.X, Y: b.Offset.Y, Z: b.Offset.Z},
			Extent: vk.Extent3D{
				Width:  b.Extent.Width,
				Height: b.Extent.Height,
				Depth:  b.Extent.Depth,
			},
			Memory:       DeviceMemory(b.Memory),
			MemoryOffset: vk.DeviceSize(b.MemoryOffset),
			Flags:        vk.SparseMemoryBindFlags(b.Flags),
		}
	}
	return out
}
