// Package vkgo implements vksubmit.Driver on top of
// github.com/vulkan-go/vulkan, for applications whose device and queues were
// created through that binding.
//
// The binding targets core Vulkan 1.0 structures only: timeline semaphore
// values and incremental present regions are rejected with ErrUnsupported.
package vkgo

import (
	"errors"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/NOT-REAL-GAMES/vksubmit"
)

// ErrUnsupported is returned for batches that need structures the binding
// does not expose.
var ErrUnsupported = errors.New("vkgo: feature not supported by vulkan-go")

// Driver issues queue operations on one vk.Queue.
type Driver struct {
	queue vk.Queue
}

// NewDriver wraps a queue obtained with vk.GetDeviceQueue.
func NewDriver(queue vk.Queue) *Driver {
	return &Driver{queue: queue}
}

// Queue returns the wrapped queue.
func (d *Driver) Queue() vk.Queue {
	return d.queue
}

// QueueSubmit issues one vk.QueueSubmit for all batches.
func (d *Driver) QueueSubmit(batches []vksubmit.SubmitBatch, fence vksubmit.Fence) error {
	if len(batches) == 0 && fence == vksubmit.NullFence {
		return nil
	}
	infos, err := submitInfos(batches)
	if err != nil {
		return err
	}
	return result(vk.QueueSubmit(d.queue, uint32(len(infos)), infos, Fence(fence)))
}

// unsetResult is VK_RESULT_MAX_ENUM, which no driver writes into pResults.
const unsetResult = vk.Result(0x7FFFFFFF)

// QueuePresent reports per-swapchain results when the binding hands pResults
// back; otherwise every swapchain takes the overall result.
func (d *Driver) QueuePresent(p *vksubmit.PresentInfo) ([]vksubmit.Result, error) {
	info, err := presentInfo(p)
	if err != nil {
		return nil, err
	}
	for i := range info.PResults {
		info.PResults[i] = unsetResult
	}

	err = result(vk.QueuePresent(d.queue, &info))

	out := make([]vksubmit.Result, len(p.Swapchains))
	for i := range out {
		r := info.PResults[i]
		if r == unsetResult {
			out[i] = vksubmit.ResultOf(err)
			continue
		}
		out[i] = vksubmit.Result(r)
	}
	return out, err
}

// QueueBindSparse issues one vk.QueueBindSparse for all batches.
func (d *Driver) QueueBindSparse(batches []vksubmit.BindSparseBatch, fence vksubmit.Fence) error {
	if len(batches) == 0 && fence == vksubmit.NullFence {
		return nil
	}
	infos, err := bindSparseInfos(batches)
	if err != nil {
		return err
	}
	return result(vk.QueueBindSparse(d.queue, uint32(len(infos)), infos, Fence(fence)))
}

func result(r vk.Result) error {
	if r == vk.Success {
		return nil
	}
	return vksubmit.Result(r)
}

// Handle conversions. vulkan-go handles are C pointers; vksubmit handles
// carry the same bits.

func Semaphore(s vksubmit.Semaphore) vk.Semaphore {
	return vk.Semaphore(unsafe.Pointer(uintptr(s)))
}

func Fence(f vksubmit.Fence) vk.Fence {
	return vk.Fence(unsafe.Pointer(uintptr(f)))
}

func CommandBuffer(cb vksubmit.CommandBuffer) vk.CommandBuffer {
	return vk.CommandBuffer(unsafe.Pointer(uintptr(cb)))
}

func Swapchain(sc vksubmit.SwapchainKHR) vk.Swapchain {
	return vk.Swapchain(unsafe.Pointer(uintptr(sc)))
}

func Buffer(b vksubmit.Buffer) vk.Buffer {
	return vk.Buffer(unsafe.Pointer(uintptr(b)))
}

func Image(img vksubmit.Image) vk.Image {
	return vk.Image(unsafe.Pointer(uintptr(img)))
}

func DeviceMemory(m vksubmit.DeviceMemory) vk.DeviceMemory {
	return vk.DeviceMemory(unsafe.Pointer(uintptr(m)))
}

// FromSemaphore and its siblings go the other way, for callers that create
// objects through vulkan-go and build submissions with vksubmit.

func FromSemaphore(s vk.Semaphore) vksubmit.Semaphore {
	return vksubmit.Semaphore(uintptr(unsafe.Pointer(s)))
}

func FromFence(f vk.Fence) vksubmit.Fence {
	return vksubmit.Fence(uintptr(unsafe.Pointer(f)))
}

func FromCommandBuffer(cb vk.CommandBuffer) vksubmit.CommandBuffer {
	return vksubmit.CommandBuffer(uintptr(unsafe.Pointer(cb)))
}

func FromSwapchain(sc vk.Swapchain) vksubmit.SwapchainKHR {
	return vksubmit.SwapchainKHR(uintptr(unsafe.Pointer(sc)))
}

var _ vksubmit.Driver = (*Driver)(nil)
