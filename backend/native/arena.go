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

// arena tracks the C allocations of one driver call so they can be freed
// together once the call returns.
type arena struct {
	ptrs []unsafe.Pointer
}

// calloc returns zeroed C memory for n elements of T.
func calloc[T any](a *arena, n int) []T {
	if n == 0 {
		return nil
	}
	var zero T
	p := C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(zero)))
	a.ptrs = append(a.ptrs, p)
	return unsafe.Slice((*T)(p), n)
}

func (a *arena) free() {
	for _, p := range a.ptrs {
		C.free(p)
	}
	a.ptrs = nil
}

func first[T any](s []T) *T {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

func semaphore(s vksubmit.Semaphore) C.VkSemaphore {
	return C.VkSemaphore(unsafe.Pointer(uintptr(s)))
}

func fence(f vksubmit.Fence) C.VkFence {
	return C.VkFence(unsafe.Pointer(uintptr(f)))
}

func commandBuffer(cb vksubmit.CommandBuffer) C.VkCommandBuffer {
	return C.VkCommandBuffer(unsafe.Pointer(uintptr(cb)))
}

func swapchain(sc vksubmit.SwapchainKHR) C.VkSwapchainKHR {
	return C.VkSwapchainKHR(unsafe.Pointer(uintptr(sc)))
}

func buffer(b vksubmit.Buffer) C.VkBuffer {
	return C.VkBuffer(unsafe.Pointer(uintptr(b)))
}

func image(img vksubmit.Image) C.VkImage {
	return C.VkImage(unsafe.Pointer(uintptr(img)))
}

func deviceMemory(m vksubmit.DeviceMemory) C.VkDeviceMemory {
	return C.VkDeviceMemory(unsafe.Pointer(uintptr(m)))
}

// waitSemaphores fills the semaphore, stage and timeline value arrays of a
// wait list. stages is nil for operations without wait stages.
func waitSemaphores(a *arena, waits []vksubmit.SemaphoreWait, withStages bool) ([]C.VkSemaphore, []C.VkPipelineStageFlags, []C.uint64_t) {
	sems := calloc[C.VkSemaphore](a, len(waits))
	values := calloc[C.uint64_t](a, len(waits))
	var stages []C.VkPipelineStageFlags
	if withStages {
		stages = calloc[C.VkPipelineStageFlags](a, len(waits))
	}
	for i, w := range waits {
		sems[i] = semaphore(w.Semaphore)
		values[i] = C.uint64_t(w.Value)
		if withStages {
			stages[i] = C.VkPipelineStageFlags(w.Stage)
		}
	}
	return sems, stages, values
}

func signalSemaphores(a *arena, signals []vksubmit.SemaphoreSignal) ([]C.VkSemaphore, []C.uint64_t) {
	sems := calloc[C.VkSemaphore](a, len(signals))
	values := calloc[C.uint64_t](a, len(signals))
	for i, s := range signals {
		sems[i] = semaphore(s.Semaphore)
		values[i] = C.uint64_t(s.Value)
	}
	return sems, values
}

// timelineInfo builds the VkTimelineSemaphoreSubmitInfo chained onto a submit
// or bind sparse info that waits or signals timeline semaphores.
func timelineInfo(a *arena, waitValues, signalValues []C.uint64_t) unsafe.Pointer {
	info := &calloc[C.VkTimelineSemaphoreSubmitInfo](a, 1)[0]
	info.sType = C.VK_STRUCTURE_TYPE_TIMELINE_SEMAPHORE_SUBMIT_INFO
	info.waitSemaphoreValueCount = C.uint32_t(len(waitValues))
	info.pWaitSemaphoreValues = first(waitValues)
	info.signalSemaphoreValueCount = C.uint32_t(len(signalValues))
	info.pSignalSemaphoreValues = first(signalValues)
	return unsafe.Pointer(info)
}
