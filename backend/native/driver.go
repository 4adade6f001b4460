// Package native implements vksubmit.Driver with cgo directly over
// <vulkan/vulkan.h>.
//
// Batch arrays are marshalled into C memory for the duration of one call and
// freed before the call returns. Handles are expected to be 64-bit pointers,
// as they are on every 64-bit platform.
package native

// #cgo windows LDFLAGS: -LC:/VulkanSDK/1.4.328.1/Lib -lvulkan-1
// #cgo windows CFLAGS: -IC:/VulkanSDK/1.4.328.1/Include
// #cgo linux LDFLAGS: -L/usr/lib/x86_64-linux-gnu -lvulkan
// #cgo darwin LDFLAGS: -lvulkan
// #include <vulkan/vulkan.h>
// #include <stdlib.h>
import "C"

import (
	"unsafe"

	"github.com/NOT-REAL-GAMES/vksubmit"
)

// Driver issues queue operations on one VkQueue.
type Driver struct {
	queue C.VkQueue
}

// NewDriver wraps a VkQueue obtained elsewhere, for example from
// vkGetDeviceQueue.
func NewDriver(queue unsafe.Pointer) *Driver {
	return &Driver{queue: C.VkQueue(queue)}
}

// Handle returns the wrapped VkQueue.
func (d *Driver) Handle() unsafe.Pointer {
	return unsafe.Pointer(d.queue)
}

func result(r C.VkResult) error {
	if r == C.VK_SUCCESS {
		return nil
	}
	return vksubmit.Result(r)
}

var _ vksubmit.Driver = (*Driver)(nil)
