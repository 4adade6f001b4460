package vkgo

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"

	"github.com/NOT-REAL-GAMES/vksubmit"
)

func TestSubmitInfos(t *testing.T) {
	infos, err := submitInfos([]vksubmit.SubmitBatch{
		{
			Waits:          []vksubmit.SemaphoreWait{{Semaphore: 1, Stage: vksubmit.PIPELINE_STAGE_TRANSFER_BIT}},
			CommandBuffers: []vksubmit.CommandBuffer{2, 3},
			Signals:        []vksubmit.SemaphoreSignal{{Semaphore: 4}},
		},
		{CommandBuffers: []vksubmit.CommandBuffer{5}},
	})
	require.NoError(t, err)
	require.Len(t, infos, 2)

	first := infos[0]
	require.Equal(t, vk.StructureTypeSubmitInfo, first.SType)
	require.Equal(t, uint32(1), first.WaitSemaphoreCount)
	require.Equal(t, Semaphore(1), first.PWaitSemaphores[0])
	require.Equal(t, vk.PipelineStageFlags(vksubmit.PIPELINE_STAGE_TRANSFER_BIT), first.PWaitDstStageMask[0])
	require.Equal(t, uint32(2), first.CommandBufferCount)
	require.Equal(t, []vk.CommandBuffer{CommandBuffer(2), CommandBuffer(3)}, first.PCommandBuffers)
	require.Equal(t, uint32(1), first.SignalSemaphoreCount)

	require.Equal(t, uint32(0), infos[1].WaitSemaphoreCount)
	require.Equal(t, uint32(1), infos[1].CommandBufferCount)
}

func TestTimelineUnsupported(t *testing.T) {
	_, err := submitInfos([]vksubmit.SubmitBatch{{Signals: []vksubmit.SemaphoreSignal{{Semaphore: 1, Value: 3}}}})
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = bindSparseInfos([]vksubmit.BindSparseBatch{{Waits: []vksubmit.SemaphoreWait{{Semaphore: 1, Value: 3}}}})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestPresentInfo(t *testing.T) {
	info, err := presentInfo(&vksubmit.PresentInfo{
		Waits:      []vksubmit.Semaphore{7},
		Swapchains: []vksubmit.SwapchainPresent{{Swapchain: 1, ImageIndex: 2}, {Swapchain: 3, ImageIndex: 0}},
	})
	require.NoError(t, err)
	require.Equal(t, uint32(2), info.SwapchainCount)
	require.Equal(t, []uint32{2, 0}, info.PImageIndices)
	require.Len(t, info.PResults, 2)

	_, err = presentInfo(&vksubmit.PresentInfo{
		Swapchains: []vksubmit.SwapchainPresent{{Swapchain: 1, Regions: []vksubmit.RectLayer{{}}}},
	})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestBindSparseInfos(t *testing.T) {
	infos, err := bindSparseInfos([]vksubmit.BindSparseBatch{{
		BufferBinds: []vksubmit.SparseBufferBindInfo{{
			Buffer: 1,
			Binds:  []vksubmit.SparseMemoryBind{{ResourceOffset: 0, Size: 1024, Memory: 2}},
		}},
		ImageBinds: []vksubmit.SparseImageBindInfo{{
			Image: 3,
			Binds: []vksubmit.SparseImageMemoryBind{{
				Subresource: vksubmit.ImageSubresource{AspectMask: vksubmit.IMAGE_ASPECT_COLOR_BIT, MipLevel: 1},
				Extent:      vksubmit.Extent3D{Width: 64, Height: 64, Depth: 1},
				Memory:      2,
			}},
		}},
	}})
	require.NoError(t, err)
	require.Len(t, infos, 1)

	info := infos[0]
	require.Equal(t, vk.StructureTypeBindSparseInfo, info.SType)
	require.Equal(t, uint32(1), info.BufferBindCount)
	require.Equal(t, vk.DeviceSize(1024), info.PBufferBinds[0].PBinds[0].Size)
	require.Equal(t, DeviceMemory(2), info.PBufferBinds[0].PBinds[0].Memory)
	require.Equal(t, uint32(0), info.ImageOpaqueBindCount)
	require.Equal(t, uint32(1), info.ImageBindCount)
	require.Equal(t, uint32(1), info.PImageBinds[0].PBinds[0].Subresource.MipLevel)
	require.Equal(t, uint32(64), info.PImageBinds[0].PBinds[0].Extent.Width)
}

func TestHandleRoundTrip(t *testing.T) {
	require.Equal(t, vksubmit.Semaphore(0xabc), FromSemaphore(Semaphore(0xabc)))
	require.Equal(t, vksubmit.Fence(0xdef), FromFence(Fence(0xdef)))
	require.Equal(t, vksubmit.CommandBuffer(0x10), FromCommandBuffer(CommandBuffer(0x10)))
	require.Equal(t, vksubmit.SwapchainKHR(0x20), FromSwapchain(Swapchain(0x20)))
}

func TestEmptyCallsSkipDriver(t *testing.T) {
	d := NewDriver(nil)
	require.NoError(t, d.QueueSubmit(nil, vksubmit.NullFence))
	require.NoError(t, d.QueueBindSparse(nil, vksubmit.NullFence))
}
