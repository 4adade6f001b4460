package vksubmit

// Handles are raw Vulkan handle values owned by the caller. The builders keep
// copies of them for the duration of one submission and never destroy them.
type (
	Semaphore    uint64
	Fence        uint64
	SwapchainKHR uint64
	Buffer       uint64
	Image        uint64
	DeviceMemory uint64

	// CommandBuffer is dispatchable, so it is pointer sized.
	CommandBuffer uintptr
)

const (
	NullFence        Fence        = 0
	NullDeviceMemory DeviceMemory = 0
)

type PipelineStageFlags uint32

const (
	PIPELINE_STAGE_TOP_OF_PIPE_BIT                    PipelineStageFlags = 0x00000001
	PIPELINE_STAGE_DRAW_INDIRECT_BIT                  PipelineStageFlags = 0x00000002
	PIPELINE_STAGE_VERTEX_INPUT_BIT                   PipelineStageFlags = 0x00000004
	PIPELINE_STAGE_VERTEX_SHADER_BIT                  PipelineStageFlags = 0x00000008
	PIPELINE_STAGE_TESSELLATION_CONTROL_SHADER_BIT    PipelineStageFlags = 0x00000010
	PIPELINE_STAGE_TESSELLATION_EVALUATION_SHADER_BIT PipelineStageFlags = 0x00000020
	PIPELINE_STAGE_GEOMETRY_SHADER_BIT                PipelineStageFlags = 0x00000040
	PIPELINE_STAGE_FRAGMENT_SHADER_BIT                PipelineStageFlags = 0x00000080
	PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT           PipelineStageFlags = 0x00000100
	PIPELINE_STAGE_LATE_FRAGMENT_TESTS_BIT            PipelineStageFlags = 0x00000200
	PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT        PipelineStageFlags = 0x00000400
	PIPELINE_STAGE_COMPUTE_SHADER_BIT                 PipelineStageFlags = 0x00000800
	PIPELINE_STAGE_TRANSFER_BIT                       PipelineStageFlags = 0x00001000
	PIPELINE_STAGE_BOTTOM_OF_PIPE_BIT                 PipelineStageFlags = 0x00002000
	PIPELINE_STAGE_HOST_BIT                           PipelineStageFlags = 0x00004000
	PIPELINE_STAGE_ALL_GRAPHICS_BIT                   PipelineStageFlags = 0x00008000
	PIPELINE_STAGE_ALL_COMMANDS_BIT                   PipelineStageFlags = 0x00010000
)

type ImageAspectFlags uint32

const (
	IMAGE_ASPECT_COLOR_BIT    ImageAspectFlags = 0x00000001
	IMAGE_ASPECT_DEPTH_BIT    ImageAspectFlags = 0x00000002
	IMAGE_ASPECT_STENCIL_BIT  ImageAspectFlags = 0x00000004
	IMAGE_ASPECT_METADATA_BIT ImageAspectFlags = 0x00000008
)

type SparseMemoryBindFlags uint32

const (
	SPARSE_MEMORY_BIND_METADATA_BIT SparseMemoryBindFlags = 0x00000001
)

type Offset2D struct {
	X int32
	Y int32
}

type Extent2D struct {
	Width  uint32
	Height uint32
}

type Offset3D struct {
	X int32
	Y int32
	Z int32
}

type Extent3D struct {
	Width  uint32
	Height uint32
	Depth  uint32
}

// ImageSubresource specifies a single mip level and array layer of an image.
type ImageSubresource struct {
	AspectMask ImageAspectFlags
	MipLevel   uint32
	ArrayLayer uint32
}

// RectLayer is one damaged rectangle of an incremental present.
type RectLayer struct {
	Offset Offset2D
	Extent Extent2D
	Layer  uint32
}

// SemaphoreWait is one wait dependency. Value is only meaningful for timeline
// semaphores and must be zero for binary ones. Stage is ignored by present and
// sparse binding, which have no wait stage.
type SemaphoreWait struct {
	Semaphore Semaphore
	Value     uint64
	Stage     PipelineStageFlags
}

// SemaphoreSignal is one signal operation. Value follows the same rule as in
// SemaphoreWait.
type SemaphoreSignal struct {
	Semaphore Semaphore
	Value     uint64
}

// SubmitBatch maps onto one VkSubmitInfo.
type SubmitBatch struct {
	Waits          []SemaphoreWait
	CommandBuffers []CommandBuffer
	Signals        []SemaphoreSignal
}

func (b *SubmitBatch) empty() bool {
	return len(b.Waits) == 0 && len(b.CommandBuffers) == 0 && len(b.Signals) == 0
}

type SwapchainPresent struct {
	Swapchain  SwapchainKHR
	ImageIndex uint32
	Regions    []RectLayer
}

// PresentInfo maps onto one VkPresentInfoKHR.
type PresentInfo struct {
	Waits      []Semaphore
	Swapchains []SwapchainPresent
}

// HasRegions reports whether any swapchain carries incremental present
// rectangles.
func (p *PresentInfo) HasRegions() bool {
	for _, sc := range p.Swapchains {
		if len(sc.Regions) > 0 {
			return true
		}
	}
	return false
}

// SparseMemoryBind binds (or, with a null Memory, unbinds) a byte range of a
// buffer or an opaque image.
type SparseMemoryBind struct {
	ResourceOffset uint64
	Size           uint64
	Memory         DeviceMemory
	MemoryOffset   uint64
	Flags          SparseMemoryBindFlags
}

// SparseImageMemoryBind binds a block of a single image subresource.
type SparseImageMemoryBind struct {
	Subresource  ImageSubresource
	Offset       Offset3D
	Extent       Extent3D
	Memory       DeviceMemory
	MemoryOffset uint64
	Flags        SparseMemoryBindFlags
}

type SparseBufferBindInfo struct {
	Buffer Buffer
	Binds  []SparseMemoryBind
}

type SparseImageOpaqueBindInfo struct {
	Image Image
	Binds []SparseMemoryBind
}

type SparseImageBindInfo struct {
	Image Image
	Binds []SparseImageMemoryBind
}

// BindSparseBatch maps onto one VkBindSparseInfo.
type BindSparseBatch struct {
	Waits            []SemaphoreWait
	BufferBinds      []SparseBufferBindInfo
	ImageOpaqueBinds []SparseImageOpaqueBindInfo
	ImageBinds       []SparseImageBindInfo
	Signals          []SemaphoreSignal
}

// HasTimeline reports whether any wait or signal of the batch carries a
// timeline value.
func (b *BindSparseBatch) HasTimeline() bool {
	return timelineWaits(b.Waits) || timelineSignals(b.Signals)
}

// HasTimeline reports whether any wait or signal of the batch carries a
// timeline value.
func (b *SubmitBatch) HasTimeline() bool {
	return timelineWaits(b.Waits) || timelineSignals(b.Signals)
}

func timelineWaits(waits []SemaphoreWait) bool {
	for _, w := range waits {
		if w.Value != 0 {
			return true
		}
	}
	return false
}

func timelineSignals(signals []SemaphoreSignal) bool {
	for _, s := range signals {
		if s.Value != 0 {
			return true
		}
	}
	return false
}
