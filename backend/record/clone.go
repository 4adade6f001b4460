package record

import (
	"slices"

	"github.com/NOT-REAL-GAMES/vksubmit"
)

// Recorded calls are deep copies; callers may reuse their slices after the
// driver returns.

func cloneSubmits(batches []vksubmit.SubmitBatch) []vksubmit.SubmitBatch {
	if batches == nil {
		return nil
	}
	out := make([]vksubmit.SubmitBatch, len(batches))
	for i, b := range batches {
		out[i] = vksubmit.SubmitBatch{
			Waits:          slices.Clone(b.Waits),
			CommandBuffers: slices.Clone(b.CommandBuffers),
			Signals:        slices.Clone(b.Signals),
		}
	}
	return out
}

func clonePresent(info *vksubmit.PresentInfo) *vksubmit.PresentInfo {
	cp := &vksubmit.PresentInfo{
		Waits:      slices.Clone(info.Waits),
		Swapchains: make([]vksubmit.SwapchainPresent, len(info.Swapchains)),
	}
	for i, sc := range info.Swapchains {
		sc.Regions = slices.Clone(sc.Regions)
		cp.Swapchains[i] = sc
	}
	return cp
}

func cloneBinds(batches []vksubmit.BindSparseBatch) []vksubmit.BindSparseBatch {
	if batches == nil {
		return nil
	}
	out := make([]vksubmit.BindSparseBatch, len(batches))
	for i, b := range batches {
		c := vksubmit.BindSparseBatch{
			Waits:   slices.Clone(b.Waits),
			Signals: slices.Clone(b.Signals),
		}
		for _, r := range b.BufferBinds {
			c.BufferBinds = append(c.BufferBinds, vksubmit.SparseBufferBindInfo{Buffer: r.Buffer, Binds: slices.Clone(r.Binds)})
		}
		for _, r := range b.ImageOpaqueBinds {
			c.ImageOpaqueBinds = append(c.ImageOpaqueBinds, vksubmit.SparseImageOpaqueBindInfo{Image: r.Image, Binds: slices.Clone(r.Binds)})
		}
		for _, r := range b.ImageBinds {
			c.ImageBinds = append(c.ImageBinds, vksubmit.SparseImageBindInfo{Image: r.Image, Binds: slices.Clone(r.Binds)})
		}
		out[i] = c
	}
	return out
}
