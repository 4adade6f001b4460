package vksubmit_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/NOT-REAL-GAMES/vksubmit"
	"github.com/NOT-REAL-GAMES/vksubmit/backend/record"
)

func TestSubmissionIsEmpty(t *testing.T) {
	var s vksubmit.Submission
	require.True(t, s.IsEmpty())
	require.Equal(t, vksubmit.KindEmpty, s.Kind())

	b := vksubmit.NewCommandBufferBuilder()
	b.AddCommandBuffer(1)
	require.NoError(t, s.Set(b))

	require.False(t, s.IsEmpty())
	require.Equal(t, vksubmit.KindCommandBuffer, s.Kind())
}

func TestSubmissionSetWhilePending(t *testing.T) {
	var s vksubmit.Submission
	require.NoError(t, s.Set(vksubmit.NewPresentBuilder()))

	err := s.Set(vksubmit.NewCommandBufferBuilder())
	require.ErrorIs(t, err, vksubmit.ErrPending)
	require.Equal(t, vksubmit.KindPresent, s.Kind())
}

func TestSubmissionMergeWaitThenCommandBuffer(t *testing.T) {
	const (
		w vksubmit.Semaphore     = 1
		c vksubmit.CommandBuffer = 2
	)
	q, rec := newQueue(t)

	var s vksubmit.Submission
	wait := vksubmit.NewSemaphoresWaitBuilder()
	wait.AddWait(w, vksubmit.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT)
	require.NoError(t, s.Set(wait))

	cb := vksubmit.NewCommandBufferBuilder()
	cb.AddCommandBuffer(c)
	require.NoError(t, s.Merge(cb))
	require.Equal(t, vksubmit.KindCommandBuffer, s.Kind())

	_, err := s.Flush(context.Background(), q)
	require.NoError(t, err)
	require.True(t, s.IsEmpty())

	want := []record.Call{{
		Op: record.OpSubmit,
		Submits: []vksubmit.SubmitBatch{{
			Waits:          []vksubmit.SemaphoreWait{{Semaphore: w, Stage: vksubmit.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT}},
			CommandBuffers: []vksubmit.CommandBuffer{c},
		}},
	}}
	if diff := cmp.Diff(want, rec.Calls(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmissionMergePendingWaitsFirst(t *testing.T) {
	for _, tc := range []struct{ n, m int }{{0, 0}, {1, 0}, {0, 2}, {3, 2}} {
		var s vksubmit.Submission
		wait := vksubmit.NewSemaphoresWaitBuilder()
		for i := 0; i < tc.n; i++ {
			wait.AddWait(vksubmit.Semaphore(100+i), vksubmit.PIPELINE_STAGE_TOP_OF_PIPE_BIT)
		}
		require.NoError(t, s.Set(wait))

		cb := vksubmit.NewCommandBufferBuilder()
		for i := 0; i < tc.m; i++ {
			cb.AddWait(vksubmit.Semaphore(200+i), vksubmit.PIPELINE_STAGE_TRANSFER_BIT)
		}
		cb.AddCommandBuffer(1)
		require.NoError(t, s.Merge(cb))

		waits := cb.Batches()[0].Waits
		require.Len(t, waits, tc.n+tc.m)
		for i, w := range waits {
			if i < tc.n {
				require.Equal(t, vksubmit.Semaphore(100+i), w.Semaphore)
			} else {
				require.Equal(t, vksubmit.Semaphore(200+i-tc.n), w.Semaphore)
			}
		}
	}
}

func TestSubmissionMergeIntoPresentAndBindSparse(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		var s vksubmit.Submission
		wait := vksubmit.NewSemaphoresWaitBuilder()
		wait.AddWait(1, vksubmit.PIPELINE_STAGE_ALL_COMMANDS_BIT)
		require.NoError(t, s.Set(wait))

		p := vksubmit.NewPresentBuilder()
		p.AddWait(2)
		p.AddSwapchain(9, 0)
		require.NoError(t, s.Merge(p))

		require.Equal(t, []vksubmit.Semaphore{1, 2}, p.Info().Waits)
	})

	t.Run("bind sparse without batches", func(t *testing.T) {
		var s vksubmit.Submission
		wait := vksubmit.NewSemaphoresWaitBuilder()
		wait.AddTimelineWait(1, 4, vksubmit.PIPELINE_STAGE_ALL_COMMANDS_BIT)
		require.NoError(t, s.Set(wait))

		b := vksubmit.NewBindSparseBuilder()
		require.NoError(t, s.Merge(b))

		batches := b.Batches()
		require.Len(t, batches, 1)
		require.Equal(t, []vksubmit.SemaphoreWait{{Semaphore: 1, Value: 4}}, batches[0].Waits)
	})

	t.Run("wait into wait", func(t *testing.T) {
		var s vksubmit.Submission
		first := vksubmit.NewSemaphoresWaitBuilder()
		first.AddWait(1, vksubmit.PIPELINE_STAGE_TOP_OF_PIPE_BIT)
		require.NoError(t, s.Set(first))

		second := vksubmit.NewSemaphoresWaitBuilder()
		second.AddWait(2, vksubmit.PIPELINE_STAGE_TOP_OF_PIPE_BIT)
		require.NoError(t, s.Merge(second))

		require.Equal(t, vksubmit.KindSemaphoresWait, s.Kind())
		require.Equal(t, 2, second.Len())
		require.True(t, first.IsEmpty())
	})
}

func TestSubmissionInvalidMerge(t *testing.T) {
	t.Run("into empty", func(t *testing.T) {
		var s vksubmit.Submission
		require.ErrorIs(t, s.Merge(vksubmit.NewCommandBufferBuilder()), vksubmit.ErrInvalidMerge)
		require.True(t, s.IsEmpty())
	})

	t.Run("two real builders", func(t *testing.T) {
		var s vksubmit.Submission
		first := vksubmit.NewCommandBufferBuilder()
		require.NoError(t, s.Set(first))
		require.ErrorIs(t, s.Merge(vksubmit.NewBindSparseBuilder()), vksubmit.ErrInvalidMerge)
		require.Same(t, first, s.Builder())
	})

	t.Run("nil builder", func(t *testing.T) {
		var s vksubmit.Submission
		require.NoError(t, s.Set(vksubmit.NewSemaphoresWaitBuilder()))
		var cb *vksubmit.CommandBufferBuilder
		require.ErrorIs(t, s.Merge(cb), vksubmit.ErrInvalidMerge)
	})
}

func TestSubmissionOrphanedWait(t *testing.T) {
	q, rec := newQueue(t)

	var s vksubmit.Submission
	wait := vksubmit.NewSemaphoresWaitBuilder()
	wait.AddWait(1, vksubmit.PIPELINE_STAGE_TOP_OF_PIPE_BIT)
	require.NoError(t, s.Set(wait))

	_, err := s.Flush(context.Background(), q)
	require.ErrorIs(t, err, vksubmit.ErrOrphanedWait)
	require.Equal(t, vksubmit.KindSemaphoresWait, s.Kind(), "waits stay pending for a later merge")

	require.ErrorIs(t, s.End(), vksubmit.ErrOrphanedWait)
	require.True(t, s.IsEmpty())
	require.Empty(t, rec.Calls())
}

func TestSubmissionEnd(t *testing.T) {
	var s vksubmit.Submission
	require.NoError(t, s.End())

	require.NoError(t, s.Set(vksubmit.NewSemaphoresWaitBuilder()))
	require.NoError(t, s.End())

	cb := vksubmit.NewCommandBufferBuilder()
	cb.AddCommandBuffer(1)
	require.NoError(t, s.Set(cb))
	require.NoError(t, s.End())
	require.True(t, s.IsEmpty())
}

func TestSubmissionFlushDispatch(t *testing.T) {
	q, rec := newQueue(t)
	var s vksubmit.Submission

	_, err := s.Flush(context.Background(), q)
	require.NoError(t, err)

	p := vksubmit.NewPresentBuilder()
	p.AddSwapchain(1, 0)
	require.NoError(t, s.Set(p))
	status, err := s.Flush(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, status, 1)

	b := vksubmit.NewBindSparseBuilder()
	b.AddBatch(vksubmit.NewBindSparseBatchBuilder())
	require.NoError(t, s.Set(b))
	_, err = s.Flush(context.Background(), q)
	require.NoError(t, err)

	var ops []record.Op
	for _, c := range rec.Calls() {
		ops = append(ops, c.Op)
	}
	require.Equal(t, []record.Op{record.OpPresent, record.OpBindSparse}, ops)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "bind sparse", vksubmit.KindBindSparse.String())
	require.Equal(t, "Kind(42)", vksubmit.Kind(42).String())
}

func TestSemaphoresWaitMerge(t *testing.T) {
	a := vksubmit.NewSemaphoresWaitBuilder()
	a.AddWait(1, vksubmit.PIPELINE_STAGE_TOP_OF_PIPE_BIT)
	b := vksubmit.NewSemaphoresWaitBuilder()
	b.AddTimelineWait(2, 7, vksubmit.PIPELINE_STAGE_TRANSFER_BIT)

	a.Merge(b)
	a.Merge(a)
	a.Merge(nil)

	require.True(t, b.IsEmpty())
	require.Equal(t, []vksubmit.SemaphoreWait{
		{Semaphore: 1, Stage: vksubmit.PIPELINE_STAGE_TOP_OF_PIPE_BIT},
		{Semaphore: 2, Value: 7, Stage: vksubmit.PIPELINE_STAGE_TRANSFER_BIT},
	}, a.Waits())
}

func TestSubmissionTake(t *testing.T) {
	var s vksubmit.Submission
	require.Nil(t, s.Take())

	p := vksubmit.NewPresentBuilder()
	require.NoError(t, s.Set(p))
	require.Same(t, p, s.Take())
	require.True(t, s.IsEmpty())
}

func TestSubmissionFlushKeepsWorkWhenQueueUnavailable(t *testing.T) {
	q, rec := newQueue(t)

	var s vksubmit.Submission
	wait := vksubmit.NewSemaphoresWaitBuilder()
	wait.AddWait(1, vksubmit.PIPELINE_STAGE_TRANSFER_BIT)
	require.NoError(t, s.Set(wait))
	cb := vksubmit.NewCommandBufferBuilder()
	cb.AddCommandBuffer(7)
	require.NoError(t, s.Merge(cb))

	// --- nil queue ---
	_, err := s.Flush(context.Background(), nil)
	require.ErrorIs(t, err, vksubmit.ErrNilQueue)
	require.Same(t, cb, s.Builder())

	// --- lock not acquired ---
	g, err := q.Lock(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Flush(ctx, q)
	require.ErrorIs(t, err, context.Canceled)
	require.Same(t, cb, s.Builder())
	g.Release()

	// --- retry ---
	_, err = s.Flush(context.Background(), q)
	require.NoError(t, err)
	require.True(t, s.IsEmpty())

	want := []record.Call{{
		Op: record.OpSubmit,
		Submits: []vksubmit.SubmitBatch{{
			Waits:          []vksubmit.SemaphoreWait{{Semaphore: 1, Stage: vksubmit.PIPELINE_STAGE_TRANSFER_BIT}},
			CommandBuffers: []vksubmit.CommandBuffer{7},
		}},
	}}
	if diff := cmp.Diff(want, rec.Calls(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmissionPresentFlushNilQueue(t *testing.T) {
	q, rec := newQueue(t)

	var s vksubmit.Submission
	p := vksubmit.NewPresentBuilder()
	p.AddSwapchain(3, 1)
	require.NoError(t, s.Set(p))

	_, err := s.Flush(context.Background(), nil)
	require.ErrorIs(t, err, vksubmit.ErrNilQueue)
	require.Equal(t, vksubmit.KindPresent, s.Kind())

	status, err := s.Flush(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, vksubmit.PresentStatus{vksubmit.SUCCESS}, status)
	require.Len(t, rec.Calls(), 1)
}

func TestSubmissionMergeTimelineWaitIntoPresent(t *testing.T) {
	var s vksubmit.Submission
	wait := vksubmit.NewSemaphoresWaitBuilder()
	wait.AddWait(4, vksubmit.PIPELINE_STAGE_ALL_COMMANDS_BIT)
	wait.AddTimelineWait(5, 42, vksubmit.PIPELINE_STAGE_ALL_COMMANDS_BIT)
	require.NoError(t, s.Set(wait))

	p := vksubmit.NewPresentBuilder()
	p.AddWait(9)
	p.AddSwapchain(1, 0)

	err := s.Merge(p)
	require.ErrorIs(t, err, vksubmit.ErrInvalidMerge)

	require.Same(t, wait, s.Builder())
	require.Equal(t, 2, wait.Len())
	require.Equal(t, []vksubmit.Semaphore{9}, p.Info().Waits)
}
