// Package record provides a vksubmit.Driver that keeps every call in memory
// instead of reaching a GPU.
//
// It serves two purposes: tests assert on the exact batch arrays a flush
// produced, and debug tooling can replay scripted driver results (device
// lost, out-of-date swapchains) against application submission code.
//
//	rec := record.New()
//	q := vksubmit.NewQueue(rec)
//	// ... build and flush ...
//	for _, c := range rec.Calls() {
//	    fmt.Println(c.Op, len(c.Submits))
//	}
package record

import (
	"slices"
	"sync"

	"github.com/NOT-REAL-GAMES/vksubmit"
)

// Op names the driver entry point of a recorded call.
type Op string

const (
	OpSubmit     Op = "vkQueueSubmit"
	OpPresent    Op = "vkQueuePresentKHR"
	OpBindSparse Op = "vkQueueBindSparse"
)

// Call is one recorded driver call. Only the fields of its Op are set.
type Call struct {
	Op      Op
	Submits []vksubmit.SubmitBatch
	Present *vksubmit.PresentInfo
	Binds   []vksubmit.BindSparseBatch
	Fence   vksubmit.Fence
}

// PresentFunc computes the results of a present call.
type PresentFunc func(info *vksubmit.PresentInfo) ([]vksubmit.Result, error)

// Driver records calls. The zero value is not usable; call New.
type Driver struct {
	mu         sync.Mutex
	calls      []Call
	errs       map[Op][]error
	present    PresentFunc
	concurrent int
	maxInUse   int
}

// New returns a driver that succeeds on every call.
func New() *Driver {
	return &Driver{errs: make(map[Op][]error)}
}

// FailNext makes the next call to op return err. Queued errors are consumed
// in order; the call is still recorded.
func (d *Driver) FailNext(op Op, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[op] = append(d.errs[op], err)
}

// OnPresent replaces the default present behaviour, which reports SUCCESS for
// every swapchain.
func (d *Driver) OnPresent(fn PresentFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.present = fn
}

// Calls returns a copy of the recorded calls in order.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

// Reset drops recorded calls and queued errors.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
	d.errs = make(map[Op][]error)
}

// MaxConcurrent returns the largest number of calls that were ever inside the
// driver at once. A correctly guarded queue never exceeds one.
func (d *Driver) MaxConcurrent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maxInUse
}

// QueueSubmit records the call and pops the next queued submit error.
func (d *Driver) QueueSubmit(batches []vksubmit.SubmitBatch, fence vksubmit.Fence) error {
	defer d.enter()()
	return d.record(Call{Op: OpSubmit, Submits: cloneSubmits(batches), Fence: fence})
}

// QueuePresent records the call. A queued error is reported for every
// swapchain; otherwise the OnPresent hook, if any, decides the results.
func (d *Driver) QueuePresent(info *vksubmit.PresentInfo) ([]vksubmit.Result, error) {
	defer d.enter()()
	cp := clonePresent(info)
	if err := d.record(Call{Op: OpPresent, Present: cp}); err != nil {
		results := make([]vksubmit.Result, len(info.Swapchains))
		for i := range results {
			results[i] = vksubmit.ResultOf(err)
		}
		return results, err
	}

	d.mu.Lock()
	fn := d.present
	d.mu.Unlock()
	if fn != nil {
		return fn(info)
	}
	return make([]vksubmit.Result, len(info.Swapchains)), nil
}

// QueueBindSparse records the call and pops the next queued bind sparse error.
func (d *Driver) QueueBindSparse(batches []vksubmit.BindSparseBatch, fence vksubmit.Fence) error {
	defer d.enter()()
	return d.record(Call{Op: OpBindSparse, Binds: cloneBinds(batches), Fence: fence})
}

// enter tracks calls in flight and returns the matching exit.
func (d *Driver) enter() func() {
	d.mu.Lock()
	d.concurrent++
	d.maxInUse = max(d.maxInUse, d.concurrent)
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		d.concurrent--
		d.mu.Unlock()
	}
}

func (d *Driver) record(c Call) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, c)
	if q := d.errs[c.Op]; len(q) > 0 {
		d.errs[c.Op] = q[1:]
		return q[0]
	}
	return nil
}

var _ vksubmit.Driver = (*Driver)(nil)
