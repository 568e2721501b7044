package testutil

import (
	"context"
	"syscall"

	"github.com/rcarmo/pskill/pkg/applets/procutil"
)

// TextLister serves a fixed listing text, filtered the same way PsLister
// filters real ps output.
type TextLister struct {
	Text    string
	Exclude []int
	Err     error
}

// List implements procutil.Lister.
func (l TextLister) List(_ context.Context, pattern string) (procutil.Listing, error) {
	if l.Err != nil {
		return procutil.Listing{}, l.Err
	}
	if pattern == "" {
		return procutil.Listing{}, procutil.ErrEmptyPattern
	}
	return procutil.Listing{
		Source:  "fixture",
		Records: procutil.Filter(procutil.ParseListing(l.Text), pattern),
		Exclude: l.Exclude,
	}, nil
}

// BlockingLister never answers: List waits for ctx to end and returns its
// error, like a hung ps.
type BlockingLister struct{}

// List implements procutil.Lister.
func (BlockingLister) List(ctx context.Context, _ string) (procutil.Listing, error) {
	<-ctx.Done()
	return procutil.Listing{}, ctx.Err()
}

// SignalCall is one recorded FakeSignaler invocation.
type SignalCall struct {
	PID    int
	Signal syscall.Signal
}

// FakeSignaler records signals instead of sending them. Errs maps PIDs to
// the error returned for them.
type FakeSignaler struct {
	Errs  map[int]error
	Calls []SignalCall
}

// Signal implements procutil.Signaler.
func (f *FakeSignaler) Signal(pid int, sig syscall.Signal) error {
	f.Calls = append(f.Calls, SignalCall{PID: pid, Signal: sig})
	return f.Errs[pid]
}

// PIDs returns the signalled PIDs in call order.
func (f *FakeSignaler) PIDs() []int {
	pids := make([]int, 0, len(f.Calls))
	for _, c := range f.Calls {
		pids = append(pids, c.PID)
	}
	return pids
}
