// Package reap terminates processes whose listing text matches a pattern.
//
// A run lists processes, selects targets with Select, signals them with
// Terminate and returns a Report holding one Attempt per target. Signal
// failures are recorded, never returned: a run only errors when it cannot
// list processes at all.
package reap

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/rcarmo/pskill/pkg/applets/procutil"
)

// DefaultPattern is used when no pattern is given on the command line.
const DefaultPattern = "gpu_profiler"

// DefaultTimeout bounds the listing step of KillMatching.
const DefaultTimeout = 10 * time.Second

// Options configure a run.
type Options struct {
	Pattern string
	// Marker is the exclusion token; "" disables the marker check.
	Marker string
	// Signal defaults to SIGTERM when nil. An explicit 0 is sent as is:
	// kill(2) then only checks that the process exists.
	Signal   *syscall.Signal
	DryRun   bool
	Lister   procutil.Lister
	Signaler procutil.Signaler
	// Logger defaults to a no-op logger when nil.
	Logger *zerolog.Logger
}

// DefaultOptions returns options for a SIGTERM run against pattern using
// the default marker, lister and signaler.
func DefaultOptions(pattern string) Options {
	return Options{
		Pattern:  pattern,
		Marker:   DefaultMarker,
		Signal:   SignalPtr(syscall.SIGTERM),
		Lister:   procutil.AutoLister{},
		Signaler: procutil.UnixSignaler{},
	}
}

// SignalPtr returns a pointer to sig for Options.Signal.
func SignalPtr(sig syscall.Signal) *syscall.Signal {
	return &sig
}

// Reap lists, selects and signals. The returned report is never nil.
func Reap(ctx context.Context, opts Options) (*Report, error) {
	sig := syscall.SIGTERM
	if opts.Signal != nil {
		sig = *opts.Signal
	}
	report := &Report{
		RunID:   xid.New().String(),
		Pattern: opts.Pattern,
		Signal:  procutil.SignalName(sig),
		DryRun:  opts.DryRun,
	}
	if opts.Pattern == "" {
		return report, procutil.ErrEmptyPattern
	}
	base := zerolog.Nop()
	if opts.Logger != nil {
		base = *opts.Logger
	}
	log := base.With().Str("run", report.RunID).Logger()

	lister := opts.Lister
	if lister == nil {
		lister = procutil.AutoLister{}
	}
	signaler := opts.Signaler
	if signaler == nil {
		signaler = procutil.UnixSignaler{}
	}

	listing, err := lister.List(ctx, opts.Pattern)
	if err != nil {
		return report, fmt.Errorf("list processes: %w", err)
	}
	report.Source = listing.Source
	report.Matched = len(listing.Records)
	log.Debug().Str("source", listing.Source).Int("matched", report.Matched).Ints("exclude", listing.Exclude).Msg("listed")

	targets, skipped := Select(listing, opts.Marker)
	for _, skip := range skipped {
		log.Debug().Str("record", skip.Record).Str("reason", string(skip.Reason)).Msg("skipped")
	}
	report.Skipped = skipped
	report.Attempts = Terminate(targets, signaler, sig, opts.DryRun, log)
	return report, nil
}

// KillMatching sends SIGTERM to every process whose listing text contains
// pattern. Listing failures yield an empty report.
func KillMatching(pattern string) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	report, _ := Reap(ctx, DefaultOptions(pattern))
	return report
}
