// Package pgrep implements pgrep over the same listing and selection rules
// as pskill. It never sends a signal.
package pgrep

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/rcarmo/pskill/pkg/applets/procutil"
	"github.com/rcarmo/pskill/pkg/core"
	"github.com/rcarmo/pskill/pkg/reap"
)

type options struct {
	marker  string
	source  string
	timeout time.Duration
	list    bool
}

// Run executes the pgrep command with the given arguments.
//
// Supported flags:
//
//	-l          Print the command after each PID
//	-m MARKER   Skip lines carrying MARKER as a token (default "grep")
//	--source S  Process source: auto, ps or proc
//	-t DURATION Limit on listing processes (default 10s, 0 disables)
//
// Prints the PIDs pskill would signal for PATTERN, one per line. Returns
// exit code 0 if at least one process matched, 1 otherwise.
func Run(stdio *core.Stdio, args []string) int {
	return run(stdio, args, procutil.NewLister)
}

func run(stdio *core.Stdio, args []string, newLister func(string) (procutil.Lister, error)) int {
	var opts options
	fs := flag.NewFlagSet("pgrep", flag.ContinueOnError)
	fs.SetOutput(stdio.Out)
	fs.BoolVarP(&opts.list, "list-name", "l", false, "print the command after each PID")
	fs.StringVarP(&opts.marker, "marker", "m", reap.DefaultMarker, "skip lines carrying this token")
	fs.StringVar(&opts.source, "source", procutil.SourceAuto, "process source: auto, ps or proc")
	fs.DurationVarP(&opts.timeout, "timeout", "t", reap.DefaultTimeout, "limit on listing processes (0 disables)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitSuccess
		}
		return core.UsageError(stdio, "pgrep", err.Error())
	}
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		return core.UsageError(stdio, "pgrep", "missing pattern")
	}
	lister, err := newLister(opts.source)
	if err != nil {
		return core.UsageError(stdio, "pgrep", err.Error())
	}

	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	report, err := reap.Reap(ctx, reap.Options{
		Pattern: fs.Arg(0),
		Marker:  opts.marker,
		DryRun:  true,
		Lister:  lister,
	})
	if err != nil {
		stdio.Errorf("pgrep: %v\n", err)
		return core.ExitFailure
	}
	if len(report.Attempts) == 0 {
		return core.ExitFailure
	}
	var out []string
	for _, a := range report.Attempts {
		line := strconv.Itoa(a.PID)
		if opts.list {
			line += " " + a.Command
		}
		out = append(out, line)
	}
	stdio.Println(strings.Join(out, "\n"))
	return core.ExitSuccess
}
