// Package pskill implements pskill: terminate processes whose listing line
// contains a pattern.
package pskill

import (
	"context"
	"errors"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/rcarmo/pskill/pkg/applets/procutil"
	"github.com/rcarmo/pskill/pkg/core"
	"github.com/rcarmo/pskill/pkg/reap"
)

const applet = "pskill"

type options struct {
	signal  string
	marker  string
	source  string
	output  string
	timeout time.Duration
	dryRun  bool
	echo    bool
	strict  bool
	verbose bool
	quiet   bool
}

type listerFunc func(source string) (procutil.Lister, error)

func newFlagSet(stdio *core.Stdio, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(applet, flag.ContinueOnError)
	fs.SetOutput(stdio.Out)
	fs.StringVarP(&opts.signal, "signal", "s", "TERM", "signal to send, by name or number")
	fs.StringVarP(&opts.marker, "marker", "m", reap.DefaultMarker, "skip lines carrying this token (\"\" disables)")
	fs.StringVar(&opts.source, "source", procutil.SourceAuto, "process source: auto, ps or proc")
	fs.StringVarP(&opts.output, "output", "o", reap.FormatText, "report format: text, yaml or json")
	fs.DurationVarP(&opts.timeout, "timeout", "t", reap.DefaultTimeout, "limit on listing processes (0 disables)")
	fs.BoolVarP(&opts.dryRun, "dry-run", "n", false, "select targets without signalling them")
	fs.BoolVarP(&opts.echo, "echo", "e", false, "print one line per target (text output)")
	fs.BoolVar(&opts.strict, "strict", false, "exit 1 if listing fails or any signal is not delivered")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log every decision")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "log nothing")
	fs.Usage = func() {
		stdio.Printf("Usage: %s [OPTIONS] [PATTERN]\n\n", applet)
		stdio.Printf("Send SIGTERM to processes whose listing line contains PATTERN (default %q).\n\n", reap.DefaultPattern)
		stdio.Printf("%s", fs.FlagUsages())
	}
	return fs
}

// Run executes the pskill command with the given arguments.
//
// Usage:
//
//	pskill [OPTIONS] [PATTERN]
//
// Lists processes, skips blank lines, lines carrying the marker token and
// the listing machinery itself, and signals every remaining PID. Signal
// failures are logged and reported but do not change the exit code unless
// --strict is given.
func Run(stdio *core.Stdio, args []string) int {
	return run(stdio, args, procutil.NewLister, procutil.UnixSignaler{})
}

func run(stdio *core.Stdio, args []string, newLister listerFunc, signaler procutil.Signaler) int {
	var opts options
	fs := newFlagSet(stdio, &opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitSuccess
		}
		return core.UsageError(stdio, applet, err.Error())
	}

	pattern := reap.DefaultPattern
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		pattern = rest[0]
	default:
		return core.UsageError(stdio, applet, "too many patterns")
	}
	if pattern == "" {
		return core.UsageError(stdio, applet, "empty pattern")
	}

	sig, err := procutil.ParseSignal(opts.signal)
	if err != nil {
		return core.UsageError(stdio, applet, "invalid signal: "+opts.signal)
	}
	lister, err := newLister(opts.source)
	if err != nil {
		return core.UsageError(stdio, applet, err.Error())
	}
	switch opts.output {
	case reap.FormatText, reap.FormatYAML, reap.FormatJSON:
	default:
		return core.UsageError(stdio, applet, "invalid output format: "+opts.output)
	}

	log := stdio.Logger(core.LogLevel(opts.verbose, opts.quiet))
	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	report, err := reap.Reap(ctx, reap.Options{
		Pattern:  pattern,
		Marker:   opts.marker,
		Signal:   &sig,
		DryRun:   opts.dryRun,
		Lister:   lister,
		Signaler: signaler,
		Logger:   &log,
	})
	if err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("no processes signalled")
	}
	if code := render(stdio, report, opts); code != core.ExitSuccess {
		return code
	}

	if opts.strict && (err != nil || report.Failed() > 0) {
		return core.ExitFailure
	}
	return core.ExitSuccess
}

func render(stdio *core.Stdio, report *reap.Report, opts options) int {
	if opts.output != reap.FormatText {
		if err := report.Encode(stdio.Out, opts.output); err != nil {
			stdio.Errorf("%s: %v\n", applet, err)
			return core.ExitFailure
		}
		return core.ExitSuccess
	}
	if !opts.echo {
		return core.ExitSuccess
	}
	for _, a := range report.Attempts {
		stdio.Printf("%d %s %s\n", a.PID, a.Outcome, a.Command)
	}
	return core.ExitSuccess
}
