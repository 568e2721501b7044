package procutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
)

var (
	// ErrEmptyPattern is returned when asked to list with an empty pattern,
	// which would otherwise match every process on the host.
	ErrEmptyPattern = errors.New("empty pattern")
	// ErrUnknownSource is returned by NewLister for an unrecognised source name.
	ErrUnknownSource = errors.New("unknown process source")
)

// Source names accepted by NewLister.
const (
	SourceAuto = "auto"
	SourcePs   = "ps"
	SourceProc = "proc"
)

// Listing is the result of one enumeration.
type Listing struct {
	Source  string
	Records []Record
	// Exclude holds the PIDs of the enumeration machinery itself: the
	// spawned listing process, if any, and the calling process.
	Exclude []int
}

// Excluded reports whether pid belongs to the enumeration machinery.
func (l Listing) Excluded(pid int) bool {
	return slices.Contains(l.Exclude, pid)
}

// Lister enumerates processes whose listing text contains a pattern.
type Lister interface {
	List(ctx context.Context, pattern string) (Listing, error)
}

// NewLister returns the lister for a source name.
func NewLister(source string) (Lister, error) {
	switch source {
	case "", SourceAuto:
		return AutoLister{}, nil
	case SourcePs:
		return PsLister{}, nil
	case SourceProc:
		return ProcLister{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
}

// PsLister runs ps directly, without a shell, and matches its output in
// process. The pattern never reaches a command line.
type PsLister struct {
	// Argv overrides the listing command. Defaults to "ps axww" (all
	// processes, unlimited line width).
	Argv []string
}

func (l PsLister) argv() []string {
	if len(l.Argv) == 0 {
		return []string{"ps", "axww"}
	}
	return l.Argv
}

// List implements Lister.
func (l PsLister) List(ctx context.Context, pattern string) (Listing, error) {
	if pattern == "" {
		return Listing{}, ErrEmptyPattern
	}
	argv := l.argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) // #nosec G204 -- fixed listing command, no user input
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Start(); err != nil {
		return Listing{}, fmt.Errorf("start %s: %w", argv[0], err)
	}
	listing := Listing{
		Source:  SourcePs,
		Exclude: []int{cmd.Process.Pid, os.Getpid()},
	}
	if err := cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(errBuf.String()); msg != "" {
			return Listing{}, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return Listing{}, fmt.Errorf("%s: %w", argv[0], err)
	}
	records := ParseListing(out.String())
	if len(records) > 0 && isHeader(records[0]) {
		records = records[1:]
	}
	listing.Records = Filter(records, pattern)
	return listing, nil
}

// isHeader reports whether rec looks like a ps column header line.
func isHeader(rec Record) bool {
	return !rec.Empty() && !isDigits(rec[0])
}

// AutoLister prefers ps and falls back to /proc when ps is not installed.
// Any other ps failure is returned as is.
type AutoLister struct {
	Ps   PsLister
	Proc ProcLister
}

// List implements Lister.
func (l AutoLister) List(ctx context.Context, pattern string) (Listing, error) {
	listing, err := l.Ps.List(ctx, pattern)
	if errors.Is(err, exec.ErrNotFound) {
		return l.Proc.List(ctx, pattern)
	}
	return listing, err
}
