// Package procutil enumerates processes and delivers signals to them.
//
// Processes are listed either by running ps or by scanning /proc. Both
// produce Records: whitespace-split listing lines whose first token is the
// process identifier.
package procutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultProcRoot = "/proc"

type ProcInfo struct {
	PID  int
	Comm string
	Args string
}

// Record renders the process the way a listing line would look: the PID
// followed by the command line, or the bracketed comm for kernel threads.
func (p ProcInfo) Record() Record {
	rec := Record{strconv.Itoa(p.PID)}
	if p.Args != "" {
		return append(rec, strings.Fields(p.Args)...)
	}
	if p.Comm != "" {
		return append(rec, "["+p.Comm+"]")
	}
	return rec
}

// ProcLister scans a procfs mount.
type ProcLister struct {
	// Root defaults to /proc.
	Root string
}

func (l ProcLister) root() string {
	if l.Root == "" {
		return defaultProcRoot
	}
	return l.Root
}

// List implements Lister.
func (l ProcLister) List(ctx context.Context, pattern string) (Listing, error) {
	if pattern == "" {
		return Listing{}, ErrEmptyPattern
	}
	procs, err := ListProcesses(l.root())
	if err != nil {
		return Listing{}, err
	}
	listing := Listing{Source: SourceProc, Exclude: []int{os.Getpid()}}
	for _, proc := range procs {
		if err := ctx.Err(); err != nil {
			return Listing{}, err
		}
		rec := proc.Record()
		if rec.Matches(pattern) {
			listing.Records = append(listing.Records, rec)
		}
	}
	return listing, nil
}

// ListProcesses returns basic process info for all numeric entries under root.
func ListProcesses(root string) ([]ProcInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}
	procs := make([]ProcInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid <= 0 {
			continue
		}
		procs = append(procs, ReadProc(root, pid))
	}
	return procs, nil
}

func ReadProc(root string, pid int) ProcInfo {
	return ProcInfo{
		PID:  pid,
		Comm: ReadComm(root, pid),
		Args: ReadCmdline(root, pid),
	}
}

// ReadComm returns the kernel's short name for pid.
func ReadComm(root string, pid int) string {
	return strings.TrimSpace(string(readProcFile(root, pid, "comm")))
}

// ReadCmdline returns the NUL-separated argument vector of pid joined by
// spaces. Kernel threads have an empty cmdline.
func ReadCmdline(root string, pid int) string {
	args := strings.FieldsFunc(string(readProcFile(root, pid, "cmdline")), func(r rune) bool {
		return r == 0
	})
	return strings.Join(args, " ")
}

// readProcFile returns nil when the process is gone or unreadable.
func readProcFile(root string, pid int, name string) []byte {
	data, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), name))
	if err != nil {
		return nil
	}
	return data
}
