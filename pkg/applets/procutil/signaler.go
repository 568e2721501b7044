package procutil

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Signaler delivers a signal to a single process.
type Signaler interface {
	Signal(pid int, sig syscall.Signal) error
}

// UnixSignaler sends signals with kill(2).
type UnixSignaler struct{}

// Signal implements Signaler.
func (UnixSignaler) Signal(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		return unix.EINVAL
	}
	return unix.Kill(pid, sig)
}
