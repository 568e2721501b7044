package procutil

import (
	"strconv"
	"strings"
	"syscall"
)

var signalNames = map[syscall.Signal]string{
	syscall.SIGHUP:  "HUP",
	syscall.SIGINT:  "INT",
	syscall.SIGQUIT: "QUIT",
	syscall.SIGILL:  "ILL",
	syscall.SIGTRAP: "TRAP",
	syscall.SIGABRT: "ABRT",
	syscall.SIGBUS:  "BUS",
	syscall.SIGFPE:  "FPE",
	syscall.SIGKILL: "KILL",
	syscall.SIGUSR1: "USR1",
	syscall.SIGSEGV: "SEGV",
	syscall.SIGUSR2: "USR2",
	syscall.SIGPIPE: "PIPE",
	syscall.SIGALRM: "ALRM",
	syscall.SIGTERM: "TERM",
}

// ParseSignal accepts a signal name with or without the SIG prefix, or a
// non-negative number, optionally preceded by one dash. 0 is valid: kill(2)
// then only checks that the target exists.
func ParseSignal(arg string) (syscall.Signal, error) {
	arg = strings.TrimPrefix(arg, "-")
	if arg == "" {
		return 0, syscall.EINVAL
	}
	if isDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return 0, syscall.EINVAL
		}
		return syscall.Signal(num), nil
	}
	name := strings.TrimPrefix(strings.ToUpper(arg), "SIG")
	for sig, n := range signalNames {
		if n == name {
			return sig, nil
		}
	}
	return 0, syscall.EINVAL
}

// SignalName returns the short name of sig, or its number when unnamed.
func SignalName(sig syscall.Signal) string {
	if name, ok := signalNames[sig]; ok {
		return name
	}
	return strconv.Itoa(int(sig))
}

// isDigits reports whether s is a non-empty run of ASCII decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
