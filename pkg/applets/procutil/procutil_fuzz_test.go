package procutil

import (
	"reflect"
	"testing"
)

// FuzzParseSignal fuzzes the signal parser with arbitrary signal names
// and numbers to ensure it never panics.
func FuzzParseSignal(f *testing.F) {
	seeds := []string{
		"-9", "9", "HUP", "SIGINT", "TERM", "-SIGKILL", "",
		"0", "15", "SIGHUP", "sigterm", "99", "-0",
		"USR1", "USR2", "PIPE", "ALRM",
		"not-a-signal", "12345", "-", "--5",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		sig, err := ParseSignal(input)
		if err == nil && sig < 0 {
			t.Fatalf("ParseSignal(%q) = %d", input, sig)
		}
	})
}

// FuzzParseListing checks that parsing is stable and that no record it
// produces can yield a non-positive PID.
func FuzzParseListing(f *testing.F) {
	f.Add("123 pts/0 S+ 0:00 gpu_profiler\n456 pts/1 S+ 0:00 grep gpu_profiler\n")
	f.Add("123 pts/0 S+ 0:00 gpu_profiler\n\n")
	f.Add("  PID TTY STAT TIME COMMAND\n")
	f.Add("   \t \n-1 x\n0 y\n")
	f.Add("")
	f.Fuzz(func(t *testing.T, text string) {
		first := ParseListing(text)
		second := ParseListing(text)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("parse not idempotent: %q vs %q", first, second)
		}
		for _, rec := range first {
			if pid, err := rec.PID(); err == nil && pid <= 0 {
				t.Fatalf("record %q parsed to pid %d", rec, pid)
			}
		}
	})
}
