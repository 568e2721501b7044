package testutil

import "testing"

func ClampString(data string, max int) string {
	if len(data) > max {
		return data[:max]
	}
	return data
}

// FuzzRun runs an applet with captured stdio and fails on exit codes
// outside the POSIX set the applets use.
func FuzzRun(t *testing.T, run RunApplet, args []string) {
	t.Helper()
	_, _, code := CaptureAndRun(t, run, args)
	if code < 0 || code > 2 {
		t.Fatalf("unexpected exit code %d for %q", code, args)
	}
}
