package testutil

import (
	"os/exec"
	"testing"
)

// Command wraps exec.Command for test helpers.
func Command(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...) // #nosec G204 -- test helper for external command
}

// StartSleeper starts `sleep duration` as a signal target and reaps it on
// cleanup. The test is skipped when sleep is not installed. The duration
// string doubles as a unique pattern to match the child by.
func StartSleeper(t *testing.T, duration string) *exec.Cmd {
	t.Helper()
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	cmd := Command("sleep", duration)
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if cmd.ProcessState == nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	})
	return cmd
}
