package pgrep_test

import (
	"strconv"
	"testing"

	"github.com/rcarmo/pskill/pkg/applets/pgrep"
	"github.com/rcarmo/pskill/pkg/core"
	"github.com/rcarmo/pskill/pkg/testutil"
)

func TestPgrep(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{
			Name:     "missing",
			Args:     []string{"pskill-definitely-not-running"},
			WantCode: core.ExitFailure,
		},
		{
			Name:     "no_pattern",
			Args:     []string{},
			WantCode: core.ExitUsage,
			WantErr:  "missing pattern",
		},
		{
			Name:     "invalid_option",
			Args:     []string{"-Z"},
			WantCode: core.ExitUsage,
			WantErr:  "unknown shorthand flag",
		},
		{
			Name:     "invalid_source",
			Args:     []string{"--source", "wmi", "x"},
			WantCode: core.ExitUsage,
			WantErr:  "unknown process source",
		},
	}

	testutil.RunAppletTests(t, pgrep.Run, tests)
}

func TestPgrepFindsChildWithoutSignalling(t *testing.T) {
	cmd := testutil.StartSleeper(t, "55.611")
	pid := strconv.Itoa(cmd.Process.Pid)

	testutil.RunAppletTests(t, pgrep.Run, []testutil.AppletTestCase{
		{
			Name:       "pid",
			Args:       []string{"--source", "proc", "55.611"},
			WantCode:   core.ExitSuccess,
			WantOutSub: pid,
		},
		{
			Name:       "list",
			Args:       []string{"-l", "--source", "proc", "55.611"},
			WantCode:   core.ExitSuccess,
			WantOutSub: pid + " sleep 55.611",
		},
	})

	if cmd.ProcessState != nil {
		t.Fatal("pgrep must not signal")
	}
}
