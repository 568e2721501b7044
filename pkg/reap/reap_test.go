package reap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/pskill/pkg/applets/procutil"
	"github.com/rcarmo/pskill/pkg/reap"
	"github.com/rcarmo/pskill/pkg/testutil"
)

func fixtureOptions(text string, signaler procutil.Signaler) reap.Options {
	opts := reap.DefaultOptions("gpu_profiler")
	opts.Lister = testutil.TextLister{Text: text}
	opts.Signaler = signaler
	return opts
}

func TestReapScenarios(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    []int
	}{
		{
			name:    "real process plus search step",
			listing: "123 pts/0 S+ 0:00 gpu_profiler\n456 pts/1 S+ 0:00 grep gpu_profiler\n",
			want:    []int{123},
		},
		{
			name:    "trailing blank line",
			listing: "123 pts/0 S+ 0:00 gpu_profiler\n\n",
			want:    []int{123},
		},
		{
			name:    "whitespace only line",
			listing: "   \n",
			want:    []int{},
		},
		{
			name:    "no matching line",
			listing: "789 pts/2 S 0:00 vim notes.txt\n",
			want:    []int{},
		},
		{
			name:    "empty listing",
			listing: "",
			want:    []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signaler := &testutil.FakeSignaler{}
			report, err := reap.Reap(context.Background(), fixtureOptions(tt.listing, signaler))
			require.NoError(t, err)
			assert.Equal(t, tt.want, signaler.PIDs())
			assert.Equal(t, tt.want, report.PIDs())
			assert.Zero(t, report.Failed())
		})
	}
}

func TestReapExcludesEnumerationPIDs(t *testing.T) {
	signaler := &testutil.FakeSignaler{}
	opts := fixtureOptions("123 a gpu_profiler\n4242 pskill gpu_profiler\n", signaler)
	opts.Lister = testutil.TextLister{Text: "123 a gpu_profiler\n4242 pskill gpu_profiler\n", Exclude: []int{4242}}

	report, err := reap.Reap(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []int{123}, signaler.PIDs())
	assert.Equal(t, 2, report.Matched)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, reap.SkipSelf, report.Skipped[0].Reason)
}

func TestReapReportsFailures(t *testing.T) {
	signaler := &testutil.FakeSignaler{Errs: map[int]error{123: syscall.ESRCH}}
	report, err := reap.Reap(context.Background(), fixtureOptions("123 a gpu_profiler\n124 b gpu_profiler\n", signaler))
	require.NoError(t, err)
	assert.Equal(t, []int{123, 124}, signaler.PIDs())
	assert.Equal(t, 1, report.Count(reap.OutcomeNotFound))
	assert.Equal(t, 1, report.Count(reap.OutcomeSignalled))
	assert.Equal(t, 1, report.Failed())
}

func TestReapSignalUnsetIsTerm(t *testing.T) {
	signaler := &testutil.FakeSignaler{}
	opts := fixtureOptions("123 a gpu_profiler\n", signaler)
	opts.Signal = nil

	report, err := reap.Reap(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, signaler.Calls, 1)
	assert.Equal(t, syscall.SIGTERM, signaler.Calls[0].Signal)
	assert.Equal(t, "TERM", report.Signal)
	assert.NotEmpty(t, report.RunID)
}

func TestReapExplicitZeroSignal(t *testing.T) {
	signaler := &testutil.FakeSignaler{}
	opts := fixtureOptions("123 a gpu_profiler\n", signaler)
	opts.Signal = reap.SignalPtr(0)

	report, err := reap.Reap(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, signaler.Calls, 1)
	assert.Equal(t, syscall.Signal(0), signaler.Calls[0].Signal)
	assert.Equal(t, "0", report.Signal)
}

func TestReapErrors(t *testing.T) {
	signaler := &testutil.FakeSignaler{}
	opts := fixtureOptions("123 a gpu_profiler\n", signaler)
	opts.Pattern = ""
	report, err := reap.Reap(context.Background(), opts)
	assert.ErrorIs(t, err, procutil.ErrEmptyPattern)
	require.NotNil(t, report)

	listErr := errors.New("ps exploded")
	opts = fixtureOptions("", signaler)
	opts.Lister = testutil.TextLister{Err: listErr}
	report, err = reap.Reap(context.Background(), opts)
	assert.ErrorIs(t, err, listErr)
	require.NotNil(t, report)
	assert.Empty(t, report.Attempts)
	assert.Empty(t, signaler.Calls)
}

func TestReportEncode(t *testing.T) {
	signaler := &testutil.FakeSignaler{}
	report, err := reap.Reap(context.Background(), fixtureOptions("123 pts/0 S+ 0:00 gpu_profiler\n", signaler))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, reap.FormatYAML))
	assert.Contains(t, buf.String(), "pattern: gpu_profiler")
	assert.Contains(t, buf.String(), "outcome: signalled")

	buf.Reset()
	require.NoError(t, report.Encode(&buf, reap.FormatJSON))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.RunID, decoded["run_id"])

	assert.ErrorIs(t, report.Encode(&buf, "xml"), reap.ErrUnknownFormat)
}

func waitTerminated(t *testing.T, cmd *exec.Cmd) {
	t.Helper()
	err := cmd.Wait()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "want signal exit, got %v", err)
	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	require.True(t, ok)
	assert.True(t, ws.Signaled())
	assert.Equal(t, syscall.SIGTERM, ws.Signal())
}

func TestReapLiveProc(t *testing.T) {
	cmd := testutil.StartSleeper(t, "52.917")
	opts := reap.DefaultOptions("52.917")
	opts.Lister = procutil.ProcLister{}
	if _, err := opts.Lister.List(context.Background(), "52.917"); err != nil {
		t.Skipf("procfs unavailable: %v", err)
	}

	report, err := reap.Reap(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, report.PIDs(), cmd.Process.Pid)
	waitTerminated(t, cmd)
}

func TestReapLivePs(t *testing.T) {
	if _, err := exec.LookPath("ps"); err != nil {
		t.Skip("ps not available")
	}
	cmd := testutil.StartSleeper(t, "53.183")
	opts := reap.DefaultOptions("53.183")
	opts.Lister = procutil.PsLister{}

	report, err := reap.Reap(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, procutil.SourcePs, report.Source)
	assert.Contains(t, report.PIDs(), cmd.Process.Pid)
	waitTerminated(t, cmd)
}

func TestKillMatchingNothingRunning(t *testing.T) {
	report := reap.KillMatching("pskill-no-such-process-8c1f")
	require.NotNil(t, report)
	assert.Empty(t, report.Attempts)
}
