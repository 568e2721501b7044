package pgrep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcarmo/pskill/pkg/applets/procutil"
	"github.com/rcarmo/pskill/pkg/core"
	"github.com/rcarmo/pskill/pkg/testutil"
)

func TestRunFixture(t *testing.T) {
	lister := testutil.TextLister{Text: "123 pts/0 S+ 0:00 gpu_profiler\n456 pts/1 S+ 0:00 grep gpu_profiler\n\n"}
	newLister := func(string) (procutil.Lister, error) { return lister, nil }

	stdio, out, _ := testutil.CaptureStdio("")
	assert.Equal(t, core.ExitSuccess, run(stdio, []string{"gpu_profiler"}, newLister))
	assert.Equal(t, "123\n", out.String())

	stdio, out, _ = testutil.CaptureStdio("")
	assert.Equal(t, core.ExitSuccess, run(stdio, []string{"-m", "", "gpu_profiler"}, newLister))
	assert.Equal(t, "123\n456\n", out.String())
}

func TestRunListingTimeout(t *testing.T) {
	newLister := func(string) (procutil.Lister, error) { return testutil.BlockingLister{}, nil }

	stdio, _, errBuf := testutil.CaptureStdio("")
	start := time.Now()
	code := run(stdio, []string{"-t", "50ms", "gpu_profiler"}, newLister)
	assert.Equal(t, core.ExitFailure, code)
	assert.True(t, time.Since(start) < 5*time.Second, "listing was not bounded")
	assert.Contains(t, errBuf.String(), context.DeadlineExceeded.Error())
}
