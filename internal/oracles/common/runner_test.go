package common

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"passhunt/internal/core/domain"
	perrors "passhunt/internal/platform/errors"
	"passhunt/internal/testutil"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func newScriptRunner(t *testing.T, body string, timeout time.Duration) *ToolRunner {
	t.Helper()
	script := testutil.WriteScript(t, t.TempDir(), "fake-tool", body)
	return NewToolRunner(testutil.NewTestLogger(), RunnerConfig{
		OracleName: "test",
		Tool:       "fake-tool",
		ExecPath:   script,
		Timeout:    timeout,
	})
}

func TestToolRunner_Run_Success(t *testing.T) {
	skipOnWindows(t)
	r := newScriptRunner(t, `echo "testing $1"; echo "All OK" >&2; exit 0`, 5*time.Second)

	res, err := r.Run(context.Background(), "secret.rar")

	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, res.ExitCode, 0, "exit code")
	testutil.AssertFalse(t, res.TimedOut, "timed out")
	testutil.AssertContains(t, res.Output, "testing secret.rar", "stdout captured")
	testutil.AssertContains(t, res.Output, "All OK", "stderr captured")
}

func TestToolRunner_Run_ExitCode(t *testing.T) {
	skipOnWindows(t)
	r := newScriptRunner(t, `echo "Incorrect password"; exit 11`, 5*time.Second)

	res, err := r.Run(context.Background())

	testutil.AssertNoError(t, err, "non-zero exit is not an error")
	testutil.AssertEqual(t, res.ExitCode, 11, "exit code")
	testutil.AssertTrue(t, res.Contains("incorrect PASSWORD"), "case-insensitive contains")
}

func TestToolRunner_Run_Timeout(t *testing.T) {
	skipOnWindows(t)
	r := newScriptRunner(t, `sleep 10`, 100*time.Millisecond)

	start := time.Now()
	res, err := r.Run(context.Background())

	testutil.AssertNoError(t, err, "run")
	testutil.AssertTrue(t, res.TimedOut, "timed out")
	testutil.AssertTrue(t, time.Since(start) < 5*time.Second, "process killed promptly")
}

func TestToolRunner_Run_KillsProcessGroup(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "child-survived")
	r := newScriptRunner(t, `(sleep 1; touch `+marker+`) & sleep 10`, 100*time.Millisecond)

	res, _ := r.Run(context.Background())
	testutil.AssertTrue(t, res.TimedOut, "timed out")

	time.Sleep(1500 * time.Millisecond)
	_, err := os.Stat(marker)
	testutil.AssertTrue(t, os.IsNotExist(err), "child process killed with the group")
}

func TestToolRunner_Run_ContextDeadlineWins(t *testing.T) {
	skipOnWindows(t)
	r := newScriptRunner(t, `sleep 10`, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := r.Run(ctx)
	testutil.AssertNoError(t, err, "run")
	testutil.AssertTrue(t, res.TimedOut, "caller deadline applied")
}

func TestToolRunner_MissingTool(t *testing.T) {
	r := NewToolRunner(testutil.NewTestLogger(), RunnerConfig{
		OracleName: "test",
		Tool:       "definitely-not-installed-tool",
	})

	_, err := r.Run(context.Background())
	testutil.AssertTrue(t, errors.Is(err, domain.ErrToolMissing), "tool missing")
	testutil.AssertTrue(t, errors.Is(r.Preflight(), domain.ErrToolMissing), "preflight")
	testutil.AssertEqual(t, r.Timeout(), DefaultTimeout, "default timeout")
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"simple", "simple"},
		{"Summer2023!", "'Summer2023!'"},
		{"with space", "'with space'"},
		{"it's", `'it'\''s'`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			testutil.AssertEqual(t, ShellQuote(tt.in), tt.want, "quoted")
		})
	}
}

func TestCheckFormat(t *testing.T) {
	target := domain.Target{Path: "/tmp/a.zip", Format: domain.FormatZIP}

	testutil.AssertNoError(t, CheckFormat(target, domain.FormatRAR, domain.FormatZIP), "supported")
	err := CheckFormat(target, domain.FormatRAR)
	testutil.AssertTrue(t, errors.Is(err, domain.ErrUnsupportedFormat), "unsupported")
	testutil.AssertTrue(t, strings.Contains(err.Error(), "a.zip"), "names the file")
}

func TestVerdictHelpers(t *testing.T) {
	v := TimeoutVerdict(Result{TimedOut: true, Duration: 1500 * time.Millisecond})
	testutil.AssertTrue(t, v.IsTransient(), "timeout is transient")
	testutil.AssertContains(t, v.Reason(), "timed out", "reason")

	v = ExitVerdict(Result{ExitCode: 255})
	testutil.AssertTrue(t, v.IsTransient(), "unexpected exit is transient")
	testutil.AssertEqual(t, v.Reason(), "exit code 255", "reason")
}

func TestDrain(t *testing.T) {
	err := Drain(context.Background(), strings.NewReader("payload"))
	testutil.AssertNoError(t, err, "full read")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Drain(ctx, strings.NewReader("payload"))
	testutil.AssertTrue(t, errors.Is(err, context.Canceled), "canceled before read")
	testutil.AssertTrue(t, IsInterrupted(err), "interrupted")

	v := InterruptedVerdict(context.DeadlineExceeded)
	testutil.AssertTrue(t, v.IsTransient(), "deadline is transient")
	testutil.AssertTrue(t, errors.Is(v.Err, perrors.ErrTimeout), "deadline maps to timeout")
}
