package sevenzip

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/oracles/common"
	"passhunt/internal/testutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		res     common.Result
		want    domain.OutcomeKind
		errKind domain.ErrorKind
	}{
		{"everything ok", common.Result{Output: "Testing     secret.txt\n\nEverything is Ok\n"}, domain.OutcomeMatch, ""},
		{"wrong password", common.Result{Output: "ERROR: Wrong password : secret.txt", ExitCode: 2}, domain.OutcomeNoMatch, ""},
		{"data error", common.Result{Output: "ERROR: Data Error in encrypted file. Wrong password? : secret.txt", ExitCode: 2}, domain.OutcomeNoMatch, ""},
		{"crc failed", common.Result{Output: "CRC Failed in encrypted file", ExitCode: 2}, domain.OutcomeNoMatch, ""},
		{"not an archive", common.Result{Output: "ERROR: secret.7z\nCan not open the file as archive", ExitCode: 2}, domain.OutcomeError, domain.ErrorKindFatal},
		{"usage", common.Result{ExitCode: 7}, domain.OutcomeError, domain.ErrorKindFatal},
		{"memory", common.Result{ExitCode: 8}, domain.OutcomeError, domain.ErrorKindTransient},
		{"user break", common.Result{ExitCode: 255}, domain.OutcomeError, domain.ErrorKindTransient},
		{"timeout", common.Result{TimedOut: true}, domain.OutcomeError, domain.ErrorKindTransient},
		{"inconclusive", common.Result{Output: "Testing"}, domain.OutcomeError, domain.ErrorKindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := classify(tt.res)
			testutil.AssertEqual(t, v.Kind, tt.want, "outcome")
			testutil.AssertEqual(t, v.ErrKind, tt.errKind, "error kind")
		})
	}
}

func TestOracle_Verify(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	script := testutil.WriteScript(t, t.TempDir(), "7z", `
if [ "$2" = "-pSummer2023!" ]; then echo "Everything is Ok"; exit 0; fi
echo "ERROR: Wrong password : secret.txt"; exit 2
`)
	o := New(testutil.NewTestLogger(), script, 5*time.Second)
	target := domain.Target{Path: testutil.WriteFile(t, t.TempDir(), "s.7z", testutil.Fixture7zMagic), Format: domain.Format7z}

	testutil.AssertTrue(t, o.Verify(context.Background(), target, testutil.FixturePassword).IsMatch(), "correct password")
	testutil.AssertTrue(t, o.Verify(context.Background(), target, "admin").IsNoMatch(), "wrong password")
	testutil.AssertNoError(t, o.Preflight(context.Background(), target), "preflight")
}

func TestOracle_PreflightMissingTool(t *testing.T) {
	o := New(testutil.NewTestLogger(), "/nonexistent/7z", time.Second)
	err := o.Preflight(context.Background(), domain.Target{Path: "a.7z", Format: domain.Format7z})
	testutil.AssertTrue(t, errors.Is(err, domain.ErrToolMissing), "tool missing")
}

func TestOracle_UsageHint(t *testing.T) {
	o := New(testutil.NewTestLogger(), "", time.Second)
	testutil.AssertEqual(t, o.UsageHint(domain.Target{Path: "a.7z"}, "pw"), "7z x -ppw a.7z", "hint")
}
