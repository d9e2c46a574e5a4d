// internal/core/usecases/engine_test.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/testutil"
)

// newTestTarget escribe un archivo con firma RAR para que Validate lo acepte.
func newTestTarget(t *testing.T) domain.Target {
	t.Helper()
	path := testutil.WriteFile(t, t.TempDir(), "secret.rar", testutil.FixtureRarMagic)
	return *domain.NewTarget(path)
}

func newTestEngine(t *testing.T, oracle ports.Oracle, workers int, mutate ...func(*EngineOptions)) *Engine {
	t.Helper()
	opts := EngineOptions{
		Oracle:           oracle,
		Logger:           testutil.NewTestLogger(),
		Workers:          workers,
		Timeout:          time.Second,
		MaxRetries:       2,
		BackoffBase:      time.Millisecond,
		ProgressInterval: 5 * time.Millisecond,
	}
	for _, m := range mutate {
		m(&opts)
	}

	e, err := NewEngine(opts)
	testutil.AssertNoError(t, err, "new engine")
	return e
}

func TestNewEngine_ConfigErrors(t *testing.T) {
	base := EngineOptions{Oracle: newMockOracle("x"), Workers: 1, Timeout: time.Second, Logger: testutil.NewTestLogger()}

	tests := []struct {
		name   string
		mutate func(*EngineOptions)
		want   error
	}{
		{"zero workers", func(o *EngineOptions) { o.Workers = 0 }, domain.ErrInvalidPoolSize},
		{"negative workers", func(o *EngineOptions) { o.Workers = -3 }, domain.ErrInvalidPoolSize},
		{"zero timeout", func(o *EngineOptions) { o.Timeout = 0 }, domain.ErrInvalidTimeout},
		{"negative retries", func(o *EngineOptions) { o.MaxRetries = -1 }, domain.ErrInvalidRetries},
		{"negative interval", func(o *EngineOptions) { o.ProgressInterval = -time.Second }, domain.ErrInvalidInterval},
		{"no oracle", func(o *EngineOptions) { o.Oracle = nil }, domain.ErrNoOracle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			_, err := NewEngine(opts)
			testutil.AssertTrue(t, errors.Is(err, tt.want), "specific error")
			testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidConfig), "configuration error")
		})
	}
}

func TestEngine_RunConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		target func(t *testing.T) domain.Target
		source ports.CandidateSource
		want   error
	}{
		{"missing target", func(*testing.T) domain.Target { return domain.Target{} }, newSliceSource("a"), domain.ErrMissingTarget},
		{"missing input", newTestTarget, nil, domain.ErrMissingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := newMockOracle("x")
			notifier := &mockNotifier{}
			e := newTestEngine(t, oracle, 2, func(o *EngineOptions) { o.Observers = []ports.Notifier{notifier} })

			report, err := e.Run(context.Background(), tt.target(t), tt.source)

			testutil.AssertTrue(t, errors.Is(err, tt.want), "config error returned")
			testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidConfig), "is a config error")
			testutil.AssertNotNil(t, report, "report always returned")
			testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "status")
			testutil.AssertEqual(t, report.State.Reason, err.Error(), "reason carries the config error")
			testutil.AssertEqual(t, report.State.Attempted, int64(0), "attempted")
			testutil.AssertEqual(t, oracle.Calls(), int64(0), "no worker started")
			testutil.AssertEqual(t, notifier.Count(ports.EventTypeSearchAborted), 1, "terminal event published")
		})
	}
}

func TestEngine_FoundRegardlessOfPositionAndPoolSize(t *testing.T) {
	input := testutil.FixtureCandidateRange(40)

	for _, workers := range []int{1, 2, 8} {
		for _, pos := range []int{0, 17, 39} {
			t.Run(fmt.Sprintf("workers=%d/pos=%d", workers, pos), func(t *testing.T) {
				oracle := newMockOracle(input[pos])
				e := newTestEngine(t, oracle, workers)

				report, err := e.Run(context.Background(), newTestTarget(t), newSliceSource(input...))

				testutil.AssertNoError(t, err, "run")
				testutil.AssertEqual(t, report.State.Status, domain.StatusFound, "status")
				testutil.AssertEqual(t, report.State.Password, input[pos], "password")
				testutil.AssertTrue(t, report.State.Attempted >= 1, "at least one attempt")
				testutil.AssertTrue(t, report.State.Attempted <= int64(len(input)), "never more than input")
			})
		}
	}
}

func TestEngine_ExhaustedAttemptsEveryCandidateOnce(t *testing.T) {
	input := testutil.FixtureCandidateRange(64)

	for _, workers := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			oracle := newMockOracle("not-in-list")
			e := newTestEngine(t, oracle, workers)

			report, err := e.Run(context.Background(), newTestTarget(t), newSliceSource(input...))

			testutil.AssertNoError(t, err, "run")
			testutil.AssertEqual(t, report.State.Status, domain.StatusExhausted, "status")
			testutil.AssertEqual(t, report.State.Attempted, int64(len(input)), "attempted == input size")
			testutil.AssertEqual(t, oracle.Calls(), int64(len(input)), "oracle called once per candidate")
			testutil.AssertEqual(t, report.Remaining(), int64(0), "nothing remaining")
		})
	}
}

func TestEngine_ScenarioSummer(t *testing.T) {
	oracle := newMockOracle(testutil.FixturePassword)
	e := newTestEngine(t, oracle, 2)

	report, err := e.Run(context.Background(), newTestTarget(t), newSliceSource(testutil.FixtureCandidates...))

	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, report.State.Status, domain.StatusFound, "found")
	testutil.AssertEqual(t, report.State.Password, testutil.FixturePassword, "password")
	testutil.AssertTrue(t, report.State.Attempted >= 1 && report.State.Attempted <= 3, "attempted in 1..3")
	testutil.AssertTrue(t, report.Found(), "report found")
}

func TestEngine_ScenarioAllMisses(t *testing.T) {
	oracle := newMockOracle(testutil.FixturePassword)
	e := newTestEngine(t, oracle, 2)

	report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource(testutil.FixtureMisses...))

	testutil.AssertEqual(t, report.State.Status, domain.StatusExhausted, "exhausted")
	testutil.AssertEqual(t, report.State.Attempted, int64(3), "attempted")
}

func TestEngine_ScenarioFatalOnFirstCall(t *testing.T) {
	oracle := newMockOracle(testutil.FixturePassword)
	oracle.verdictFunc = func(n int64, c string) domain.Verdict {
		return domain.Fatal("tool not found", domain.ErrToolMissing)
	}
	e := newTestEngine(t, oracle, 1)

	report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource(testutil.FixtureCandidates...))

	testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
	testutil.AssertEqual(t, report.State.Reason, "tool not found", "reason")
	testutil.AssertEqual(t, report.State.Attempted, int64(1), "attempted")
	testutil.AssertEqual(t, oracle.Calls(), int64(1), "no further calls")
}

func TestEngine_FatalUnderLoadStopsEarly(t *testing.T) {
	input := testutil.FixtureCandidateRange(200)
	oracle := newMockOracle("")
	oracle.delay = time.Millisecond
	oracle.verdictFunc = func(n int64, c string) domain.Verdict {
		if c == input[10] {
			return domain.Fatal("target corrupt", domain.ErrTargetCorrupt)
		}
		return domain.NoMatch()
	}
	e := newTestEngine(t, oracle, 4)

	report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource(input...))

	testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
	testutil.AssertTrue(t, report.State.Attempted < int64(len(input)), "fewer attempts than input")
	testutil.AssertTrue(t, oracle.Calls() < int64(len(input)), "fewer oracle calls than input")
}

func TestEngine_SameClassificationAcrossPoolSizes(t *testing.T) {
	sets := map[string][]string{
		"with password":    append(testutil.FixtureCandidateRange(30), testutil.FixturePassword),
		"without password": testutil.FixtureCandidateRange(30),
	}

	for name, input := range sets {
		t.Run(name, func(t *testing.T) {
			var statuses []domain.Status
			for _, workers := range []int{1, 2, 8} {
				e := newTestEngine(t, newMockOracle(testutil.FixturePassword), workers)
				report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource(input...))
				statuses = append(statuses, report.State.Status)
			}
			testutil.AssertEqual(t, statuses[0], statuses[1], "1 vs 2 workers")
			testutil.AssertEqual(t, statuses[1], statuses[2], "2 vs 8 workers")
		})
	}
}

func TestEngine_TransientRetriedThenAborted(t *testing.T) {
	oracle := newMockOracle(testutil.FixturePassword)
	oracle.verdictFunc = func(n int64, c string) domain.Verdict {
		return domain.Transient("exit code 255", nil)
	}
	e := newTestEngine(t, oracle, 1)

	report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource("a", "b"))

	testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
	testutil.AssertEqual(t, report.State.Reason, "retries exhausted: exit code 255", "reason")
	testutil.AssertEqual(t, oracle.Calls(), int64(3), "1 call + 2 retries")
	testutil.AssertEqual(t, report.State.Retries, int64(2), "retries counted")
}

func TestEngine_TransientRecovered(t *testing.T) {
	oracle := newMockOracle(testutil.FixturePassword)
	oracle.verdictFunc = func(n int64, c string) domain.Verdict {
		if n == 1 {
			return domain.Transient("busy", nil)
		}
		if c == testutil.FixturePassword {
			return domain.Match()
		}
		return domain.NoMatch()
	}
	e := newTestEngine(t, oracle, 1)

	report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource(testutil.FixtureCandidates...))

	testutil.AssertEqual(t, report.State.Status, domain.StatusFound, "found after transient")
	testutil.AssertEqual(t, report.State.Attempted, int64(2), "attempted")
}

func TestEngine_UserCancel(t *testing.T) {
	oracle := newMockOracle("never")
	oracle.delay = 5 * time.Millisecond
	e := newTestEngine(t, oracle, 2)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	report, err := e.Run(ctx, newTestTarget(t), newSliceSource(testutil.FixtureCandidateRange(10000)...))

	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
	testutil.AssertEqual(t, report.State.Reason, "user-requested", "reason")
	testutil.AssertTrue(t, report.State.Attempted > 0, "partial progress reported")
	testutil.AssertTrue(t, report.State.Attempted < 10000, "stopped early")
}

func TestEngine_UserCancelWhileWaitingOnSource(t *testing.T) {
	e := newTestEngine(t, newMockOracle("x"), 4)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan *domain.SearchReport, 1)
	go func() {
		report, _ := e.Run(ctx, newTestTarget(t), blockingSource{})
		done <- report
	}()

	select {
	case report := <-done:
		testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
		testutil.AssertEqual(t, report.State.Attempted, int64(0), "nothing attempted")
		testutil.AssertEqual(t, report.Total, int64(-1), "unknown total")
	case <-time.After(2 * time.Second):
		t.Fatal("blocked workers should wake up on cancellation")
	}
}

func TestEngine_TargetErrorsAbortBeforeWorkers(t *testing.T) {
	oracle := newMockOracle("x")
	e := newTestEngine(t, oracle, 2)

	report, err := e.Run(context.Background(), *domain.NewTarget("/nonexistent/secret.rar"), newSliceSource("a"))

	testutil.AssertNoError(t, err, "fatal errors are a terminal state, not an error")
	testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
	testutil.AssertContains(t, report.State.Reason, "target not found", "reason")
	testutil.AssertEqual(t, oracle.Calls(), int64(0), "oracle never called")
}

func TestEngine_PreflightFailureAborts(t *testing.T) {
	inner := newMockOracle("x")
	inner.preflight = fmt.Errorf("%w: unrar", domain.ErrToolMissing)
	e := newTestEngine(t, mockPreflightOracle{inner}, 2)

	report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource("a"))

	testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
	testutil.AssertEqual(t, report.State.Reason, "tool not found: unrar", "reason")
	testutil.AssertEqual(t, inner.Calls(), int64(0), "no verification")
}

func TestEngine_MalformedStreamAborts(t *testing.T) {
	src := newSliceSource("a", "b", "c", "d")
	src.failAfter = 2
	e := newTestEngine(t, newMockOracle("zzz"), 2)

	report, _ := e.Run(context.Background(), newTestTarget(t), src)

	testutil.AssertEqual(t, report.State.Status, domain.StatusAborted, "aborted")
	testutil.AssertContains(t, report.State.Reason, "malformed candidate stream", "reason")
}

func TestEngine_SinglePasswordUsesOneWorker(t *testing.T) {
	oracle := newMockOracle("")
	src := newSliceSource("")
	src.allowEmpty = true
	e := newTestEngine(t, oracle, 8)

	report, _ := e.Run(context.Background(), newTestTarget(t), src)

	testutil.AssertEqual(t, report.Workers, 1, "pool forced to 1")
	testutil.AssertEqual(t, report.State.Status, domain.StatusFound, "empty password found")
	testutil.AssertEqual(t, report.State.Password, "", "empty password")
}

func TestEngine_PoolBounded(t *testing.T) {
	oracle := newMockOracle("never")
	oracle.delay = 2 * time.Millisecond
	e := newTestEngine(t, oracle, 3)

	e.Run(context.Background(), newTestTarget(t), newSliceSource(testutil.FixtureCandidateRange(60)...))

	testutil.AssertTrue(t, oracle.maxPar.Load() <= 3, "never more concurrent verifications than workers")
}

func TestEngine_DedupeAndCache(t *testing.T) {
	input := []string{"a", "b", "a", "c", "b"}

	t.Run("duplicates counted by default", func(t *testing.T) {
		oracle := newMockOracle("never")
		report, _ := newTestEngine(t, oracle, 1).Run(context.Background(), newTestTarget(t), newSliceSource(input...))
		testutil.AssertEqual(t, report.State.Attempted, int64(5), "attempted counts duplicates")
		testutil.AssertEqual(t, oracle.Calls(), int64(5), "oracle called for each")
	})

	t.Run("dedupe skips", func(t *testing.T) {
		oracle := newMockOracle("never")
		e := newTestEngine(t, oracle, 1, func(o *EngineOptions) { o.Dedupe = true })
		report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource(input...))
		testutil.AssertEqual(t, report.State.Attempted, int64(3), "unique attempts")
		testutil.AssertEqual(t, report.Skipped, int64(2), "skipped")
		testutil.AssertEqual(t, report.Remaining(), int64(0), "remaining")
	})

	t.Run("cache avoids repeated tool calls", func(t *testing.T) {
		oracle := newMockOracle("never")
		e := newTestEngine(t, oracle, 1, func(o *EngineOptions) { o.CacheSize = 16 })
		report, _ := e.Run(context.Background(), newTestTarget(t), newSliceSource(input...))
		testutil.AssertEqual(t, report.State.Attempted, int64(5), "attempted counts duplicates")
		testutil.AssertEqual(t, oracle.Calls(), int64(3), "tool called once per unique candidate")
	})
}

func TestEngine_DedupeKeepsEveryDistinctCandidate(t *testing.T) {
	input := testutil.FixtureCandidateRange(20000)
	oracle := newMockOracle("cand-17508")
	e := newTestEngine(t, oracle, 4, func(o *EngineOptions) { o.Dedupe = true })

	report, err := e.Run(context.Background(), newTestTarget(t), newSliceSource(input...))
	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, report.State.Status, domain.StatusFound, "status")
	testutil.AssertEqual(t, report.State.Password, "cand-17508", "password")
	testutil.AssertEqual(t, report.Skipped, int64(0), "no distinct candidate skipped")
}

func TestEngine_UnsupportedCandidatesSkipped(t *testing.T) {
	inner := newMockOracle("never")
	oracle := &filteringOracle{mockOracle: inner, unsupported: "-"}
	e := newTestEngine(t, oracle, 2)

	report, err := e.Run(context.Background(), newTestTarget(t), newSliceSource("a", "-", "b"))
	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, report.State.Status, domain.StatusExhausted, "status")
	testutil.AssertEqual(t, report.State.Attempted, int64(2), "attempted")
	testutil.AssertEqual(t, report.Skipped, int64(1), "skipped")
	testutil.AssertEqual(t, inner.Calls(), int64(2), "oracle never saw the unsupported candidate")
}

func TestEngine_Notifications(t *testing.T) {
	notifier := &mockNotifier{}
	oracle := newMockOracle("never")
	oracle.delay = 5 * time.Millisecond
	e := newTestEngine(t, oracle, 1, func(o *EngineOptions) { o.Observers = []ports.Notifier{notifier} })

	e.Run(context.Background(), newTestTarget(t), newSliceSource(testutil.FixtureCandidateRange(5)...))

	types := notifier.Types()
	testutil.AssertTrue(t, len(types) >= 3, "started, progress, terminal")
	testutil.AssertEqual(t, types[0], ports.EventTypeSearchStarted, "first event")
	testutil.AssertEqual(t, types[len(types)-1], ports.EventTypeSearchExhausted, "last event")
	testutil.AssertTrue(t, notifier.Count(ports.EventTypeProgressSample) >= 1, "final progress sample")
}

func TestEngine_StreamSourceUnknownTotal(t *testing.T) {
	e := newTestEngine(t, newMockOracle("c"), 2)

	report, _ := e.Run(context.Background(), newTestTarget(t), streamSource{newSliceSource("a", "b", "c")})

	testutil.AssertEqual(t, report.Total, int64(-1), "unknown total")
	testutil.AssertEqual(t, report.Remaining(), int64(-1), "unknown remaining")
	testutil.AssertEqual(t, report.State.Status, domain.StatusFound, "found")
}

func TestEngine_Close(t *testing.T) {
	oracle := newMockOracle("x")
	e := newTestEngine(t, oracle, 1)
	testutil.AssertNoError(t, e.Close(), "close")
	testutil.AssertTrue(t, oracle.closed.Load(), "oracle closed")
}
