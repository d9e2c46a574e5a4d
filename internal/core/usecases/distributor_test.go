// internal/core/usecases/distributor_test.go
package usecases

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/platform/dedupe"
	"passhunt/internal/testutil"
)

func drain(t *testing.T, d *Distributor, ctx context.Context) ([]string, error) {
	t.Helper()
	var out []string
	for {
		c, err := d.Next(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
}

func TestDistributor_SingleConsumerKeepsOrder(t *testing.T) {
	ctx := context.Background()
	d := NewDistributor(ctx, newSliceSource(testutil.FixtureCandidates...), DistributorOptions{Logger: testutil.NewTestLogger()})

	got, err := drain(t, d, ctx)

	testutil.AssertTrue(t, errors.Is(err, domain.ErrEndOfInput), "end of input")
	testutil.AssertEqual(t, got, testutil.FixtureCandidates, "order preserved")
	testutil.AssertTrue(t, d.Exhausted(), "exhausted")
	testutil.AssertEqual(t, d.Dispensed(), int64(3), "dispensed")

	// llamadas posteriores siguen devolviendo fin de entrada
	_, err = d.Next(ctx)
	testutil.AssertTrue(t, errors.Is(err, domain.ErrEndOfInput), "still end of input")
}

func TestDistributor_ConcurrentConsumersCoverEachOnce(t *testing.T) {
	ctx := context.Background()
	input := testutil.FixtureCandidateRange(500)
	d := NewDistributor(ctx, newSliceSource(input...), DistributorOptions{Logger: testutil.NewTestLogger()})

	var mu sync.Mutex
	var got []string
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				c, err := d.Next(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				got = append(got, c)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Strings(got)
	testutil.AssertEqual(t, got, input, "every candidate handed out exactly once")
}

func TestDistributor_SkipsEmpty(t *testing.T) {
	ctx := context.Background()
	d := NewDistributor(ctx, newSliceSource("a", "", "b"), DistributorOptions{Logger: testutil.NewTestLogger()})

	got, _ := drain(t, d, ctx)
	testutil.AssertEqual(t, got, []string{"a", "b"}, "empty skipped")
	testutil.AssertEqual(t, d.Skipped(), int64(1), "skipped")
}

func TestDistributor_AllowEmpty(t *testing.T) {
	ctx := context.Background()
	d := NewDistributor(ctx, newSliceSource(""), DistributorOptions{AllowEmpty: true, Logger: testutil.NewTestLogger()})

	got, _ := drain(t, d, ctx)
	testutil.AssertEqual(t, got, []string{""}, "empty candidate dispensed")
}

func TestDistributor_DuplicatesDispensedByDefault(t *testing.T) {
	ctx := context.Background()
	d := NewDistributor(ctx, newSliceSource("a", "a", "b"), DistributorOptions{Logger: testutil.NewTestLogger()})

	got, _ := drain(t, d, ctx)
	testutil.AssertLen(t, got, 3, "duplicates counted")
}

func TestDistributor_Dedupe(t *testing.T) {
	ctx := context.Background()
	d := NewDistributor(ctx, newSliceSource("a", "a", "b", "a"), DistributorOptions{
		Dedupe: dedupe.NewSet(100),
		Logger: testutil.NewTestLogger(),
	})

	got, _ := drain(t, d, ctx)
	testutil.AssertEqual(t, got, []string{"a", "b"}, "duplicates dropped")
	testutil.AssertEqual(t, d.Skipped(), int64(2), "skipped")
}

func TestDistributor_Reject(t *testing.T) {
	ctx := context.Background()
	d := NewDistributor(ctx, newSliceSource("a", "-", "b"), DistributorOptions{
		Reject: func(c string) string {
			if c == "-" {
				return "not expressible"
			}
			return ""
		},
		Logger: testutil.NewTestLogger(),
	})

	got, _ := drain(t, d, ctx)
	testutil.AssertEqual(t, got, []string{"a", "b"}, "rejected candidate never dispensed")
	testutil.AssertEqual(t, d.Skipped(), int64(1), "rejected counted as skipped")
}

func TestDistributor_MalformedStream(t *testing.T) {
	ctx := context.Background()
	src := newSliceSource("a", "b", "c")
	src.failAfter = 2
	d := NewDistributor(ctx, src, DistributorOptions{Logger: testutil.NewTestLogger()})

	got, err := drain(t, d, ctx)
	testutil.AssertLen(t, got, 2, "candidates before failure")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrMalformedStream), "malformed stream")

	_, err = d.Next(ctx)
	testutil.AssertTrue(t, errors.Is(err, domain.ErrMalformedStream), "error is sticky")
}

func TestDistributor_BlockedCallerWakesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDistributor(ctx, blockingSource{}, DistributorOptions{Logger: testutil.NewTestLogger()})

	errc := make(chan error, 1)
	go func() {
		_, err := d.Next(ctx)
		errc <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		testutil.AssertTrue(t, errors.Is(err, domain.ErrSearchCanceled) || errors.Is(err, domain.ErrEndOfInput), "woken up")
	case <-time.After(time.Second):
		t.Fatal("Next should wake up on cancellation")
	}
}

func TestDistributor_StopsYieldingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDistributor(ctx, newSliceSource(testutil.FixtureCandidateRange(100)...), DistributorOptions{Logger: testutil.NewTestLogger()})

	_, err := d.Next(ctx)
	testutil.AssertNoError(t, err, "first candidate")
	cancel()

	for i := 0; i < 10; i++ {
		_, err := d.Next(ctx)
		testutil.AssertTrue(t, errors.Is(err, domain.ErrSearchCanceled), "no candidates after cancel")
	}
	testutil.AssertEqual(t, d.Dispensed(), int64(1), "dispensed")
}
