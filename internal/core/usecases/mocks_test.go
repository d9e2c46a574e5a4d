// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// mockOracle es un mock de ports.Oracle. Por defecto hace match solo con password.
type mockOracle struct {
	name        string
	password    string
	delay       time.Duration
	verdictFunc func(calls int64, candidate string) domain.Verdict
	preflight   error

	calls    atomic.Int64
	mu       sync.Mutex
	seen     []string
	inFlight atomic.Int64
	maxPar   atomic.Int64
	closed   atomic.Bool
}

func newMockOracle(password string) *mockOracle {
	return &mockOracle{name: "mock", password: password}
}

func (m *mockOracle) Name() string {
	return m.name
}

func (m *mockOracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	n := m.calls.Add(1)

	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		prev := m.maxPar.Load()
		if cur <= prev || m.maxPar.CompareAndSwap(prev, cur) {
			break
		}
	}

	m.mu.Lock()
	m.seen = append(m.seen, candidate)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if m.verdictFunc != nil {
		return m.verdictFunc(n, candidate)
	}
	if candidate == m.password {
		return domain.Match()
	}
	return domain.NoMatch()
}

func (m *mockOracle) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *mockOracle) Calls() int64 {
	return m.calls.Load()
}

func (m *mockOracle) Seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.seen))
	copy(out, m.seen)
	return out
}

// mockPreflightOracle añade Preflight al mock.
type mockPreflightOracle struct {
	*mockOracle
}

func (m mockPreflightOracle) Preflight(ctx context.Context, target domain.Target) error {
	return m.preflight
}

// sliceSource es un CandidateSource finito en memoria.
type sliceSource struct {
	items      []string
	allowEmpty bool
	failAfter  int // > 0: falla tras emitir failAfter candidatos
	closed     atomic.Bool
}

func newSliceSource(items ...string) *sliceSource {
	return &sliceSource{items: items}
}

func (s *sliceSource) Name() string { return "slice" }
func (s *sliceSource) Len() int64   { return int64(len(s.items)) }

func (s *sliceSource) AllowsEmpty() bool { return s.allowEmpty }

func (s *sliceSource) Stream(ctx context.Context) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		for i, item := range s.items {
			if s.failAfter > 0 && i == s.failAfter {
				errc <- errors.New("line too long")
				return
			}
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errc
}

func (s *sliceSource) Close() error {
	s.closed.Store(true)
	return nil
}

// streamSource es como sliceSource pero sin tamaño conocido.
type streamSource struct {
	inner *sliceSource
}

func (s streamSource) Name() string { return "stream" }
func (s streamSource) Close() error { return s.inner.Close() }
func (s streamSource) Stream(ctx context.Context) (<-chan string, <-chan error) {
	return s.inner.Stream(ctx)
}

// blockingSource nunca emite ni cierra hasta que ctx se cancela.
type blockingSource struct{}

func (blockingSource) Name() string { return "blocking" }
func (blockingSource) Close() error { return nil }
func (blockingSource) Stream(ctx context.Context) (<-chan string, <-chan error) {
	out := make(chan string)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, make(chan error)
}

// mockNotifier es un mock de ports.Notifier para tests
type mockNotifier struct {
	mu     sync.Mutex
	events []ports.Event
}

func (m *mockNotifier) Notify(ctx context.Context, event ports.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockNotifier) Close() error {
	return nil
}

func (m *mockNotifier) Types() []ports.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func (m *mockNotifier) Count(t ports.EventType) int {
	n := 0
	for _, et := range m.Types() {
		if et == t {
			n++
		}
	}
	return n
}

// filteringOracle rechaza un candidato concreto como no expresable.
type filteringOracle struct {
	*mockOracle
	unsupported string
}

func (f *filteringOracle) Unsupported(candidate string) string {
	if candidate == f.unsupported {
		return "not expressible"
	}
	return ""
}
