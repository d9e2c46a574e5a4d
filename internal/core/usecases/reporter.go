// internal/core/usecases/reporter.go
package usecases

import (
	"context"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// Snapshotter es satisfecho por Coordinator.
type Snapshotter interface {
	Snapshot() domain.SearchState
}

// Reporter muestrea el estado a intervalo fijo y emite ProgressSample.
// Solo lee snapshots: nunca muta el estado ni bloquea a los workers.
type Reporter struct {
	source   Snapshotter
	interval time.Duration
	total    int64
	skipped  func() int64
	emit     func(ports.ProgressSample)
	now      func() time.Time
}

// ReporterOptions configura el reporter.
type ReporterOptions struct {
	Interval time.Duration

	// Total candidatos conocidos (-1 = desconocido)
	Total int64

	// Skipped retorna los candidatos descartados hasta ahora (opcional)
	Skipped func() int64

	Emit func(ports.ProgressSample)
	Now  func() time.Time
}

// NewReporter crea un reporter sobre source.
func NewReporter(source Snapshotter, opts ReporterOptions) *Reporter {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Emit == nil {
		opts.Emit = func(ports.ProgressSample) {}
	}
	if opts.Skipped == nil {
		opts.Skipped = func() int64 { return 0 }
	}

	return &Reporter{
		source:   source,
		interval: opts.Interval,
		total:    opts.Total,
		skipped:  opts.Skipped,
		emit:     opts.Emit,
		now:      opts.Now,
	}
}

// Run emite una muestra por tick hasta que ctx se cancele, y una muestra final al salir.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.emit(r.Sample())
			return
		case <-ticker.C:
			r.emit(r.Sample())
		}
	}
}

// Sample construye una muestra a partir del snapshot actual.
func (r *Reporter) Sample() ports.ProgressSample {
	s := r.source.Snapshot()
	now := r.now()

	remaining := int64(-1)
	if r.total >= 0 {
		remaining = r.total - s.Attempted - r.skipped()
		if remaining < 0 || s.Status == domain.StatusExhausted {
			remaining = 0
		}
	}

	return ports.ProgressSample{
		Attempted: s.Attempted,
		Total:     r.total,
		Remaining: remaining,
		Errors:    s.Errors,
		Rate:      s.Rate(now),
		Elapsed:   s.Elapsed(now),
		Last:      s.LastCandidate,
		Status:    s.Status,
	}
}
