// internal/platform/ui/bar_presenter.go
package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

const (
	// barTemplate se usa cuando el total es conocido
	barTemplate pb.ProgressBarTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{speed . "%s p/s" }} {{rtime . "ETA %s"}}`

	// streamTemplate para fuentes sin total (stdin)
	streamTemplate pb.ProgressBarTemplate = `{{string . "prefix"}} {{counters . }} {{speed . "%s p/s" }} {{etime . }}`
)

// BarPresenter muestra el avance con una barra cheggaaa/pb.
type BarPresenter struct {
	mu  sync.Mutex
	out io.Writer
	bar *pb.ProgressBar
}

// NewBarPresenter crea el presenter de barra de progreso
func NewBarPresenter(out io.Writer) *BarPresenter {
	return &BarPresenter{out: out}
}

// Notify implementa ports.Notifier
func (b *BarPresenter) Notify(ctx context.Context, event ports.Event) error {
	return dispatch(ctx, b, event)
}

func (b *BarPresenter) started(ev ports.SearchStartedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tmpl := streamTemplate
	total := int64(0)
	if ev.Total >= 0 {
		tmpl = barTemplate
		total = ev.Total
	}

	bar := tmpl.New(0).SetTotal(total)
	bar.SetWriter(b.out)
	bar.SetRefreshRate(200 * time.Millisecond)
	bar.Set("prefix", fmt.Sprintf("%s [%s x%d]", ev.Target.Path, ev.Oracle, ev.Workers))
	if !IsTerminal(b.out) {
		bar.Set(pb.Terminal, false)
		bar.Set(pb.Color, false)
	}
	b.bar = bar.Start()
}

func (b *BarPresenter) progress(s ports.ProgressSample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		return
	}
	// Skipped cuenta como avance para que la barra llegue al 100%
	done := s.Attempted
	if s.Total >= 0 {
		done = s.Total - s.Remaining
	}
	b.bar.SetCurrent(done)
}

func (b *BarPresenter) finished(report *domain.SearchReport) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		if report.State.Status == domain.StatusExhausted && report.Total >= 0 {
			b.bar.SetCurrent(report.Total)
		}
		b.bar.Finish()
		b.bar = nil
	}

	line := fmt.Sprintf("%s %s after %d candidates in %s",
		statusSymbol(report.State.Status),
		report.State.Status,
		report.State.Attempted,
		formatDuration(report.Elapsed),
	)
	if report.State.Reason != "" && report.State.Status == domain.StatusAborted {
		line += ": " + report.State.Reason
	}
	fmt.Fprintln(b.out, line)
}

// Info muestra un mensaje informativo
func (b *BarPresenter) Info(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintln(b.out, msg)
}

// Warning muestra una advertencia
func (b *BarPresenter) Warning(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintln(b.out, "warning: "+msg)
}

// Error muestra un error
func (b *BarPresenter) Error(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintln(b.out, "error: "+msg)
}

// Close detiene la barra si sigue activa
func (b *BarPresenter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		b.bar.Finish()
		b.bar = nil
	}
	return nil
}
