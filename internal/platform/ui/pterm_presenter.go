// internal/platform/ui/pterm_presenter.go
package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar un spinner, paneles y colores en la terminal.
type PTermPresenter struct {
	mu  sync.Mutex
	out io.Writer

	// animate habilita el spinner (solo en terminales)
	animate bool
	reveal  bool

	spinner   *pterm.SpinnerPrinter
	info      ports.SearchStartedEvent
	startTime time.Time
	lastLine  string
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter(out io.Writer, reveal, animate bool) *PTermPresenter {
	return &PTermPresenter{
		out:     out,
		reveal:  reveal,
		animate: animate,
	}
}

// Notify implementa ports.Notifier
func (p *PTermPresenter) Notify(ctx context.Context, event ports.Event) error {
	return dispatch(ctx, p, event)
}

// started muestra el header de la búsqueda y arranca el spinner
func (p *PTermPresenter) started(ev ports.SearchStartedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.info = ev
	p.startTime = time.Now()

	header := pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprint("passhunt - dictionary search")
	fmt.Fprintln(p.out, header)

	total := "stream"
	if ev.Total >= 0 {
		total = fmt.Sprintf("%d", ev.Total)
	}

	content := fmt.Sprintf("%s Target: %s (%s)\n", IconTarget, pterm.Cyan(ev.Target.Path), ev.Target.Format)
	content += fmt.Sprintf("%s Oracle: %s\n", IconOracle, pterm.Yellow(ev.Oracle))
	content += fmt.Sprintf("%s Workers: %d\n", IconWorkers, ev.Workers)
	content += fmt.Sprintf("%s Candidates: %s", IconStats, total)

	box := pterm.DefaultBox.
		WithTitle("Search").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(content)
	fmt.Fprintln(p.out, box)
	fmt.Fprintln(p.out)

	if p.animate {
		p.spinner, _ = pterm.DefaultSpinner.
			WithWriter(p.out).
			WithStyle(pterm.NewStyle(pterm.FgCyan)).
			WithSequence("⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷").
			WithRemoveWhenDone(false).
			Start("  testing candidates...")
	}
}

// progress actualiza el texto del spinner o imprime una línea
func (p *PTermPresenter) progress(s ports.ProgressSample) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := "  " + formatProgress(s)
	if p.spinner != nil {
		p.spinner.UpdateText(line)
		return
	}
	// Sin spinner solo se imprime cuando la línea cambia
	if line != p.lastLine {
		fmt.Fprintln(p.out, StyleSecondary.Sprint(line))
		p.lastLine = line
	}
}

// finished detiene el spinner y muestra el panel final
func (p *PTermPresenter) finished(report *domain.SearchReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	summary := fmt.Sprintf("%s %s after %d candidates in %s",
		statusSymbol(report.State.Status),
		report.State.Status,
		report.State.Attempted,
		formatDuration(report.Elapsed),
	)
	p.stopSpinner(report.State.Status, summary)

	style := statusStyle(report.State.Status)
	content := fmt.Sprintf("%s Duration: %s\n", IconTime, formatDuration(report.Elapsed))
	content += fmt.Sprintf("%s Attempted: %d", IconStats, report.State.Attempted)
	if report.Skipped > 0 {
		content += fmt.Sprintf("\n   Skipped: %d", report.Skipped)
	}
	if report.State.Errors > 0 {
		content += fmt.Sprintf("\n   Errors: %s", pterm.Red(report.State.Errors))
	}
	content += fmt.Sprintf("\n   Rate: %.1f/s", report.Rate)

	switch report.State.Status {
	case domain.StatusFound:
		content += fmt.Sprintf("\n\n   Password: %s", pterm.Green(maskPassword(report.State.Password, p.reveal)))
	case domain.StatusAborted:
		content += fmt.Sprintf("\n\n   Reason: %s", pterm.Red(report.State.Reason))
	}

	box := pterm.DefaultBox.
		WithTitle(style.Sprint(string(report.State.Status))).
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(style).
		Sprint(content)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, box)
	fmt.Fprintln(p.out)
}

func (p *PTermPresenter) stopSpinner(status domain.Status, msg string) {
	if p.spinner == nil {
		fmt.Fprintln(p.out, statusStyle(status).Sprint(msg))
		return
	}

	switch status {
	case domain.StatusFound:
		p.spinner.Success(msg)
	case domain.StatusExhausted:
		p.spinner.Warning(msg)
	default:
		p.spinner.Fail(msg)
	}
	p.spinner = nil
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, pterm.Info.Sprint(msg))
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, pterm.Warning.Sprint(msg))
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, pterm.Error.Sprint(msg))
}

// Close limpia recursos del presenter
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		err := p.spinner.Stop()
		p.spinner = nil
		return err
	}
	return nil
}
