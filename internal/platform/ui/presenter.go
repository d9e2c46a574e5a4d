// internal/platform/ui/presenter.go
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// UIMode define el modo de visualización
type UIMode string

const (
	UIModeAuto  UIMode = "auto"  // pterm en terminal, raw en pipes
	UIModePTerm UIMode = "pterm" // Spinner y paneles pterm
	UIModeBar   UIMode = "bar"   // Barra de progreso pb
	UIModeRaw   UIMode = "raw"   // Líneas logfmt, apto para pipes y CI
	UIModeQuiet UIMode = "quiet" // Sin UI visual
)

// Presenter presenta el progreso de una búsqueda. Se registra en el motor como
// observer (ports.Notifier) y además acepta mensajes sueltos del CLI.
type Presenter interface {
	ports.Notifier

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)
}

// Options configura la construcción de un Presenter.
type Options struct {
	Mode UIMode

	// Out destino de la salida (default os.Stderr)
	Out io.Writer

	// RevealPassword muestra el password encontrado
	RevealPassword bool
}

// ResolveMode resuelve UIModeAuto según si out es una terminal.
func ResolveMode(mode UIMode, out io.Writer) UIMode {
	if mode != UIModeAuto && mode != "" {
		return mode
	}
	if IsTerminal(out) {
		return UIModePTerm
	}
	return UIModeRaw
}

// IsTerminal indica si w es un *os.File conectado a una terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// New crea el Presenter del modo pedido.
func New(opts Options) (Presenter, error) {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}

	switch ResolveMode(opts.Mode, opts.Out) {
	case UIModePTerm:
		return NewPTermPresenter(opts.Out, opts.RevealPassword, IsTerminal(opts.Out)), nil
	case UIModeBar:
		return NewBarPresenter(opts.Out), nil
	case UIModeRaw:
		return NewRawPresenter(opts.Out, LogFormatText), nil
	case UIModeQuiet:
		return NewNoopPresenter(), nil
	default:
		return nil, fmt.Errorf("unknown ui mode %q", opts.Mode)
	}
}

// eventHandler es lo que cada presenter concreto implementa; dispatch traduce
// eventos del motor a estas llamadas.
type eventHandler interface {
	started(ev ports.SearchStartedEvent)
	progress(sample ports.ProgressSample)
	finished(report *domain.SearchReport)
	Warning(msg string)
}

func dispatch(ctx context.Context, h eventHandler, event ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch event.Type {
	case ports.EventTypeSearchStarted:
		if ev, ok := event.Data.(ports.SearchStartedEvent); ok {
			h.started(ev)
		}
	case ports.EventTypeProgressSample:
		if sample, ok := event.Data.(ports.ProgressSample); ok {
			h.progress(sample)
		}
	case ports.EventTypeSearchFound, ports.EventTypeSearchExhausted, ports.EventTypeSearchAborted:
		if report, ok := event.Data.(*domain.SearchReport); ok && report != nil {
			h.finished(report)
		}
	case ports.EventTypeSystemWarning:
		h.Warning(fmt.Sprint(event.Data))
	}
	return nil
}
