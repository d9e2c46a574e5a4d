package candidates

import (
	"context"

	"passhunt/internal/core/ports"
	"passhunt/internal/platform/workerpool"
)

// List es una secuencia finita ya materializada, ordenada por un Scheduler.
type List struct {
	items []string
}

// NewList crea una fuente sobre items. scheduler nil conserva el orden.
func NewList(items []string, scheduler workerpool.Scheduler) *List {
	if scheduler == nil {
		scheduler = workerpool.NewFIFOScheduler()
	}
	return &List{items: scheduler.Schedule(items)}
}

func (l *List) Name() string { return "list" }
func (l *List) Len() int64   { return int64(len(l.items)) }
func (l *List) Close() error { return nil }

// Items retorna una copia de los candidatos en orden de despacho.
func (l *List) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Stream(ctx context.Context) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		for _, item := range l.items {
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errc
}

var _ ports.SizedSource = (*List)(nil)
