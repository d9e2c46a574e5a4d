// internal/core/usecases/coordinator.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/platform/logx"
)

// Coordinator es la única autoridad sobre el estado de la búsqueda.
// Todas las transiciones pasan por un único goroutine (actor) que consume el
// inbox en orden; las lecturas usan una copia publicada atómicamente.
type Coordinator struct {
	inbox    chan command
	state    atomic.Pointer[domain.SearchState]
	ctx      context.Context
	cancel   context.CancelFunc
	terminal chan struct{}
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	now      func() time.Time
	logger   logx.Logger
}

// CoordinatorOptions configura el coordinador.
type CoordinatorOptions struct {
	// InboxSize capacidad del buzón de mensajes
	InboxSize int

	// Now reloj (inyectable en tests)
	Now func() time.Time

	Logger logx.Logger
}

type commandKind int

const (
	cmdReport commandKind = iota
	cmdCancel
	cmdExhaust
)

type command struct {
	kind   commandKind
	result domain.AttemptResult
	reason string
	reply  chan domain.SearchState
}

// NewCoordinator crea el coordinador y arranca su actor.
func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		inbox:    make(chan command, opts.InboxSize),
		ctx:      ctx,
		cancel:   cancel,
		terminal: make(chan struct{}),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
		now:      opts.Now,
		logger:   opts.Logger.With("component", "coordinator"),
	}

	initial := domain.NewSearchState(c.now())
	c.state.Store(&initial)

	go c.loop()
	return c
}

// Context se cancela en la primera transición a un estado terminal.
// Es la señal de cancelación que observan distribuidor y workers.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Done se cierra cuando la búsqueda alcanza un estado terminal.
func (c *Coordinator) Done() <-chan struct{} {
	return c.terminal
}

// Snapshot retorna una copia consistente del estado. No bloquea.
func (c *Coordinator) Snapshot() domain.SearchState {
	return *c.state.Load()
}

// Report entrega el resultado de un intento y espera a que el actor lo procese.
// Tras un estado terminal los reportes se absorben sin cambiar nada.
func (c *Coordinator) Report(r domain.AttemptResult) {
	c.send(command{kind: cmdReport, result: r})
}

// Cancel pasa de Running a Aborted(reason). No tiene efecto si ya es terminal.
func (c *Coordinator) Cancel(reason string) domain.SearchState {
	return c.send(command{kind: cmdCancel, reason: reason})
}

// Exhaust marca la búsqueda como agotada si sigue en Running.
// Se invoca cuando la fuente y todos los workers terminaron.
func (c *Coordinator) Exhaust() domain.SearchState {
	return c.send(command{kind: cmdExhaust})
}

// Close detiene el actor. Las llamadas posteriores no tienen efecto.
func (c *Coordinator) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.stopped
		c.cancel()
	})
}

func (c *Coordinator) send(cmd command) domain.SearchState {
	cmd.reply = make(chan domain.SearchState, 1)

	select {
	case c.inbox <- cmd:
	case <-c.stopped:
		return c.Snapshot()
	}

	select {
	case s := <-cmd.reply:
		return s
	case <-c.stopped:
		return c.Snapshot()
	}
}

func (c *Coordinator) loop() {
	defer close(c.stopped)

	for {
		select {
		case cmd := <-c.inbox:
			cmd.reply <- c.handle(cmd)
		case <-c.stop:
			return
		}
	}
}

// handle aplica un comando. Solo se ejecuta dentro del actor.
func (c *Coordinator) handle(cmd command) domain.SearchState {
	s := c.Snapshot()

	switch cmd.kind {
	case cmdReport:
		c.applyReport(&s, cmd.result)
	case cmdCancel:
		if !s.IsTerminal() {
			c.finish(&s, domain.StatusAborted, "", cmd.reason)
		}
	case cmdExhaust:
		if !s.IsTerminal() {
			c.finish(&s, domain.StatusExhausted, "", "")
		}
	}

	c.state.Store(&s)
	if s.IsTerminal() {
		c.signal()
	}
	return s
}

func (c *Coordinator) applyReport(s *domain.SearchState, r domain.AttemptResult) {
	v := r.Verdict

	if s.IsTerminal() {
		c.logger.Debug("late report absorbed",
			"status", s.Status,
			"outcome", v.Kind,
			"worker_id", r.WorkerID,
		)
		return
	}
	if v.IsError() && errors.Is(v.Err, domain.ErrSearchCanceled) {
		c.logger.Debug("canceled attempt ignored", "worker_id", r.WorkerID)
		return
	}

	s.Attempted++
	s.LastCandidate = r.Candidate
	if v.Attempts > 1 {
		s.Retries += int64(v.Attempts - 1)
	}

	switch {
	case v.IsMatch():
		c.finish(s, domain.StatusFound, r.Candidate, "")

	case v.IsFatal():
		s.Errors++
		c.finish(s, domain.StatusAborted, "", v.Reason())

	case v.IsTransient():
		// el oráculo ya agotó sus reintentos
		s.Errors++
		c.finish(s, domain.StatusAborted, "", exhaustedReason(v))
	}
}

// exhaustedReason antepone "retries exhausted" una sola vez: sin Detail, la
// razón ya viene del error envuelto por el envoltorio de reintentos.
func exhaustedReason(v domain.Verdict) string {
	reason := v.Reason()
	prefix := domain.ErrRetriesExhausted.Error()
	if strings.HasPrefix(reason, prefix) {
		return reason
	}
	return fmt.Sprintf("%s: %s", prefix, reason)
}

func (c *Coordinator) finish(s *domain.SearchState, status domain.Status, password, reason string) {
	s.Status = status
	s.Password = password
	s.Reason = reason
	s.FinishedAt = c.now()

	c.logger.Debug("search finished",
		"status", status,
		"reason", reason,
		"attempted", s.Attempted,
	)
}

// signal difunde la cancelación una sola vez.
func (c *Coordinator) signal() {
	select {
	case <-c.terminal:
	default:
		close(c.terminal)
		c.cancel()
	}
}
