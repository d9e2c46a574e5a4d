// internal/core/usecases/distributor.go
package usecases

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/dedupe"
	"passhunt/internal/platform/logx"
)

// Distributor entrega candidatos de una fuente a workers concurrentes.
// Cada candidato recibido de la fuente se entrega a lo sumo una vez.
type Distributor struct {
	candidates <-chan string
	errc       <-chan error
	allowEmpty bool
	filter     dedupe.Filter
	reject     func(candidate string) string
	logger     logx.Logger

	dispensed atomic.Int64
	skipped   atomic.Int64
	exhausted atomic.Bool

	endOnce   sync.Once
	streamErr error
}

// DistributorOptions configura el distribuidor.
type DistributorOptions struct {
	// AllowEmpty acepta "" como candidato (modo password único)
	AllowEmpty bool

	// Dedupe descarta candidatos repetidos (nil = se entregan todos)
	Dedupe dedupe.Filter

	// Reject retorna un motivo no vacío para candidatos que el oráculo no puede probar
	Reject func(candidate string) string

	Logger logx.Logger
}

// NewDistributor arranca el stream de source ligado a ctx. Cuando ctx se cancela
// la fuente deja de producir.
func NewDistributor(ctx context.Context, source ports.CandidateSource, opts DistributorOptions) *Distributor {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	candidates, errc := source.Stream(ctx)
	return &Distributor{
		candidates: candidates,
		errc:       errc,
		allowEmpty: opts.AllowEmpty,
		filter:     opts.Dedupe,
		reject:     opts.Reject,
		logger:     opts.Logger.With("component", "distributor", "source", source.Name()),
	}
}

// Next retorna el siguiente candidato. Retorna ErrEndOfInput al agotarse la
// fuente, ErrSearchCanceled si ctx fue cancelado y ErrMalformedStream si la
// fuente falló. Un llamador bloqueado despierta al cancelarse ctx.
func (d *Distributor) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", domain.ErrSearchCanceled

		case c, ok := <-d.candidates:
			if !ok {
				// la fuente también cierra el canal al cancelarse
				if ctx.Err() != nil {
					return "", domain.ErrSearchCanceled
				}
				return "", d.end()
			}
			// select elige al azar entre casos listos: un candidato recibido
			// después de la cancelación se descarta.
			if ctx.Err() != nil {
				return "", domain.ErrSearchCanceled
			}
			if c == "" && !d.allowEmpty {
				d.skip(c, "empty")
				continue
			}
			if d.reject != nil {
				if reason := d.reject(c); reason != "" {
					d.skipped.Add(1)
					d.logger.Warn("candidate not testable by oracle", "reason", reason)
					continue
				}
			}
			if d.filter != nil && d.filter.Seen(c) {
				d.skip(c, "duplicate")
				continue
			}

			d.dispensed.Add(1)
			return c, nil
		}
	}
}

func (d *Distributor) skip(candidate, reason string) {
	d.skipped.Add(1)
	d.logger.Debug("candidate skipped", "reason", reason, "length", len(candidate))
}

// end registra el fin del stream una sola vez y recoge el error de la fuente.
func (d *Distributor) end() error {
	d.endOnce.Do(func() {
		select {
		case err, ok := <-d.errc:
			if ok && err != nil {
				d.streamErr = err
			}
		default:
		}
		d.exhausted.Store(true)
		d.logger.Debug("source exhausted",
			"dispensed", d.dispensed.Load(),
			"skipped", d.skipped.Load(),
			"error", d.streamErr != nil,
		)
	})

	if d.streamErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedStream, d.streamErr)
	}
	return domain.ErrEndOfInput
}

// Dispensed retorna cuántos candidatos se entregaron a workers.
func (d *Distributor) Dispensed() int64 { return d.dispensed.Load() }

// Skipped retorna cuántos candidatos se descartaron (vacíos, duplicados o no
// expresables por el oráculo).
func (d *Distributor) Skipped() int64 { return d.skipped.Load() }

// Exhausted indica si la fuente llegó a su fin (con o sin error).
func (d *Distributor) Exhausted() bool { return d.exhausted.Load() }
