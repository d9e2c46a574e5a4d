// internal/core/usecases/pool.go
package usecases

import (
	"context"
	"errors"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/workerpool"
)

// SearchPool ejecuta el bucle de verificación sobre un pool de tamaño fijo.
type SearchPool struct {
	pool   *workerpool.Pool
	logger logx.Logger
}

// NewSearchPool crea el pool. Un tamaño <= 0 es un error de configuración.
func NewSearchPool(size int, logger logx.Logger) (*SearchPool, error) {
	if logger == nil {
		logger = logx.New()
	}

	pool, err := workerpool.New(workerpool.Config{Workers: size, Logger: logger})
	if err != nil {
		return nil, domain.NewConfigError("workers", domain.ErrInvalidPoolSize)
	}

	return &SearchPool{
		pool:   pool,
		logger: logger.With("component", "search-pool"),
	}, nil
}

// Size retorna el número de workers.
func (p *SearchPool) Size() int {
	return p.pool.Workers()
}

// Run arranca los workers y retorna cuando todos han salido.
// Cada worker termina su verificación en curso antes de salir.
func (p *SearchPool) Run(
	ctx context.Context,
	target domain.Target,
	dist *Distributor,
	oracle ports.Oracle,
	coord *Coordinator,
) error {
	return p.pool.Run(ctx, func(ctx context.Context, id int) error {
		p.work(ctx, id, target, dist, oracle, coord)
		return nil
	})
}

func (p *SearchPool) work(
	ctx context.Context,
	id int,
	target domain.Target,
	dist *Distributor,
	oracle ports.Oracle,
	coord *Coordinator,
) {
	attempts := 0
	defer func() {
		p.logger.Debug("worker done", "worker_id", id, "attempts", attempts)
	}()

	for {
		candidate, err := dist.Next(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedStream) {
				coord.Cancel(err.Error())
			}
			return
		}

		start := time.Now()
		v := oracle.Verify(ctx, target, candidate)
		attempts++

		coord.Report(domain.AttemptResult{
			Candidate: candidate,
			Verdict:   v,
			Duration:  time.Since(start),
			WorkerID:  id,
		})
	}
}
