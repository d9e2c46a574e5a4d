// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"passhunt/internal/platform/logx"
)

// ErrInvalidSize indica un tamaño de pool no positivo.
var ErrInvalidSize = errors.New("worker pool size must be positive")

// WorkFunc es el cuerpo de un worker. Se ejecuta una vez por worker y debe
// retornar cuando no haya más trabajo o ctx sea cancelado.
type WorkFunc func(ctx context.Context, workerID int) error

// Pool ejecuta un número fijo de workers y espera a que todos terminen.
type Pool struct {
	workers int
	logger  logx.Logger
}

// Config configura el worker pool.
type Config struct {
	Workers int
	Logger  logx.Logger
}

// DefaultWorkers retorna el paralelismo disponible menos un CPU de margen (mínimo 1).
func DefaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		return 1
	}
	return n
}

// New crea un pool de tamaño fijo. Un tamaño <= 0 es un error de configuración.
func New(cfg Config) (*Pool, error) {
	if cfg.Workers <= 0 {
		return nil, ErrInvalidSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &Pool{
		workers: cfg.Workers,
		logger:  cfg.Logger.With("component", "worker-pool"),
	}, nil
}

// Workers retorna el tamaño del pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Run arranca los workers y retorna solo cuando todos han salido.
// El primer error de un worker cancela el contexto compartido del resto.
func (p *Pool) Run(ctx context.Context, fn WorkFunc) error {
	start := time.Now()
	p.logger.Debug("starting worker pool", "workers", p.workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		id := i
		g.Go(func() error {
			p.logger.Debug("worker started", "worker_id", id)
			err := fn(gctx, id)
			p.logger.Debug("worker stopped", "worker_id", id, "error", err != nil)
			return err
		})
	}

	err := g.Wait()
	p.logger.Debug("worker pool stopped",
		"workers", p.workers,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return err
}

// Stats retorna estadísticas del worker pool.
func (p *Pool) Stats() Stats {
	return Stats{Workers: p.workers}
}

// Stats contiene estadísticas del worker pool.
type Stats struct {
	Workers int
}
