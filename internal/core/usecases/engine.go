// internal/core/usecases/engine.go
package usecases

import (
	"context"
	"sync"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/cache"
	"passhunt/internal/platform/dedupe"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/rate"
	"passhunt/internal/platform/resilience"
)

// Engine conecta fuente, distribuidor, pool, coordinador y reporter para
// ejecutar una búsqueda de diccionario contra un target.
type Engine struct {
	oracle    ports.Oracle
	verifier  ports.Oracle
	logger    logx.Logger
	observers []ports.Notifier

	workers          int
	progressInterval time.Duration
	dedupe           bool
	version          string

	notifyWg sync.WaitGroup
}

// EngineOptions configura el engine.
type EngineOptions struct {
	Oracle    ports.Oracle
	Logger    logx.Logger
	Observers []ports.Notifier

	// Workers tamaño del pool
	Workers int

	// Timeout límite por verificación
	Timeout time.Duration

	// MaxRetries reintentos por candidato ante errores transitorios
	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMultiplier float64

	// ProgressInterval periodo de muestreo del reporter
	ProgressInterval time.Duration

	// RateLimit verificaciones por segundo (0 = sin límite)
	RateLimit float64
	RateBurst int

	// CircuitBreaker compartido entre workers (nil = deshabilitado)
	CircuitBreaker *resilience.CircuitBreaker

	// CacheSize entradas de la cache de veredictos (0 = deshabilitada)
	CacheSize int

	// Dedupe descarta candidatos repetidos antes de despacharlos
	Dedupe bool

	Version string
}

// NewEngine valida la configuración y crea el engine.
// Los errores retornados son *domain.ConfigError.
func NewEngine(opts EngineOptions) (*Engine, error) {
	switch {
	case opts.Oracle == nil:
		return nil, domain.NewConfigError("oracle", domain.ErrNoOracle)
	case opts.Workers <= 0:
		return nil, domain.NewConfigError("workers", domain.ErrInvalidPoolSize)
	case opts.Timeout <= 0:
		return nil, domain.NewConfigError("timeout", domain.ErrInvalidTimeout)
	case opts.MaxRetries < 0:
		return nil, domain.NewConfigError("retries", domain.ErrInvalidRetries)
	case opts.ProgressInterval < 0:
		return nil, domain.NewConfigError("progress-interval", domain.ErrInvalidInterval)
	}

	if opts.ProgressInterval == 0 {
		opts.ProgressInterval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	retry := resilience.RetryOptions{
		Timeout:           opts.Timeout,
		MaxRetries:        opts.MaxRetries,
		BackoffBase:       opts.BackoffBase,
		BackoffMultiplier: opts.BackoffMultiplier,
		CircuitBreaker:    opts.CircuitBreaker,
		Logger:            opts.Logger,
	}
	if limiter := rate.New(opts.RateLimit, opts.RateBurst); limiter != nil {
		retry.Limiter = limiter
	}

	var verifier ports.Oracle = resilience.NewRetryableOracle(opts.Oracle, retry)
	if opts.CacheSize > 0 {
		verifier = cache.NewCachedOracle(verifier, opts.CacheSize)
	}

	return &Engine{
		oracle:           opts.Oracle,
		verifier:         verifier,
		logger:           opts.Logger.With("component", "engine"),
		observers:        opts.Observers,
		workers:          opts.Workers,
		progressInterval: opts.ProgressInterval,
		dedupe:           opts.Dedupe,
		version:          opts.Version,
	}, nil
}

// Run ejecuta la búsqueda y retorna siempre un reporte con estado terminal.
// Un fallo de configuración detectado antes de arrancar workers produce además
// un *domain.ConfigError; el reporte queda Aborted con su texto como reason.
func (e *Engine) Run(ctx context.Context, target domain.Target, source ports.CandidateSource) (*domain.SearchReport, error) {
	if source == nil {
		return e.abortConfig(ctx, target, domain.NewConfigError("input", domain.ErrMissingInput))
	}
	if target.Path == "" {
		return e.abortConfig(ctx, target, domain.NewConfigError("target", domain.ErrMissingTarget))
	}

	total := int64(-1)
	if sized, ok := source.(ports.SizedSource); ok {
		total = sized.Len()
	}
	workers := e.poolSize(total)

	report := domain.NewSearchReport(target, e.oracle.Name(), workers)
	report.Total = total
	report.Version = e.version

	if err := target.Validate(); err != nil {
		e.logger.Warn("target rejected", "target", target.Path, "error", err.Error())
		return e.abortBeforeStart(ctx, report, err.Error()), nil
	}
	report.Target = target

	if pf, ok := e.oracle.(ports.PreflightOracle); ok {
		if err := pf.Preflight(ctx, target); err != nil {
			e.logger.Warn("oracle preflight failed", "oracle", e.oracle.Name(), "error", err.Error())
			return e.abortBeforeStart(ctx, report, err.Error()), nil
		}
	}

	pool, err := NewSearchPool(workers, e.logger)
	if err != nil {
		return e.abortConfig(ctx, target, err)
	}

	coord := NewCoordinator(CoordinatorOptions{InboxSize: workers * 4, Logger: e.logger})
	defer coord.Close()

	distOpts := DistributorOptions{Logger: e.logger}
	if s, ok := source.(ports.EmptyAllowingSource); ok {
		distOpts.AllowEmpty = s.AllowsEmpty()
	}
	if f, ok := e.oracle.(ports.CandidateFilterOracle); ok {
		distOpts.Reject = f.Unsupported
	}
	if e.dedupe {
		distOpts.Dedupe = dedupe.NewSet(expectedCandidates(total))
	}
	dist := NewDistributor(coord.Context(), source, distOpts)

	// Interrupción externa: Running -> Aborted("user-requested")
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			coord.Cancel(domain.ErrUserRequested.Error())
		case <-coord.Done():
		case <-watchDone:
		}
	}()

	e.logger.Info("search started",
		"target", target.Path,
		"format", target.Format,
		"oracle", e.oracle.Name(),
		"workers", workers,
		"total", total,
	)
	e.notify(context.WithoutCancel(ctx), ports.NewEvent(ports.EventTypeSearchStarted, "engine", ports.SearchStartedEvent{
		SearchID: report.ID,
		Target:   target,
		Oracle:   e.oracle.Name(),
		Workers:  workers,
		Total:    total,
	}))
	e.notifyWg.Wait()

	reporter := NewReporter(coord, ReporterOptions{
		Interval: e.progressInterval,
		Total:    total,
		Skipped:  dist.Skipped,
		Emit:     e.publishProgress,
	})
	reporterCtx, stopReporter := context.WithCancel(context.Background())
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		reporter.Run(reporterCtx)
	}()

	if err := pool.Run(coord.Context(), target, dist, e.verifier, coord); err != nil {
		coord.Cancel(err.Error())
	}

	// Todos los workers salieron: si la fuente se agotó sin match ni abort, Exhausted.
	state := coord.Snapshot()
	if dist.Exhausted() {
		state = coord.Exhaust()
	}
	if !state.IsTerminal() {
		state = coord.Cancel(domain.ErrSearchCanceled.Error())
	}

	stopReporter()
	<-reporterDone

	report.Skipped = dist.Skipped()
	report.Finalize(state)

	e.logger.Info("search finished",
		"status", state.Status,
		"attempted", state.Attempted,
		"skipped", report.Skipped,
		"errors", state.Errors,
		"retries", state.Retries,
		"duration_ms", report.Elapsed.Milliseconds(),
	)
	e.finish(ctx, report)

	return report, nil
}

// Close libera el oráculo subyacente.
func (e *Engine) Close() error {
	return e.verifier.Close()
}

// poolSize nunca arranca más workers que candidatos conocidos (modo password único => 1).
func (e *Engine) poolSize(total int64) int {
	if total >= 0 && total < int64(e.workers) {
		return int(max(total, 1))
	}
	return e.workers
}

// abortBeforeStart produce el reporte para un error fatal detectado antes de
// arrancar workers (target inválido, herramienta ausente).
func (e *Engine) abortBeforeStart(ctx context.Context, report *domain.SearchReport, reason string) *domain.SearchReport {
	aborted := domain.NewAbortedReport(report.Target, report.Oracle, reason)
	aborted.ID = report.ID
	aborted.Workers = report.Workers
	aborted.Total = report.Total
	aborted.Version = report.Version

	e.finish(ctx, aborted)
	return aborted
}

// abortConfig cierra la búsqueda por un error de configuración: reporte Aborted
// y el error para que el llamador elija su exit code.
func (e *Engine) abortConfig(ctx context.Context, target domain.Target, err error) (*domain.SearchReport, error) {
	e.logger.Warn("search not started", "error", err.Error())

	report := domain.NewAbortedReport(target, e.oracle.Name(), err.Error())
	report.Version = e.version
	e.finish(ctx, report)
	return report, err
}

func (e *Engine) finish(ctx context.Context, report *domain.SearchReport) {
	event := ports.NewEvent(ports.TerminalEventType(report.State.Status), "engine", report)
	event.Target = report.Target.Path
	if report.State.Status == domain.StatusAborted {
		event.Severity = ports.EventSeverityError
	}

	e.notify(context.WithoutCancel(ctx), event)
	e.logger.Debug("waiting for all notifications to complete")
	e.notifyWg.Wait()
}

// publishProgress entrega una muestra a los observers de forma síncrona para
// conservar el orden de las muestras.
func (e *Engine) publishProgress(sample ports.ProgressSample) {
	const progressTimeout = time.Second

	event := ports.NewEvent(ports.EventTypeProgressSample, "reporter", sample)
	for _, observer := range e.observers {
		ctx, cancel := context.WithTimeout(context.Background(), progressTimeout)
		if err := observer.Notify(ctx, event); err != nil {
			e.logger.Debug("progress notification failed", "error", err.Error())
		}
		cancel()
	}
}

// notify envía una notificación a todos los observers.
// Usa goroutines con WaitGroup y timeout para evitar leaks y bloqueos.
func (e *Engine) notify(ctx context.Context, event ports.Event) {
	const notificationTimeout = 5 * time.Second

	for _, observer := range e.observers {
		e.notifyWg.Add(1)
		go func(notifier ports.Notifier) {
			defer e.notifyWg.Done()

			notifyCtx, cancel := context.WithTimeout(ctx, notificationTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- notifier.Notify(notifyCtx, event)
			}()

			select {
			case err := <-done:
				if err != nil {
					e.logger.Warn("notification failed", "error", err.Error())
				}
			case <-notifyCtx.Done():
				if notifyCtx.Err() == context.DeadlineExceeded {
					e.logger.Warn("notification timeout exceeded",
						"timeout", notificationTimeout,
						"event_type", event.Type,
					)
				}
			}
		}(observer)
	}
}

func expectedCandidates(total int64) int {
	if total > 0 && total < 1<<30 {
		return int(total)
	}
	return 1_000_000
}
