// internal/platform/resilience/retryable_oracle.go
package resilience

import (
	"context"
	"fmt"
	"math"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	perrors "passhunt/internal/platform/errors"
	"passhunt/internal/platform/logx"
)

// Waiter es satisfecho por rate.Limiter.
type Waiter interface {
	Wait(ctx context.Context) error
}

// RetryOptions configura el envoltorio de reintentos.
type RetryOptions struct {
	// Timeout límite por invocación (0 = el del backend)
	Timeout time.Duration

	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
	CircuitBreaker    *CircuitBreaker
	Limiter           Waiter
	Logger            logx.Logger
}

// RetryableOracle envuelve un Oracle con un bucle explícito de reintentos para
// veredictos transitorios, circuit breaker y rate limiting.
type RetryableOracle struct {
	oracle ports.Oracle
	opts   RetryOptions
	logger logx.Logger
}

// NewRetryableOracle crea un nuevo RetryableOracle.
func NewRetryableOracle(oracle ports.Oracle, opts RetryOptions) *RetryableOracle {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 200 * time.Millisecond
	}
	if opts.BackoffMultiplier < 1.0 {
		opts.BackoffMultiplier = 2.0
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	return &RetryableOracle{
		oracle: oracle,
		opts:   opts,
		logger: opts.Logger.With("component", "retryable-oracle", "oracle", oracle.Name()),
	}
}

// Name retorna el nombre del oráculo subyacente.
func (r *RetryableOracle) Name() string {
	return r.oracle.Name()
}

// Unwrap retorna el oráculo subyacente.
func (r *RetryableOracle) Unwrap() ports.Oracle {
	return r.oracle
}

// Verify invoca el oráculo hasta obtener un veredicto concluyente, un error fatal
// o agotar MaxRetries. Attempts del veredicto refleja las invocaciones reales.
func (r *RetryableOracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	var last domain.Verdict
	calls := 0

	for attempt := 0; attempt <= r.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := r.calculateBackoff(attempt - 1)
			r.logger.Debug("backing off before retry",
				"attempt", attempt,
				"max_retries", r.opts.MaxRetries,
				"delay_ms", backoff.Milliseconds(),
			)
			if err := sleep(ctx, backoff); err != nil {
				return canceled(last, calls, err)
			}
		}

		if r.opts.CircuitBreaker != nil && !r.opts.CircuitBreaker.Allow() {
			last = domain.Transient("circuit breaker open", ErrCircuitOpen)
			continue
		}

		if r.opts.Limiter != nil {
			if err := r.opts.Limiter.Wait(ctx); err != nil {
				return canceled(last, calls, err)
			}
		}

		v := r.invoke(ctx, target, candidate)
		calls++

		switch {
		case v.IsMatch(), v.IsNoMatch():
			r.recordSuccess()
			v.Attempts = calls
			if attempt > 0 {
				r.logger.Debug("oracle succeeded after retry", "attempts", calls)
			}
			return v

		case v.IsFatal():
			v.Attempts = calls
			return v
		}

		r.recordFailure()
		last = v
		r.logger.Debug("transient oracle error",
			"attempt", attempt+1,
			"kind", perrors.Kind(v.Err),
			"detail", v.Reason(),
		)
	}

	r.logger.Warn("oracle failed after all retries",
		"attempts", r.opts.MaxRetries+1,
		"last_error", last.Reason(),
	)

	last.Attempts = max(calls, 1)
	if last.Err == nil {
		last.Err = domain.ErrRetriesExhausted
	} else {
		last.Err = fmt.Errorf("%w: %w", domain.ErrRetriesExhausted, last.Err)
	}
	return last
}

// invoke ejecuta una verificación. La llamada en curso no se interrumpe si la
// búsqueda se cancela: solo el timeout por intento la corta.
func (r *RetryableOracle) invoke(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	attemptCtx := context.WithoutCancel(ctx)
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(attemptCtx, r.opts.Timeout)
		defer cancel()
	}

	v := r.oracle.Verify(attemptCtx, target, candidate)
	if v.IsError() && attemptCtx.Err() == context.DeadlineExceeded {
		err := perrors.Wrapf(perrors.ErrTimeout, "verification timed out after %s", r.opts.Timeout)
		return domain.Transient(err.Error(), err)
	}
	return v
}

// Close cierra el oráculo subyacente.
func (r *RetryableOracle) Close() error {
	return r.oracle.Close()
}

func (r *RetryableOracle) recordSuccess() {
	if r.opts.CircuitBreaker != nil {
		r.opts.CircuitBreaker.RecordSuccess()
	}
}

func (r *RetryableOracle) recordFailure() {
	if r.opts.CircuitBreaker != nil {
		r.opts.CircuitBreaker.RecordFailure()
	}
}

// calculateBackoff calcula el delay exponencial: base * multiplier^n.
func (r *RetryableOracle) calculateBackoff(n int) time.Duration {
	multiplier := math.Pow(r.opts.BackoffMultiplier, float64(n))
	backoff := time.Duration(float64(r.opts.BackoffBase) * multiplier)
	if backoff > r.opts.MaxBackoff {
		backoff = r.opts.MaxBackoff
	}
	return backoff
}

// GetCircuitBreaker retorna el circuit breaker (útil para testing/monitoring).
func (r *RetryableOracle) GetCircuitBreaker() *CircuitBreaker {
	return r.opts.CircuitBreaker
}

// canceled construye el veredicto para una búsqueda cancelada durante la espera.
// El coordinador ya está en estado terminal y lo descarta.
func canceled(last domain.Verdict, calls int, err error) domain.Verdict {
	v := domain.Transient("canceled", fmt.Errorf("%w: %w", domain.ErrSearchCanceled, err))
	if last.IsError() {
		v.Detail = last.Reason()
	}
	v.Attempts = max(calls, 1)
	return v
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
