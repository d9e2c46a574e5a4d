// Package rate limita la frecuencia de invocaciones al oráculo con un token bucket.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter es un token bucket compartido por todos los workers.
// Un Limiter nil o con rate <= 0 no limita.
type Limiter struct {
	mu     sync.Mutex
	rate   float64 // tokens por segundo
	burst  int     // capacidad del bucket
	tokens float64
	last   time.Time
	now    func() time.Time
}

// New crea un limitador de rate intentos por segundo con ráfaga burst.
// Retorna nil si rate <= 0 (sin límite).
//
// Example:
//
//	limiter := rate.New(50, 4) // 50 intentos/s, ráfaga de 4
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		now:    time.Now,
	}
	l.last = l.now()
	return l
}

// Wait bloquea hasta obtener un token o hasta que ctx sea cancelado.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}

	for {
		wait := l.reserve()
		if wait == 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Allow consume un token si hay uno disponible, sin bloquear.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.reserve() == 0
}

// reserve consume un token y retorna 0, o retorna cuánto falta para el siguiente.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	if l.tokens >= 1 {
		l.tokens--
		return 0
	}

	missing := 1.0 - l.tokens
	wait := time.Duration(missing / l.rate * float64(time.Second))
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}

// advance repone tokens según el tiempo transcurrido. Requiere l.mu.
func (l *Limiter) advance() {
	now := l.now()
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.last = now
}

// Tokens retorna los tokens disponibles.
func (l *Limiter) Tokens() float64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.advance()
	return l.tokens
}

// Rate retorna el límite en tokens por segundo (0 = sin límite).
func (l *Limiter) Rate() float64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// Burst retorna la capacidad del bucket.
func (l *Limiter) Burst() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burst
}
