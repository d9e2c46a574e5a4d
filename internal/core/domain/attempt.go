// internal/core/domain/attempt.go
package domain

import (
	"fmt"
	"time"
)

// Verdict es la clasificación que un oráculo devuelve para un candidato.
// Los fallos viajan como valores, no como errores de Go.
type Verdict struct {
	Kind    OutcomeKind
	ErrKind ErrorKind
	Detail  string
	Err     error

	// Attempts número de invocaciones del oráculo que produjeron este veredicto (>= 1)
	Attempts int
}

// Match construye un veredicto positivo.
func Match() Verdict {
	return Verdict{Kind: OutcomeMatch, Attempts: 1}
}

// NoMatch construye un rechazo definitivo.
func NoMatch() Verdict {
	return Verdict{Kind: OutcomeNoMatch, Attempts: 1}
}

// Transient construye un error reintentable.
func Transient(detail string, err error) Verdict {
	return Verdict{Kind: OutcomeError, ErrKind: ErrorKindTransient, Detail: detail, Err: err, Attempts: 1}
}

// Fatal construye un error que termina la búsqueda.
func Fatal(detail string, err error) Verdict {
	return Verdict{Kind: OutcomeError, ErrKind: ErrorKindFatal, Detail: detail, Err: err, Attempts: 1}
}

func (v Verdict) IsMatch() bool     { return v.Kind == OutcomeMatch }
func (v Verdict) IsNoMatch() bool   { return v.Kind == OutcomeNoMatch }
func (v Verdict) IsError() bool     { return v.Kind == OutcomeError }
func (v Verdict) IsTransient() bool { return v.Kind == OutcomeError && v.ErrKind == ErrorKindTransient }
func (v Verdict) IsFatal() bool     { return v.Kind == OutcomeError && v.ErrKind == ErrorKindFatal }

// Reason retorna un texto corto apto para Aborted(reason).
func (v Verdict) Reason() string {
	if v.Detail != "" {
		return v.Detail
	}
	if v.Err != nil {
		return v.Err.Error()
	}
	return string(v.Kind)
}

// String implementa fmt.Stringer.
func (v Verdict) String() string {
	if v.Kind != OutcomeError {
		return string(v.Kind)
	}
	return fmt.Sprintf("%s(%s: %s)", v.Kind, v.ErrKind, v.Reason())
}

// AttemptResult se produce una vez por candidato despachado y lo consume
// exactamente una vez el coordinador.
type AttemptResult struct {
	Candidate string
	Verdict   Verdict
	Duration  time.Duration
	WorkerID  int
}
