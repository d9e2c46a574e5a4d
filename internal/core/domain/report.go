// internal/core/domain/report.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchReport es el resultado final que consume la capa de presentación.
type SearchReport struct {
	ID      string      `json:"id"`
	Target  Target      `json:"target"`
	Oracle  string      `json:"oracle"`
	Workers int         `json:"workers"`
	State   SearchState `json:"state"`

	// Total candidatos conocidos de antemano (-1 si la fuente es un stream)
	Total int64 `json:"total"`

	// Skipped candidatos descartados por el distribuidor (vacíos o duplicados)
	Skipped int64 `json:"skipped"`

	Elapsed time.Duration `json:"elapsed_ns"`
	Rate    float64       `json:"rate"`
	Version string        `json:"version,omitempty"`
}

// NewSearchReport crea un reporte con un ID nuevo.
func NewSearchReport(target Target, oracle string, workers int) *SearchReport {
	return &SearchReport{
		ID:      uuid.NewString(),
		Target:  target,
		Oracle:  oracle,
		Workers: workers,
		Total:   -1,
	}
}

// NewAbortedReport crea el reporte de una búsqueda que terminó antes de arrancar
// workers: estado Aborted con reason y contadores en cero.
func NewAbortedReport(target Target, oracle string, reason string) *SearchReport {
	now := time.Now()
	state := NewSearchState(now)
	state.Status = StatusAborted
	state.Reason = reason
	state.FinishedAt = now

	r := NewSearchReport(target, oracle, 0)
	r.Finalize(state)
	return r
}

// Finalize copia el estado terminal y calcula contadores finales.
func (r *SearchReport) Finalize(state SearchState) {
	r.State = state
	r.Elapsed = state.Elapsed(time.Now())
	r.Rate = state.Rate(time.Now())
}

// Found indica si la búsqueda encontró el password.
func (r *SearchReport) Found() bool {
	return r.State.Status == StatusFound
}

// Remaining retorna los candidatos pendientes o -1 si el total es desconocido.
func (r *SearchReport) Remaining() int64 {
	if r.Total < 0 {
		return -1
	}
	left := r.Total - r.State.Attempted - r.Skipped
	if left < 0 {
		return 0
	}
	return left
}
