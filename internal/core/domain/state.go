// internal/core/domain/state.go
package domain

import "time"

// SearchState es la vista consistente del estado de una búsqueda.
// Solo el coordinador la muta; el resto recibe copias.
type SearchState struct {
	Status   Status `json:"status"`
	Password string `json:"password,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// Attempted candidatos cuyo resultado fue aceptado
	Attempted int64 `json:"attempted"`

	// Errors resultados con veredicto de error (transitorio agotado o fatal)
	Errors int64 `json:"errors"`

	// Retries invocaciones extra del oráculo por errores transitorios
	Retries int64 `json:"retries"`

	LastCandidate string    `json:"-"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at,omitempty"`
}

// NewSearchState crea un estado Running.
func NewSearchState(startedAt time.Time) SearchState {
	return SearchState{
		Status:    StatusRunning,
		StartedAt: startedAt,
	}
}

// IsTerminal indica si la búsqueda terminó.
func (s SearchState) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// Elapsed retorna el tiempo transcurrido. En estados terminales se congela.
func (s SearchState) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if !s.FinishedAt.IsZero() {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// Rate retorna intentos por segundo.
func (s SearchState) Rate(now time.Time) float64 {
	elapsed := s.Elapsed(now).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Attempted) / elapsed
}
