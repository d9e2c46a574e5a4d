// internal/core/ports/source.go
package ports

import "context"

// CandidateSource es el port para los generadores de candidatos.
// El motor solo consume el stream; cómo se generan los candidatos es asunto de la fuente.
type CandidateSource interface {
	// Name identifica la fuente en logs ("single", "list", "wordlist")
	Name() string

	// Stream emite candidatos en orden. El canal de candidatos se cierra al agotarse
	// la fuente o al cancelarse ctx. Un error en errc indica un stream malformado.
	Stream(ctx context.Context) (<-chan string, <-chan error)

	// Close libera recursos (archivos abiertos)
	Close() error
}

// SizedSource es implementado por fuentes que conocen su tamaño de antemano.
type SizedSource interface {
	CandidateSource

	// Len retorna el número total de candidatos
	Len() int64
}

// EmptyAllowingSource permite a una fuente declarar que los candidatos vacíos son válidos
// (modo password único).
type EmptyAllowingSource interface {
	CandidateSource

	// AllowsEmpty retorna true si "" es un candidato legítimo
	AllowsEmpty() bool
}
