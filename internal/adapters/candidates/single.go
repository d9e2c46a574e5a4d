// Package candidates contiene las fuentes de candidatos: password único,
// lista en memoria y wordlist (archivo o stdin).
package candidates

import (
	"context"

	"passhunt/internal/core/ports"
)

// Single emite exactamente un candidato. El password vacío es válido.
type Single struct {
	password string
}

// NewSingle crea una fuente de un solo candidato.
func NewSingle(password string) *Single {
	return &Single{password: password}
}

func (s *Single) Name() string      { return "single" }
func (s *Single) Len() int64        { return 1 }
func (s *Single) AllowsEmpty() bool { return true }
func (s *Single) Close() error      { return nil }

func (s *Single) Stream(ctx context.Context) (<-chan string, <-chan error) {
	out := make(chan string, 1)
	errc := make(chan error, 1)
	out <- s.password
	close(out)
	return out, errc
}

var (
	_ ports.SizedSource         = (*Single)(nil)
	_ ports.EmptyAllowingSource = (*Single)(nil)
)
