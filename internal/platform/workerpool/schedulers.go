// internal/platform/workerpool/schedulers.go
package workerpool

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Scheduler define el orden en que se despachan los candidatos de una lista finita.
type Scheduler interface {
	// Schedule retorna una copia ordenada según la estrategia
	Schedule(candidates []string) []string

	// Name retorna el nombre del scheduler
	Name() string
}

// FIFOScheduler no reordena (First In First Out).
type FIFOScheduler struct{}

// NewFIFOScheduler crea un scheduler FIFO.
func NewFIFOScheduler() *FIFOScheduler {
	return &FIFOScheduler{}
}

// Schedule retorna los candidatos en el orden original.
func (s *FIFOScheduler) Schedule(candidates []string) []string {
	scheduled := make([]string, len(candidates))
	copy(scheduled, candidates)
	return scheduled
}

// Name retorna el nombre del scheduler.
func (s *FIFOScheduler) Name() string {
	return "fifo"
}

// LengthScheduler ordena por longitud (más cortos primero).
// Con igual longitud conserva el orden original.
type LengthScheduler struct{}

// NewLengthScheduler crea un scheduler por longitud.
func NewLengthScheduler() *LengthScheduler {
	return &LengthScheduler{}
}

// Schedule ordena por número de runas ascendente.
func (s *LengthScheduler) Schedule(candidates []string) []string {
	scheduled := make([]string, len(candidates))
	copy(scheduled, candidates)

	sort.SliceStable(scheduled, func(i, j int) bool {
		return utf8.RuneCountInString(scheduled[i]) < utf8.RuneCountInString(scheduled[j])
	})

	return scheduled
}

// Name retorna el nombre del scheduler.
func (s *LengthScheduler) Name() string {
	return "length"
}

// ParseScheduler resuelve un scheduler por nombre ("fifo", "length").
func ParseScheduler(name string) (Scheduler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fifo":
		return NewFIFOScheduler(), nil
	case "length", "shortest":
		return NewLengthScheduler(), nil
	default:
		return nil, fmt.Errorf("unknown candidate order %q", name)
	}
}
