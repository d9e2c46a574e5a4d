package dedupe

import "sync"

// Set es un filtro exacto: nunca descarta un candidato que no se haya visto.
// El Bloom delante responde "nuevo" sin tocar el mapa en la mayoría de los
// casos; un positivo del Bloom se confirma contra el mapa.
type Set struct {
	mu    sync.Mutex
	bloom *Bloom
	items map[string]struct{}

	dups           uint64
	falsePositives uint64
}

// NewSet crea un Set dimensionado para expected candidatos.
func NewSet(expected int) *Set {
	hint := expected
	if hint <= 0 || hint > 1<<20 {
		hint = 1 << 20
	}
	return &Set{
		bloom: New(expected, 0.01),
		items: make(map[string]struct{}, hint),
	}
}

// Seen implementa Filter.
func (s *Set) Seen(candidate string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bloom.Seen(candidate) {
		if _, ok := s.items[candidate]; ok {
			s.dups++
			return true
		}
		s.falsePositives++
	}
	s.items[candidate] = struct{}{}
	return false
}

// SetStats contiene estadísticas del Set.
type SetStats struct {
	Unique         int
	Duplicates     uint64
	FalsePositives uint64 // positivos del Bloom que el mapa descartó
}

// Stats retorna estadísticas del Set.
func (s *Set) Stats() SetStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SetStats{
		Unique:         len(s.items),
		Duplicates:     s.dups,
		FalsePositives: s.falsePositives,
	}
}

var (
	_ Filter = (*Bloom)(nil)
	_ Filter = (*Set)(nil)
)
