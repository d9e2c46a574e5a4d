// Package dedupe descarta candidatos repetidos.
package dedupe

import (
	"hash/maphash"
	"math"
	"sync"
)

// Filter decide si un candidato ya pasó por el distribuidor.
type Filter interface {
	// Seen marca candidate como visto y retorna true si ya lo estaba.
	Seen(candidate string) bool
}

// Bloom es un Bloom filter seguro para uso concurrente.
// Nunca produce falsos negativos: si Seen retorna false el candidato es nuevo.
// Puede dar falsos positivos, por eso el distribuidor no lo usa solo (ver Set).
type Bloom struct {
	mu     sync.Mutex
	bits   []uint64
	size   uint64 // número de bits
	hashes int    // número de funciones hash
	seed1  maphash.Seed
	seed2  maphash.Seed
	added  uint64
	dups   uint64
}

// New crea un filtro dimensionado para expected elementos con tasa fp de falsos positivos.
func New(expected int, fp float64) *Bloom {
	if expected <= 0 {
		expected = 100_000
	}
	if fp <= 0 || fp >= 1 {
		fp = 0.001
	}

	// m = -n*ln(p) / ln(2)^2 ; k = m/n * ln(2)
	m := math.Ceil(-float64(expected) * math.Log(fp) / (math.Ln2 * math.Ln2))
	k := int(math.Ceil(m / float64(expected) * math.Ln2))
	if k < 1 {
		k = 1
	}

	size := uint64(m)
	return &Bloom{
		bits:   make([]uint64, (size+63)/64),
		size:   size,
		hashes: k,
		seed1:  maphash.MakeSeed(),
		seed2:  maphash.MakeSeed(),
	}
}

// Seen marca candidate como visto y retorna true si probablemente ya lo estaba.
func (b *Bloom) Seen(candidate string) bool {
	h1, h2 := b.hashPair(candidate)

	b.mu.Lock()
	defer b.mu.Unlock()

	present := true
	for i := 0; i < b.hashes; i++ {
		idx := (h1 + uint64(i)*h2) % b.size
		mask := uint64(1) << (idx % 64)
		if b.bits[idx/64]&mask == 0 {
			present = false
			b.bits[idx/64] |= mask
		}
	}

	if present {
		b.dups++
	} else {
		b.added++
	}
	return present
}

// hashPair deriva dos hashes independientes (semillas distintas) para
// double hashing (Kirsch-Mitzenmacher).
func (b *Bloom) hashPair(s string) (uint64, uint64) {
	h1 := maphash.String(b.seed1, s)
	h2 := maphash.String(b.seed2, s) | 1 // impar para recorrer todas las posiciones
	return h1, h2
}

// Stats contiene estadísticas del filtro.
type Stats struct {
	SizeBits    uint64
	Hashes      int
	Added       uint64
	Duplicates  uint64
	MemoryBytes int64
}

// Stats retorna estadísticas del filtro.
func (b *Bloom) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Stats{
		SizeBits:    b.size,
		Hashes:      b.hashes,
		Added:       b.added,
		Duplicates:  b.dups,
		MemoryBytes: int64(len(b.bits) * 8),
	}
}
