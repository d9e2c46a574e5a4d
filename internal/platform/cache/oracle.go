// internal/platform/cache/oracle.go
package cache

import (
	"context"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// CachedOracle memoriza veredictos concluyentes por candidato, de modo que un
// candidato duplicado no vuelve a invocar la herramienta externa.
// Solo se cachean NoMatch y Match; los errores siempre se reintentan.
type CachedOracle struct {
	oracle ports.Oracle
	cache  *LRU[string, domain.Verdict]
}

// NewCachedOracle envuelve oracle con una cache de capacity entradas.
func NewCachedOracle(oracle ports.Oracle, capacity int) *CachedOracle {
	return &CachedOracle{
		oracle: oracle,
		cache:  NewLRU[string, domain.Verdict](capacity),
	}
}

// Name retorna el nombre del oráculo subyacente.
func (c *CachedOracle) Name() string {
	return c.oracle.Name()
}

// Verify consulta la cache antes de delegar.
func (c *CachedOracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	if v, ok := c.cache.Get(candidate); ok {
		return v
	}

	v := c.oracle.Verify(ctx, target, candidate)
	if v.IsMatch() || v.IsNoMatch() {
		c.cache.Set(candidate, v)
	}
	return v
}

// Close cierra el oráculo subyacente.
func (c *CachedOracle) Close() error {
	return c.oracle.Close()
}

// Stats retorna hits y misses de la cache.
func (c *CachedOracle) Stats() (hits, misses int64) {
	return c.cache.Stats()
}
