// internal/platform/registry/oracle_registry.go
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/logx"
)

// AutoOracle nombre reservado para la selección automática por formato.
const AutoOracle = "auto"

// OracleRegistry gestiona el registro y construcción de backends de verificación.
// Implementa el patrón Registry + Factory: cada backend se registra desde su init().
type OracleRegistry struct {
	mu        sync.RWMutex
	factories map[string]OracleFactory
	metadata  map[string]ports.OracleMetadata
	logger    logx.Logger
}

// OracleFactory es una función que crea una instancia de Oracle.
type OracleFactory func(cfg ports.OracleConfig, logger logx.Logger) (ports.Oracle, error)

var (
	globalRegistry *OracleRegistry
	once           sync.Once
)

// Global retorna la instancia global del registry.
func Global() *OracleRegistry {
	once.Do(func() {
		globalRegistry = NewOracleRegistry(logx.NewSilent())
	})
	return globalRegistry
}

// NewOracleRegistry crea un nuevo registry de oráculos.
func NewOracleRegistry(logger logx.Logger) *OracleRegistry {
	return &OracleRegistry{
		factories: make(map[string]OracleFactory),
		metadata:  make(map[string]ports.OracleMetadata),
		logger:    logger.With("component", "oracle-registry"),
	}
}

// Register registra una factory con su metadata.
func (r *OracleRegistry) Register(name string, factory OracleFactory, meta ports.OracleMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || name == AutoOracle {
		return fmt.Errorf("invalid oracle name %q", name)
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for oracle %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("oracle %s is already registered", name)
	}

	if meta.Name == "" {
		meta.Name = name
	}
	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("oracle registered", "name", name, "formats", meta.Formats, "external", meta.External)

	return nil
}

// Build construye el backend name.
func (r *OracleRegistry) Build(name string, cfg ports.OracleConfig, logger logx.Logger) (ports.Oracle, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s is not registered", domain.ErrNoOracle, name)
	}

	oracle, err := factory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build oracle %s: %w", name, err)
	}
	return oracle, nil
}

// Candidates retorna los backends que soportan format, ordenados por prioridad.
func (r *OracleRegistry) Candidates(format domain.ArchiveFormat) []ports.OracleMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.OracleMetadata, 0, len(r.metadata))
	for _, meta := range r.metadata {
		if meta.Supports(format) {
			out = append(out, meta)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Resolve construye el backend pedido. Con AutoOracle prueba los candidatos del
// formato del target en orden de prioridad y se queda con el primero cuyo
// preflight pase; una herramienta ausente hace pasar al siguiente.
func (r *OracleRegistry) Resolve(ctx context.Context, name string, target domain.Target, cfg ports.OracleConfig, logger logx.Logger) (ports.Oracle, error) {
	if name != "" && name != AutoOracle {
		return r.Build(name, cfg, logger)
	}

	candidates := r.Candidates(target.Format)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: format %s", domain.ErrNoOracle, target.Format)
	}

	var lastErr error
	for _, meta := range candidates {
		oracle, err := r.Build(meta.Name, cfg, logger)
		if err != nil {
			lastErr = err
			continue
		}

		pf, ok := oracle.(ports.PreflightOracle)
		if !ok {
			return oracle, nil
		}

		err = pf.Preflight(ctx, target)
		if err == nil {
			r.logger.Debug("oracle selected", "name", meta.Name, "format", target.Format)
			return oracle, nil
		}

		_ = oracle.Close()
		if !errors.Is(err, domain.ErrToolMissing) {
			return nil, err
		}
		r.logger.Debug("oracle unavailable, trying next", "name", meta.Name, "error", err.Error())
		lastErr = err
	}

	return nil, fmt.Errorf("%w: format %s: %v", domain.ErrNoOracle, target.Format, lastErr)
}

// List retorna los nombres de todos los backends registrados.
func (r *OracleRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata retorna el metadata de un backend.
func (r *OracleRegistry) GetMetadata(name string) (ports.OracleMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// IsRegistered verifica si un backend está registrado.
func (r *OracleRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todos los backends registrados (útil para testing).
func (r *OracleRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]OracleFactory)
	r.metadata = make(map[string]ports.OracleMetadata)
}
