// internal/core/ports/oracle.go
package ports

import (
	"context"
	"time"

	"passhunt/internal/core/domain"
)

// Oracle es el port primario de verificación: decide si un candidato abre el target.
// Una instancia se comparte entre todos los workers, por lo que Verify debe ser
// seguro para llamadas concurrentes.
type Oracle interface {
	// Name retorna el nombre único del backend (ej: "unrar", "7z", "zip")
	Name() string

	// Verify clasifica un candidato. Los fallos se devuelven como Verdict de error,
	// nunca como panic ni como error de Go.
	Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict

	// Close libera recursos del backend
	Close() error
}

// PreflightOracle permite comprobar el entorno (herramienta instalada, target legible)
// antes de arrancar los workers.
type PreflightOracle interface {
	Oracle

	// Preflight retorna un error si ningún intento podría tener éxito
	Preflight(ctx context.Context, target domain.Target) error
}

// HintOracle expone el comando que el usuario puede ejecutar tras encontrar el password.
type HintOracle interface {
	Oracle

	// UsageHint retorna el comando de extracción para password
	UsageHint(target domain.Target, password string) string
}

// CandidateFilterOracle declara candidatos que el backend no puede expresar en
// la línea de comandos de su herramienta. El distribuidor los descarta como
// Skipped en lugar de probar un password distinto.
type CandidateFilterOracle interface {
	Oracle

	// Unsupported retorna un motivo no vacío si candidate no se puede probar
	Unsupported(candidate string) string
}

// OracleConfig contiene la configuración de un backend.
type OracleConfig struct {
	// Timeout tiempo máximo por intento
	Timeout time.Duration

	// ToolPath ruta al ejecutable externo (vacío = buscar en PATH)
	ToolPath string

	// WorkDir directorio para archivos temporales (backends que extraen)
	WorkDir string

	// Custom opciones específicas del backend
	Custom map[string]interface{}
}

// DefaultOracleConfig retorna una configuración por defecto.
func DefaultOracleConfig() OracleConfig {
	return OracleConfig{
		Timeout: 10 * time.Second,
		Custom:  make(map[string]interface{}),
	}
}

// OracleFactory es una función que crea una instancia de Oracle.
type OracleFactory func(cfg OracleConfig) (Oracle, error)

// OracleMetadata contiene metadatos sobre un backend.
type OracleMetadata struct {
	Name        string
	Description string

	// Formats formatos de archivo que el backend sabe verificar
	Formats []domain.ArchiveFormat

	// External indica si depende de una herramienta instalada en el sistema
	External bool

	// Tool nombre del ejecutable (vacío para backends in-process)
	Tool string

	// Priority mayor = preferido en selección automática
	Priority int
}

// Supports indica si el backend verifica el formato f.
func (m OracleMetadata) Supports(f domain.ArchiveFormat) bool {
	for _, format := range m.Formats {
		if format == f {
			return true
		}
	}
	return false
}
