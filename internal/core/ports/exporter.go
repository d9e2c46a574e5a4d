// internal/core/ports/exporter.go
package ports

import (
	"io"

	"passhunt/internal/core/domain"
)

// Exporter es el port para exportar el reporte final en diferentes formatos.
type Exporter interface {
	// Name retorna el nombre del exporter (ej: "json", "table")
	Name() string

	// Export exporta el reporte según opts
	Export(report *domain.SearchReport, opts ExportOptions) error
}

// WriterExporter permite exportar a cualquier io.Writer.
type WriterExporter interface {
	Exporter

	// ExportToWriter exporta el reporte a un Writer personalizado
	ExportToWriter(report *domain.SearchReport, writer io.Writer, opts ExportOptions) error
}

// ExportOptions configura las opciones de exportación.
type ExportOptions struct {
	// OutputDir directorio donde guardar el resultado (vacío = no se escribe a disco)
	OutputDir string

	// Pretty indica si el output debe ser formateado para legibilidad humana
	Pretty bool

	// RevealPassword incluye el password en claro en el export
	RevealPassword bool

	// UsageHint comando sugerido para extraer el archivo (opcional)
	UsageHint string
}

// DefaultExportOptions retorna opciones por defecto.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Pretty:         true,
		RevealPassword: true,
	}
}
