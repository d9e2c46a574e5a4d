package rarnative

import (
	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/registry"
)

// Auto-registro del backend al importar el package
func init() {
	if err := registry.Global().Register(
		oracleName,
		func(cfg ports.OracleConfig, logger logx.Logger) (ports.Oracle, error) {
			return New(logger), nil
		},
		ports.OracleMetadata{
			Name:        oracleName,
			Description: "In-process RAR verification (rardecode)",
			Formats:     []domain.ArchiveFormat{domain.FormatRAR},
			External:    false,
			Priority:    10,
		},
	); err != nil {
		logx.New().Warn("failed to register rar oracle", "error", err.Error())
	}
}
