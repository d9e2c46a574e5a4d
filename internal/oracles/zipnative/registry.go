package zipnative

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
			maxSize := int64(DefaultMaxSize)
			if v, ok := cfg.Custom["max_size"].(int64); ok && v > 0 {
				maxSize = v
			}
			return New(logger, maxSize), nil
		},
		ports.OracleMetadata{
			Name:        oracleName,
			Description: "In-process ZIP verification (ZipCrypto, AES)",
			Formats:     []domain.ArchiveFormat{domain.FormatZIP},
			External:    false,
			Priority:    40,
		},
	); err != nil {
		logx.New().Warn("failed to register zip oracle", "error", err.Error())
	}
}
