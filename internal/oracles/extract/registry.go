package extract

import (
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/registry"
)

// Auto-registro del backend al importar el package
func init() {
	if err := registry.Global().Register(
		oracleName,
		func(cfg ports.OracleConfig, logger logx.Logger) (ports.Oracle, error) {
			return New(logger, cfg.WorkDir, cfg.Timeout), nil
		},
		ports.OracleMetadata{
			Name:        oracleName,
			Description: "Extraction-based verification (xtractr, killable child process) into a scratch directory",
			Formats:     supportedFormats,
			External:    false,
			Priority:    5,
		},
	); err != nil {
		logx.New().Warn("failed to register extract oracle", "error", err.Error())
	}
}
