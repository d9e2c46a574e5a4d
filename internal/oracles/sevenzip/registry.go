package sevenzip

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
			execPath := registry.GetStringConfig(cfg.Custom, "sevenzip_path", cfg.ToolPath)
			return New(logger, execPath, cfg.Timeout), nil
		},
		ports.OracleMetadata{
			Name:        oracleName,
			Description: "7-Zip - tests 7z, zip and rar archives with each candidate",
			Formats:     supportedFormats,
			External:    true,
			Tool:        defaultTool,
			Priority:    20,
		},
	); err != nil {
		logx.New().Warn("failed to register 7z oracle", "error", err.Error())
	}
}
