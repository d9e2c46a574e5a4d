package unrar

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
			return New(logger, Config{
				ExecPath:        registry.GetStringConfig(cfg.Custom, "unrar_path", cfg.ToolPath),
				Timeout:         cfg.Timeout,
				ListingFallback: registry.GetBoolConfig(cfg.Custom, "listing_fallback", true),
			}), nil
		},
		ports.OracleMetadata{
			Name:        oracleName,
			Description: "RARLAB unrar - tests the archive with each candidate",
			Formats:     []domain.ArchiveFormat{domain.FormatRAR},
			External:    true,
			Tool:        defaultTool,
			Priority:    30,
		},
	); err != nil {
		logx.New().Warn("failed to register unrar oracle", "error", err.Error())
	}
}
