// Package unrar verifica candidatos contra archivos RAR invocando la herramienta unrar.
package unrar

import (
	"context"
	"fmt"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/oracles/common"
	"passhunt/internal/platform/logx"
)

const (
	oracleName  = "unrar"
	defaultTool = "unrar"
)

// Oracle implementa ports.Oracle, ports.PreflightOracle, ports.HintOracle y
// ports.CandidateFilterOracle.
type Oracle struct {
	runner *common.ToolRunner
	logger logx.Logger

	// listingFallback permite confirmar con "lt" cuando "t" termina sin veredicto
	listingFallback bool
}

// Config contiene la configuración del backend.
type Config struct {
	ExecPath        string
	Timeout         time.Duration
	ListingFallback bool
}

// New crea un backend unrar.
func New(logger logx.Logger, cfg Config) *Oracle {
	runner := common.NewToolRunner(logger, common.RunnerConfig{
		OracleName: oracleName,
		Tool:       defaultTool,
		ExecPath:   cfg.ExecPath,
		Timeout:    cfg.Timeout,
	})

	return &Oracle{
		runner:          runner,
		logger:          runner.Logger(),
		listingFallback: cfg.ListingFallback,
	}
}

// Name retorna el nombre del backend.
func (o *Oracle) Name() string {
	return oracleName
}

// Verify ejecuta "unrar t" con el candidato y clasifica la salida.
func (o *Oracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	res, err := o.runner.Run(ctx, "t", passwordSwitch(candidate), "-y", target.Path)
	if err != nil {
		return common.StartVerdict(err)
	}

	v, conclusive := classifyTest(res)
	if conclusive || !o.listingFallback {
		return v
	}

	o.logger.Debug("test finished without verdict, trying listing")
	res, err = o.runner.Run(ctx, "lt", passwordSwitch(candidate), target.Path)
	if err != nil {
		return common.StartVerdict(err)
	}
	return classifyListing(res)
}

// Preflight verifica que unrar esté instalado y que el target sea RAR.
func (o *Oracle) Preflight(ctx context.Context, target domain.Target) error {
	if err := o.runner.Preflight(); err != nil {
		return err
	}
	return common.CheckFormat(target, domain.FormatRAR)
}

// UsageHint retorna el comando para extraer el archivo con el password encontrado.
func (o *Oracle) UsageHint(target domain.Target, password string) string {
	return fmt.Sprintf("%s x %s %s",
		o.runner.Tool(),
		common.ShellQuote(passwordSwitch(password)),
		common.ShellQuote(target.Path),
	)
}

// Close no retiene recursos: cada Verify reaps su propio proceso.
func (o *Oracle) Close() error {
	return nil
}

// Unsupported implementa ports.CandidateFilterOracle. unrar interpreta "-p-"
// como "sin password", así que el candidato literal "-" no se puede expresar.
func (o *Oracle) Unsupported(candidate string) string {
	if candidate == "-" {
		return `unrar reads "-p-" as no password; retry this candidate with -o 7z`
	}
	return ""
}

// passwordSwitch construye "-p<pw>". Para el password vacío usa "-p-" para que
// unrar no lo pida por stdin.
func passwordSwitch(password string) string {
	if password == "" {
		return "-p-"
	}
	return "-p" + password
}

var (
	_ ports.PreflightOracle       = (*Oracle)(nil)
	_ ports.HintOracle            = (*Oracle)(nil)
	_ ports.CandidateFilterOracle = (*Oracle)(nil)
)
