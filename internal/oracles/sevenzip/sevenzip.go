// Package sevenzip verifica candidatos con 7-Zip ("7z t"). Cubre 7z, ZIP y RAR.
package sevenzip

import (
	"context"
	"fmt"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/oracles/common"
	perrors "passhunt/internal/platform/errors"
	"passhunt/internal/platform/logx"
)

const (
	oracleName  = "7z"
	defaultTool = "7z"
)

var supportedFormats = []domain.ArchiveFormat{domain.Format7z, domain.FormatZIP, domain.FormatRAR}

// Exit codes de 7-Zip.
const (
	exitOK      = 0
	exitWarning = 1
	exitFatal   = 2
	exitUsage   = 7
	exitMemory  = 8
)

// Oracle implementa ports.Oracle, ports.PreflightOracle y ports.HintOracle.
type Oracle struct {
	runner *common.ToolRunner
}

// New crea un backend 7z.
func New(logger logx.Logger, execPath string, timeout time.Duration) *Oracle {
	return &Oracle{
		runner: common.NewToolRunner(logger, common.RunnerConfig{
			OracleName: oracleName,
			Tool:       defaultTool,
			ExecPath:   execPath,
			Timeout:    timeout,
		}),
	}
}

func (o *Oracle) Name() string {
	return oracleName
}

// Verify ejecuta "7z t -p<pw> -y <archivo>".
func (o *Oracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	res, err := o.runner.Run(ctx, "t", "-p"+candidate, "-y", target.Path)
	if err != nil {
		return common.StartVerdict(err)
	}
	return classify(res)
}

func (o *Oracle) Preflight(ctx context.Context, target domain.Target) error {
	if err := o.runner.Preflight(); err != nil {
		return err
	}
	return common.CheckFormat(target, supportedFormats...)
}

func (o *Oracle) UsageHint(target domain.Target, password string) string {
	return fmt.Sprintf("%s x %s %s",
		o.runner.Tool(),
		common.ShellQuote("-p"+password),
		common.ShellQuote(target.Path),
	)
}

func (o *Oracle) Close() error {
	return nil
}

// classify interpreta la salida de "7z t".
func classify(res common.Result) domain.Verdict {
	if res.TimedOut {
		return common.TimeoutVerdict(res)
	}

	switch {
	case res.Contains("can not open the file as archive", "cannot open the file as archive"):
		return domain.Fatal(domain.ErrTargetCorrupt.Error(), domain.ErrTargetCorrupt)
	case res.Contains("wrong password"):
		return domain.NoMatch()
	case res.ExitCode == exitOK && res.Contains("everything is ok"):
		return domain.Match()
	}

	switch res.ExitCode {
	case exitFatal, exitWarning:
		// Data Error / CRC Failed en archivos cifrados
		return domain.NoMatch()
	case exitUsage:
		return domain.Fatal(fmt.Sprintf("bad command line (exit code %d)", res.ExitCode), perrors.ErrInvalidInput)
	case exitMemory:
		return domain.Transient(fmt.Sprintf("not enough memory (exit code %d)", res.ExitCode), perrors.ErrResourceExhausted)
	case exitOK:
		return domain.Transient("inconclusive test output", domain.ErrInconclusive)
	}
	return common.ExitVerdict(res)
}

var (
	_ ports.PreflightOracle = (*Oracle)(nil)
	_ ports.HintOracle      = (*Oracle)(nil)
)
