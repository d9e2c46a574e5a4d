// Package extract verifica candidatos extrayendo el archivo con xtractr en un
// directorio temporal que se elimina tras cada intento.
//
// La extracción corre en un proceso hijo (el propio ejecutable relanzado con
// ChildEnv) para que el timeout por intento pueda matarla: xtractr no acepta
// context y una goroutine no se puede interrumpir.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golift.io/xtractr"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/oracles/common"
	perrors "passhunt/internal/platform/errors"
	"passhunt/internal/platform/logx"
)

const oracleName = "extract"

const (
	// ChildEnv marca el proceso como extractor hijo
	ChildEnv = "PASSHUNT_EXTRACT_CHILD"

	// passwordEnv lleva el candidato al hijo sin exponerlo en argv
	passwordEnv = "PASSHUNT_EXTRACT_PASSWORD"
)

// Exit codes del proceso hijo.
const (
	childExtracted = 0
	childFailed    = 1
	childUsage     = 64
)

var supportedFormats = []domain.ArchiveFormat{domain.FormatRAR, domain.Format7z}

// Oracle implementa ports.Oracle y ports.PreflightOracle.
type Oracle struct {
	logger  logx.Logger
	workDir string
	runner  *common.ToolRunner
	self    error // error de os.Executable, reportado en Preflight
}

// New crea un backend de extracción. workDir vacío usa el directorio temporal del sistema.
func New(logger logx.Logger, workDir string, timeout time.Duration) *Oracle {
	logger = logger.With("oracle", oracleName)

	exe, err := os.Executable()
	return &Oracle{
		logger:  logger,
		workDir: workDir,
		self:    err,
		runner: common.NewToolRunner(logger, common.RunnerConfig{
			OracleName: oracleName,
			Tool:       filepath.Base(exe),
			ExecPath:   exe,
			Timeout:    timeout,
		}),
	}
}

func (o *Oracle) Name() string {
	return oracleName
}

// Verify extrae el archivo con el candidato en un proceso hijo. Una extracción
// sin error que escribe datos confirma el password. El directorio de trabajo se
// elimina en todos los caminos, después de que el hijo terminó.
func (o *Oracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	outDir, err := os.MkdirTemp(o.workDir, "passhunt-extract-*")
	if err != nil {
		return domain.Transient(fmt.Sprintf("cannot create work dir: %v", err), perrors.ErrResourceExhausted)
	}
	defer func() {
		if rmErr := os.RemoveAll(outDir); rmErr != nil {
			o.logger.Warn("cannot remove work dir", "dir", outDir, "error", rmErr.Error())
		}
	}()

	res, err := o.runner.RunEnv(ctx,
		[]string{ChildEnv + "=1", passwordEnv + "=" + candidate},
		target.Path, filepath.Join(outDir, "out"),
	)
	if err != nil {
		return common.StartVerdict(err)
	}
	return classify(ctx, res)
}

func classify(ctx context.Context, res common.Result) domain.Verdict {
	switch {
	case res.TimedOut:
		return common.TimeoutVerdict(res)
	case ctx.Err() != nil:
		return common.InterruptedVerdict(ctx.Err())
	}

	switch res.ExitCode {
	case childExtracted:
		return domain.Match()
	case childFailed:
		return domain.NoMatch()
	case childUsage:
		return domain.Fatal("extractor child rejected its arguments", perrors.ErrInvalidInput)
	}
	return common.ExitVerdict(res)
}

// Preflight verifica formato, que el ejecutable pueda relanzarse y que el
// directorio de trabajo sea utilizable.
func (o *Oracle) Preflight(ctx context.Context, target domain.Target) error {
	if err := common.CheckFormat(target, supportedFormats...); err != nil {
		return err
	}
	if _, err := os.Stat(target.Path); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrTargetNotFound, target.Path)
	}
	if o.self != nil {
		return fmt.Errorf("%w: cannot locate own executable: %v", domain.ErrToolMissing, o.self)
	}
	if err := o.runner.Preflight(); err != nil {
		return err
	}

	dir, err := os.MkdirTemp(o.workDir, "passhunt-preflight-*")
	if err != nil {
		return fmt.Errorf("work dir not writable: %w", err)
	}
	return os.RemoveAll(dir)
}

func (o *Oracle) Close() error {
	return nil
}

// MaybeRunChild termina el proceso si fue lanzado como extractor hijo.
// Debe llamarse al inicio de main (y de TestMain en los tests del package).
func MaybeRunChild() {
	if os.Getenv(ChildEnv) != "1" {
		return
	}
	os.Exit(runChild(os.Args[1:], os.Getenv(passwordEnv), os.Stdout))
}

// runChild extrae args[0] en args[1] con password y retorna el exit code.
func runChild(args []string, password string, out io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(out, "usage: <archive> <output-dir>")
		return childUsage
	}

	size, files, _, err := xtractr.ExtractFile(&xtractr.XFile{
		FilePath:  args[0],
		OutputDir: args[1],
		Passwords: []string{password},
		DirMode:   0o750,
		FileMode:  0o640,
	})
	if err != nil {
		fmt.Fprintf(out, "extraction failed: %v\n", err)
		return childFailed
	}
	if size <= 0 {
		fmt.Fprintln(out, "extraction produced no data")
		return childFailed
	}
	fmt.Fprintf(out, "extracted %d files, %d bytes\n", len(files), size)
	return childExtracted
}

var _ ports.PreflightOracle = (*Oracle)(nil)
