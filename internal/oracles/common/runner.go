// Package common provides shared abstractions for oracle backends that
// invoke an external archive tool.
package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"passhunt/internal/core/domain"
	perrors "passhunt/internal/platform/errors"
	"passhunt/internal/platform/logx"
)

// DefaultTimeout tiempo máximo por invocación si la configuración no fija otro.
const DefaultTimeout = 10 * time.Second

// waitDelay margen para que el proceso muera tras la señal antes de cerrar pipes.
const waitDelay = 2 * time.Second

// Result es la salida de una invocación de la herramienta.
type Result struct {
	// Output stdout y stderr combinados
	Output   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Contains indica si la salida contiene alguno de los fragmentos (sin distinguir mayúsculas).
func (r Result) Contains(fragments ...string) bool {
	lower := strings.ToLower(r.Output)
	for _, f := range fragments {
		if strings.Contains(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// ToolRunner ejecuta la herramienta externa de un backend.
// Es seguro para uso concurrente: cada Run crea y reaps su propio proceso.
type ToolRunner struct {
	logger   logx.Logger
	tool     string
	execPath string
	timeout  time.Duration
}

// RunnerConfig contiene la configuración de un ToolRunner.
type RunnerConfig struct {
	OracleName string        // Nombre del backend para logging
	Tool       string        // Nombre del binario (ej: "unrar")
	ExecPath   string        // Ruta explícita (vacío = buscar Tool en PATH)
	Timeout    time.Duration // Límite por invocación si ctx no trae deadline
}

// NewToolRunner crea un ToolRunner con la configuración dada.
func NewToolRunner(logger logx.Logger, cfg RunnerConfig) *ToolRunner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ExecPath == "" {
		cfg.ExecPath = cfg.Tool
	}

	return &ToolRunner{
		logger:   logger.With("oracle", cfg.OracleName),
		tool:     cfg.Tool,
		execPath: cfg.ExecPath,
		timeout:  cfg.Timeout,
	}
}

// LookPath resuelve el ejecutable. Retorna domain.ErrToolMissing si no existe.
func (r *ToolRunner) LookPath() (string, error) {
	path, err := exec.LookPath(r.execPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrToolMissing, r.tool)
	}
	return path, nil
}

// Run ejecuta la herramienta con args y espera a que termine. Ver RunEnv.
func (r *ToolRunner) Run(ctx context.Context, args ...string) (Result, error) {
	return r.RunEnv(ctx, nil, args...)
}

// RunEnv ejecuta la herramienta con args y variables extra en env, y espera a
// que termine.
//
// El proceso corre en su propio grupo: al vencer el timeout o cancelarse ctx se
// mata el grupo completo y el proceso siempre se reaps antes de retornar.
// Solo retorna error si el proceso no pudo arrancar; un exit code distinto de 0
// no es un error, lo interpreta el backend.
func (r *ToolRunner) RunEnv(ctx context.Context, env []string, args ...string) (Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	path, err := r.LookPath()
	if err != nil {
		return Result{}, err
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// ctx ya había terminado: el proceso nunca arrancó
			return Result{ExitCode: -1, TimedOut: errors.Is(ctxErr, context.DeadlineExceeded)}, nil
		}
		return Result{}, startError(r.tool, err)
	}

	waitErr := cmd.Wait()
	res := Result{
		Output:   out.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
		Duration: time.Since(start),
	}

	if waitErr != nil && !res.TimedOut && ctx.Err() == nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			r.logger.Debug("tool wait failed", "error", waitErr.Error())
		}
	}

	r.logger.Debug("tool finished",
		"exit_code", res.ExitCode,
		"timed_out", res.TimedOut,
		"duration_ms", res.Duration.Milliseconds(),
	)

	return res, nil
}

// startError clasifica un fallo de cmd.Start: la falta de recursos del host
// (fork, descriptores, memoria) es transitoria, el resto es permanente.
func startError(tool string, err error) error {
	cause := perrors.ErrProcessFailed
	if isResourceError(err) {
		cause = perrors.ErrResourceExhausted
	}
	return perrors.Wrapf(cause, "start %s: %v", tool, err)
}

// StartVerdict convierte el error de Run en un veredicto. Solo la herramienta
// ausente o un fallo permanente de arranque abortan la búsqueda.
func StartVerdict(err error) domain.Verdict {
	if perrors.IsTransient(err) {
		return domain.Transient(err.Error(), err)
	}
	return domain.Fatal(err.Error(), err)
}

// Preflight verifica que la herramienta esté instalada.
func (r *ToolRunner) Preflight() error {
	path, err := r.LookPath()
	if err != nil {
		return err
	}
	r.logger.Debug("found binary", "path", path)
	return nil
}

// Tool retorna el nombre del binario.
func (r *ToolRunner) Tool() string {
	return r.tool
}

// Timeout retorna el límite por invocación.
func (r *ToolRunner) Timeout() time.Duration {
	return r.timeout
}

// Logger retorna el logger del runner.
func (r *ToolRunner) Logger() logx.Logger {
	return r.logger
}
