// cmd/passhunt/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"passhunt/internal/adapters/output"
	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/core/usecases"
	"passhunt/internal/oracles/extract"
	"passhunt/internal/platform/config"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/registry"
	"passhunt/internal/platform/resilience"
	"passhunt/internal/platform/ui"

	// Import oracles for auto-registration via init()
	_ "passhunt/internal/oracles/rarnative"
	_ "passhunt/internal/oracles/sevenzip"
	_ "passhunt/internal/oracles/unrar"
	_ "passhunt/internal/oracles/zipnative"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes
const (
	exitFound     = 0
	exitExhausted = 1
	exitConfig    = 2
	exitAborted   = 3
)

func main() {
	// el backend extract se relanza a sí mismo para cada intento
	extract.MaybeRunChild()

	ctx, cancel := rootContextWithSignals()
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run ejecuta el CLI completo y retorna el exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// 1. Config: defaults -> yaml -> env -> flags
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Try: passhunt -h for help")
		return exitConfig
	}
	if cfg.PrintHelp {
		config.PrintHelp(stdout)
		return exitFound
	}
	if cfg.PrintVersion {
		config.PrintVersion(stdout, version, commit, date)
		return exitFound
	}

	// 2. Shared logger
	logger := logx.NewWriter(stderr, cfg.LogLevel())

	if cfg.Check {
		return runCheck(ctx, cfg, stdout, logger)
	}

	// sin -f se usa el único archivo comprimido del directorio actual
	if picked, err := cfg.DiscoverTarget("."); err != nil {
		logger.Warn("archive discovery failed", "error", err.Error())
	} else if picked {
		logger.Info("archive picked from working directory", "target", cfg.Core.Target)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Usage: passhunt -f <archive> (-w <wordlist> | -k <keywords> | -p <password>)")
		return finishConfigError(cfg, err, stdout, logger)
	}

	presenter, err := ui.New(ui.Options{
		Mode:           ui.UIMode(cfg.Output.UI),
		Out:            stderr,
		RevealPassword: cfg.Output.RevealPassword,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}
	defer presenter.Close()

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
		presenter.Warning(w)
	}

	logger.Info("passhunt starting",
		"version", version,
		"target", cfg.Core.Target,
		"oracle", cfg.Oracle.Name,
		"workers", cfg.Core.Workers,
	)

	// 3. Target: existe, formato detectado por magic bytes (o forzado)
	target := domain.NewTarget(cfg.Core.Target)
	if cfg.Oracle.Format != "" {
		target.Format = domain.ParseArchiveFormat(cfg.Oracle.Format)
	}
	if err := target.Validate(); err != nil {
		logger.Err(err, "phase", "target")
		return finishAborted(cfg, *target, cfg.Oracle.Name, err, presenter, stdout, logger)
	}

	// 4. Oracle desde el registry (auto = mejor backend disponible para el formato)
	oracle, err := registry.Global().Resolve(ctx, cfg.Oracle.Name, *target, cfg.OracleConfig(), logger)
	if err != nil {
		logger.Err(err, "phase", "oracle")
		return finishAborted(cfg, *target, cfg.Oracle.Name, err, presenter, stdout, logger)
	}

	// 5. Candidate source
	source, err := buildSource(ctx, cfg, logger)
	if err != nil {
		_ = oracle.Close()
		logger.Err(err, "phase", "source")
		if errors.Is(err, context.Canceled) {
			err = domain.ErrUserRequested
		}
		return finishAborted(cfg, *target, oracle.Name(), err, presenter, stdout, logger)
	}
	defer source.Close()

	// 6. Engine
	engine, err := usecases.NewEngine(engineOptions(cfg, oracle, logger, presenter))
	if err != nil {
		_ = oracle.Close()
		fmt.Fprintf(stderr, "Error: %v\n", err)
		presenter.Error(err.Error())
		return finishConfigError(cfg, err, stdout, logger)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("failed to close oracle", "error", err.Error())
		}
	}()

	report, err := engine.Run(ctx, *target, source)
	if err != nil {
		// el engine ya publicó el reporte Aborted
		fmt.Fprintf(stderr, "Error: %v\n", err)
		writeOutputs(cfg, report, exportOptions(cfg), presenter, stdout, logger)
		return exitConfig
	}

	// 7. Outputs
	opts := exportOptions(cfg)
	if hint, ok := oracle.(ports.HintOracle); ok && report.Found() {
		opts.UsageHint = hint.UsageHint(*target, report.State.Password)
	}
	writeOutputs(cfg, report, opts, presenter, stdout, logger)

	return exitCode(report.State.Status)
}

// engineOptions traduce la configuración a opciones del engine.
func engineOptions(cfg config.Config, oracle ports.Oracle, logger logx.Logger, presenter ui.Presenter) usecases.EngineOptions {
	opts := usecases.EngineOptions{
		Oracle:            oracle,
		Logger:            logger,
		Observers:         []ports.Notifier{presenter},
		Workers:           cfg.Core.Workers,
		Timeout:           cfg.Core.Timeout,
		MaxRetries:        cfg.Resilience.MaxRetries,
		BackoffBase:       cfg.Resilience.BackoffBase,
		BackoffMultiplier: cfg.Resilience.BackoffMultiplier,
		ProgressInterval:  cfg.Core.ProgressInterval,
		RateLimit:         cfg.Resilience.RateLimit,
		RateBurst:         cfg.Resilience.RateBurst,
		CacheSize:         cfg.Core.CacheSize,
		Dedupe:            cfg.Core.Dedupe,
		Version:           version,
	}

	if cfg.Resilience.CircuitBreakerEnabled {
		opts.CircuitBreaker = resilience.NewCircuitBreaker(
			cfg.Resilience.CircuitBreakerThreshold,
			cfg.Resilience.CircuitBreakerTimeout,
			cfg.Resilience.CircuitBreakerHalfOpenMax,
		)
		logger.Debug("circuit breaker enabled",
			"threshold", cfg.Resilience.CircuitBreakerThreshold,
			"cooldown", cfg.Resilience.CircuitBreakerTimeout,
		)
	}

	return opts
}

func exportOptions(cfg config.Config) ports.ExportOptions {
	return ports.ExportOptions{
		OutputDir:      cfg.Output.Dir,
		Pretty:         true,
		RevealPassword: cfg.Output.RevealPassword,
	}
}

// finishAborted produce el reporte de un fallo detectado antes de arrancar el engine.
func finishAborted(cfg config.Config, target domain.Target, oracle string, cause error, presenter ui.Presenter, stdout io.Writer, logger logx.Logger) int {
	report := domain.NewAbortedReport(target, oracle, cause.Error())
	report.Version = version

	presenter.Error(cause.Error())
	writeOutputs(cfg, report, exportOptions(cfg), presenter, stdout, logger)
	return exitAborted
}

// finishConfigError muestra el estado Aborted de una configuración inválida.
// No escribe JSON: la búsqueda nunca arrancó y el directorio de salida puede
// ser parte del error.
func finishConfigError(cfg config.Config, cause error, stdout io.Writer, logger logx.Logger) int {
	target := domain.Target{Path: cfg.Core.Target}
	report := domain.NewAbortedReport(target, cfg.Oracle.Name, cause.Error())
	report.Version = version

	if err := output.OutputTable(stdout, report, exportOptions(cfg)); err != nil {
		logger.Err(err, "phase", "output")
	}
	return exitConfig
}

// writeOutputs escribe el JSON (si está habilitado) y la tabla resumen.
func writeOutputs(cfg config.Config, report *domain.SearchReport, opts ports.ExportOptions, presenter ui.Presenter, stdout io.Writer, logger logx.Logger) {
	if cfg.Output.JSON {
		path, err := output.OutputJSON(cfg.Output.Dir, report, opts)
		if err != nil {
			logger.Err(err, "phase", "output")
			presenter.Warning(fmt.Sprintf("json report not written: %v", err))
		} else {
			logger.Info("report written", "path", path)
			presenter.Info("report written to " + path)
		}
	}

	if err := output.OutputTable(stdout, report, opts); err != nil {
		logger.Err(err, "phase", "output")
	}
}

func exitCode(status domain.Status) int {
	switch status {
	case domain.StatusFound:
		return exitFound
	case domain.StatusExhausted:
		return exitExhausted
	default:
		return exitAborted
	}
}

// rootContextWithSignals crea el contexto raíz cancelado por SIGINT/SIGTERM.
// Un segundo Ctrl-C no se intercepta: el proceso muere con el comportamiento por defecto.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
			signal.Stop(ch)
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		baseCancel()
	}

	return base, cleanup
}
