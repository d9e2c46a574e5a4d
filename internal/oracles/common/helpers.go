package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"passhunt/internal/core/domain"
	perrors "passhunt/internal/platform/errors"
)

// TimeoutVerdict construye el veredicto transitorio para una invocación vencida.
func TimeoutVerdict(res Result) domain.Verdict {
	return domain.Transient(
		fmt.Sprintf("verification timed out after %s", res.Duration.Round(time.Millisecond)),
		perrors.ErrTimeout,
	)
}

// ExitVerdict construye un veredicto transitorio genérico para un exit code inesperado.
func ExitVerdict(res Result) domain.Verdict {
	return domain.Transient(fmt.Sprintf("exit code %d", res.ExitCode), perrors.ErrServiceUnavailable)
}

// ShellQuote entrecomilla s para mostrarlo en un comando de shell.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!&;|<>()*?[]{}~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// CheckFormat retorna ErrUnsupportedFormat si target no está entre formats.
func CheckFormat(target domain.Target, formats ...domain.ArchiveFormat) error {
	for _, f := range formats {
		if target.Format == f {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is %s", domain.ErrUnsupportedFormat, target.Name(), target.Format)
}

// ctxReader corta la lectura en cuanto ctx termina.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Drain lee r hasta EOF descartando los datos. Retorna ctx.Err() si ctx termina
// a mitad de la lectura.
func Drain(ctx context.Context, r io.Reader) error {
	_, err := io.Copy(io.Discard, ctxReader{ctx: ctx, r: r})
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return err
}

// InterruptedVerdict construye el veredicto de una verificación en proceso
// cortada por ctx: transitorio, nunca un NoMatch.
func InterruptedVerdict(err error) domain.Verdict {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Transient("verification interrupted", perrors.Wrap(perrors.ErrTimeout, "in-process read"))
	}
	return domain.Transient("verification interrupted", err)
}

// IsInterrupted reporta si err proviene de la cancelación de ctx.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
