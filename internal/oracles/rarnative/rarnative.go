// Package rarnative verifica candidatos contra archivos RAR en proceso usando rardecode.
package rarnative

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nwaples/rardecode"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/oracles/common"
	"passhunt/internal/platform/logx"
)

const oracleName = "rar"

// Oracle implementa ports.Oracle y ports.PreflightOracle.
// Cada Verify abre su propio descriptor; no hay estado compartido entre workers.
type Oracle struct {
	logger logx.Logger
}

// New crea un backend rar.
func New(logger logx.Logger) *Oracle {
	return &Oracle{logger: logger.With("oracle", oracleName)}
}

func (o *Oracle) Name() string {
	return oracleName
}

// Verify descomprime el primer archivo con el candidato. rardecode valida el
// checksum al terminar la lectura, lo que rechaza un password incorrecto.
func (o *Oracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	f, err := os.Open(target.Path)
	if err != nil {
		return domain.Fatal(fmt.Sprintf("%s: %s", domain.ErrTargetNotFound, target.Path), domain.ErrTargetNotFound)
	}
	defer f.Close()

	rdr, err := rardecode.NewReader(f, candidate)
	if err != nil {
		o.logger.Debug("reader rejected candidate", "error", err.Error())
		return domain.NoMatch()
	}

	for {
		if err := ctx.Err(); err != nil {
			return common.InterruptedVerdict(err)
		}

		hdr, err := rdr.Next()
		if errors.Is(err, io.EOF) {
			return domain.Fatal("archive has no files", domain.ErrTargetCorrupt)
		}
		if err != nil {
			return domain.NoMatch()
		}
		if hdr.IsDir {
			continue
		}

		if err := common.Drain(ctx, rdr); err != nil {
			if common.IsInterrupted(err) {
				return common.InterruptedVerdict(err)
			}
			return domain.NoMatch()
		}
		return domain.Match()
	}
}

// Preflight verifica que el target sea RAR y legible.
func (o *Oracle) Preflight(ctx context.Context, target domain.Target) error {
	if err := common.CheckFormat(target, domain.FormatRAR); err != nil {
		return err
	}
	f, err := os.Open(target.Path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrTargetNotFound, target.Path)
	}
	return f.Close()
}

func (o *Oracle) Close() error {
	return nil
}

var _ ports.PreflightOracle = (*Oracle)(nil)
