// Package zipnative verifica candidatos contra archivos ZIP cifrados en proceso
// (ZipCrypto y WinZip AES), sin herramientas externas.
package zipnative

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/yeka/zip"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/oracles/common"
	"passhunt/internal/platform/logx"
)

const oracleName = "zip"

// DefaultMaxSize tamaño máximo de archivo que se carga en memoria.
const DefaultMaxSize = 256 << 20

// Oracle implementa ports.Oracle y ports.PreflightOracle.
//
// El contenido del archivo se carga una vez; cada Verify abre su propio
// zip.Reader sobre esos bytes porque SetPassword muta el *zip.File.
type Oracle struct {
	logger  logx.Logger
	maxSize int64

	mu    sync.Mutex
	path  string
	data  []byte
	entry string
}

// New crea un backend zip.
func New(logger logx.Logger, maxSize int64) *Oracle {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Oracle{
		logger:  logger.With("oracle", oracleName),
		maxSize: maxSize,
	}
}

func (o *Oracle) Name() string {
	return oracleName
}

// Verify descifra la entrada cifrada más pequeña con el candidato. La lectura
// completa valida el CRC, así que un password incorrecto nunca pasa como match.
func (o *Oracle) Verify(ctx context.Context, target domain.Target, candidate string) domain.Verdict {
	data, entry, err := o.load(target)
	if err != nil {
		return domain.Fatal(err.Error(), err)
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Fatal(domain.ErrTargetCorrupt.Error(), domain.ErrTargetCorrupt)
	}

	for _, f := range r.File {
		if f.Name != entry {
			continue
		}

		f.SetPassword(candidate)
		rc, err := f.Open()
		if err != nil {
			return domain.NoMatch()
		}
		err = common.Drain(ctx, rc)
		rc.Close()
		if err != nil {
			if common.IsInterrupted(err) {
				return common.InterruptedVerdict(err)
			}
			return domain.NoMatch()
		}
		return domain.Match()
	}

	return domain.Fatal(domain.ErrNotEncrypted.Error(), domain.ErrNotEncrypted)
}

// Preflight verifica que el target sea un ZIP legible con al menos una entrada cifrada.
func (o *Oracle) Preflight(ctx context.Context, target domain.Target) error {
	if err := common.CheckFormat(target, domain.FormatZIP); err != nil {
		return err
	}
	_, _, err := o.load(target)
	return err
}

func (o *Oracle) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data = nil
	o.path = ""
	return nil
}

// load lee el archivo y elige la entrada a verificar.
func (o *Oracle) load(target domain.Target) ([]byte, string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.path == target.Path && o.data != nil {
		return o.data, o.entry, nil
	}

	info, err := os.Stat(target.Path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrTargetNotFound, target.Path)
	}
	if info.Size() > o.maxSize {
		return nil, "", fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrUnsupportedFormat, target.Name(), o.maxSize)
	}

	data, err := os.ReadFile(target.Path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", domain.ErrTargetNotFound, target.Path, err)
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", domain.ErrTargetCorrupt, target.Name(), err)
	}

	entry, ok := smallestEncrypted(r.File)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrNotEncrypted, target.Name())
	}

	o.logger.Debug("zip loaded", "entries", len(r.File), "entry", entry)
	o.path, o.data, o.entry = target.Path, data, entry
	return data, entry, nil
}

func smallestEncrypted(files []*zip.File) (string, bool) {
	var best *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() || !f.IsEncrypted() {
			continue
		}
		if best == nil || f.UncompressedSize64 < best.UncompressedSize64 {
			best = f
		}
	}
	if best == nil {
		return "", false
	}
	return best.Name, true
}

var _ ports.PreflightOracle = (*Oracle)(nil)
