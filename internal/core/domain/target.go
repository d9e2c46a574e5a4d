// internal/core/domain/target.go
package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"passhunt/internal/platform/validator"
)

// Target identifica el archivo bajo prueba. Es inmutable durante una búsqueda.
type Target struct {
	// Path ruta al archivo cifrado
	Path string `json:"path"`

	// Format formato detectado (o forzado por configuración)
	Format ArchiveFormat `json:"format"`

	// Size tamaño en bytes, rellenado por Validate
	Size int64 `json:"size"`

	// Metadata adicional
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewTarget crea un nuevo target sin formato detectado.
func NewTarget(path string) *Target {
	return &Target{
		Path:     strings.TrimSpace(path),
		Format:   FormatUnknown,
		Metadata: make(map[string]string),
	}
}

// Validate verifica que el target exista y sea un archivo soportado.
// Detecta el formato por magic bytes si no fue fijado previamente.
func (t *Target) Validate() error {
	if t.Path == "" {
		return ErrMissingTarget
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrTargetNotFound, t.Path)
		}
		return fmt.Errorf("%w: %s: %v", ErrTargetNotFound, t.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, t.Path)
	}
	t.Size = info.Size()

	if t.Format == FormatUnknown {
		detected, err := validator.DetectArchiveFormat(t.Path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTargetCorrupt, t.Path, err)
		}
		t.Format = ParseArchiveFormat(detected)
	}

	if !t.Format.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, t.Path)
	}

	return nil
}

// Name retorna el nombre base del archivo.
func (t Target) Name() string {
	return filepath.Base(t.Path)
}

// String implementa fmt.Stringer.
func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.Path, t.Format)
}
