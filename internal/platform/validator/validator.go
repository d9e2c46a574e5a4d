// internal/platform/validator/validator.go
package validator

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Archive validators

// magicNumbers firmas de cabecera de los formatos soportados.
var magicNumbers = []struct {
	format string
	magic  []byte
}{
	{"rar", []byte("Rar!\x1a\x07")},
	{"zip", []byte("PK\x03\x04")},
	{"7z", []byte("7z\xbc\xaf\x27\x1c")},
}

// extensionFormats extensiones reconocidas cuando la firma no es concluyente.
var extensionFormats = map[string]string{
	".rar": "rar",
	".cbr": "rar",
	".zip": "zip",
	".cbz": "zip",
	".7z":  "7z",
}

// ErrEmptyFile indica que el archivo no tiene bytes suficientes para detectar formato.
var ErrEmptyFile = errors.New("file is empty")

// DetectArchiveFormat identifica el formato por magic bytes y, si no hay
// coincidencia, por extensión. Retorna "" si no lo reconoce.
func DetectArchiveFormat(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if n == 0 {
		return "", ErrEmptyFile
	}

	if format := FormatByMagic(header[:n]); format != "" {
		return format, nil
	}

	return FormatByExtension(path), nil
}

// FormatByMagic retorna el formato cuya firma coincide con el prefijo de header.
func FormatByMagic(header []byte) string {
	for _, m := range magicNumbers {
		if bytes.HasPrefix(header, m.magic) {
			return m.format
		}
	}
	return ""
}

// FormatByExtension retorna el formato asociado a la extensión de path.
func FormatByExtension(path string) string {
	return extensionFormats[strings.ToLower(filepath.Ext(path))]
}

// Candidate validators

// IsCandidate verifica que un candidato sea utilizable como password:
// no vacío y sin saltos de línea ni NUL (romperían la invocación de la herramienta).
func IsCandidate(s string) bool {
	if IsEmpty(s) {
		return false
	}
	return !strings.ContainsAny(s, "\x00\r\n")
}

// Generic validators

// IsEmpty verifica si un string está vacío.
func IsEmpty(s string) bool {
	return len(s) == 0
}

// MaxLength verifica longitud máxima.
func MaxLength(s string, max int) bool {
	return len(s) <= max
}

// MinLength verifica longitud mínima.
func MinLength(s string, min int) bool {
	return len(s) >= min
}
