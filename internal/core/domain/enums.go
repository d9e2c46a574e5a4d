// internal/core/domain/enums.go
package domain

import "strings"

// ArchiveFormat identifica el formato del archivo objetivo.
type ArchiveFormat string

const (
	FormatUnknown ArchiveFormat = ""
	FormatRAR     ArchiveFormat = "rar"
	FormatZIP     ArchiveFormat = "zip"
	Format7z      ArchiveFormat = "7z"
)

// IsValid verifica si el formato es uno de los soportados.
func (f ArchiveFormat) IsValid() bool {
	switch f {
	case FormatRAR, FormatZIP, Format7z:
		return true
	default:
		return false
	}
}

// String retorna la representación string del formato.
func (f ArchiveFormat) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// ParseArchiveFormat convierte un nombre ("rar", "ZIP", "7z") en ArchiveFormat.
func ParseArchiveFormat(s string) ArchiveFormat {
	switch ArchiveFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatRAR:
		return FormatRAR
	case FormatZIP:
		return FormatZIP
	case Format7z:
		return Format7z
	default:
		return FormatUnknown
	}
}

// OutcomeKind es la clasificación de una verificación.
type OutcomeKind string

const (
	OutcomeMatch   OutcomeKind = "match"
	OutcomeNoMatch OutcomeKind = "no-match"
	OutcomeError   OutcomeKind = "error"
)

// String retorna la representación string del outcome.
func (k OutcomeKind) String() string {
	return string(k)
}

// ErrorKind distingue errores reintentables de errores que terminan la búsqueda.
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindTransient ErrorKind = "transient"
	ErrorKindFatal     ErrorKind = "fatal"
)

// String retorna la representación string del tipo de error.
func (k ErrorKind) String() string {
	if k == ErrorKindNone {
		return "none"
	}
	return string(k)
}

// Status es el estado de una búsqueda.
type Status string

const (
	StatusRunning   Status = "running"
	StatusFound     Status = "found"
	StatusExhausted Status = "exhausted"
	StatusAborted   Status = "aborted"
)

// IsTerminal indica si el estado ya no puede cambiar.
func (s Status) IsTerminal() bool {
	return s == StatusFound || s == StatusExhausted || s == StatusAborted
}

// String retorna la representación string del estado.
func (s Status) String() string {
	return string(s)
}
