// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio comunes.
var (
	// Configuration errors
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrMissingTarget   = errors.New("target archive is required")
	ErrMissingInput    = errors.New("a password, wordlist or keywords file is required")
	ErrInvalidPoolSize = errors.New("pool size must be positive")
	ErrInvalidTimeout  = errors.New("per-attempt timeout must be positive")
	ErrInvalidRetries  = errors.New("max retries cannot be negative")
	ErrInvalidInterval = errors.New("progress interval must be positive")
	ErrNoOracle        = errors.New("no oracle available for target")

	// Target errors
	ErrTargetNotFound    = errors.New("target not found")
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrTargetCorrupt     = errors.New("target is corrupt or not an archive")
	ErrNotEncrypted      = errors.New("archive is not password protected")

	// Oracle errors
	ErrToolMissing      = errors.New("tool not found")
	ErrInconclusive     = errors.New("inconclusive verification")
	ErrRetriesExhausted = errors.New("retries exhausted")

	// Search errors
	ErrMalformedStream = errors.New("malformed candidate stream")
	ErrEmptyCandidate  = errors.New("empty candidate")
	ErrEndOfInput      = errors.New("end of input")
	ErrSearchCanceled  = errors.New("search canceled")
	ErrUserRequested   = errors.New("user-requested")
)

// ConfigError describe un fallo de configuración detectado antes de
// arrancar cualquier worker. Siempre satisface errors.Is(err, ErrInvalidConfig).
type ConfigError struct {
	Field string
	Err   error
}

// NewConfigError crea un ConfigError para field.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", ErrInvalidConfig, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrInvalidConfig, e.Field, e.Err)
}

// Unwrap expone tanto ErrInvalidConfig como la causa concreta.
func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}
