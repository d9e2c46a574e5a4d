// Package errors agrupa los errores de infraestructura que comparten los
// backends y el envoltorio de reintentos.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors para fallos de la herramienta o del host
var (
	// ErrTimeout la verificación superó su límite de tiempo
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidInput la herramienta rechazó la línea de comandos
	ErrInvalidInput = errors.New("invalid input")

	// ErrResourceExhausted el host se quedó sin memoria, descriptores o procesos
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrServiceUnavailable la herramienta terminó de forma inesperada
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrProcessFailed el proceso externo no pudo arrancar por un motivo permanente
	ErrProcessFailed = errors.New("process failed")
)

// wrappedError agrega contexto a un error
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap agrega msg como contexto de err. Wrap(nil, ...) retorna nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf es Wrap con mensaje formateado.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// IsTimeout reporta si err es un timeout de verificación.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsResourceExhausted reporta si err es falta de recursos del host.
func IsResourceExhausted(err error) bool {
	return errors.Is(err, ErrResourceExhausted)
}

// IsTransient reporta si reintentar la misma operación más tarde puede funcionar.
func IsTransient(err error) bool {
	return IsTimeout(err) || IsResourceExhausted(err) || errors.Is(err, ErrServiceUnavailable)
}

// Kind clasifica err para logging: "timeout", "resource", "tool" o "".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTimeout(err):
		return "timeout"
	case IsResourceExhausted(err):
		return "resource"
	default:
		return "tool"
	}
}
