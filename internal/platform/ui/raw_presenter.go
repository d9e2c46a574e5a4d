// internal/platform/ui/raw_presenter.go
package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// LogFormat define el formato de salida para el modo raw
type LogFormat string

const (
	LogFormatText LogFormat = "text" // Formato logfmt (default)
	LogFormatJSON LogFormat = "json" // Formato JSON estructurado
)

// RawPresenter implementa el Presenter para modo raw (líneas sin formato visual).
// El password nunca se escribe: el resumen final lo muestra la tabla.
type RawPresenter struct {
	format LogFormat
	out    io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

// NewRawPresenter crea un nuevo RawPresenter
func NewRawPresenter(out io.Writer, format LogFormat) *RawPresenter {
	return &RawPresenter{
		format: format,
		out:    out,
		now:    time.Now,
	}
}

// field par clave/valor con orden estable.
type field struct {
	key   string
	value any
}

// log escribe una línea en el formato configurado
func (r *RawPresenter) log(level, message string, fields ...field) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now().UTC().Format(time.RFC3339)

	if r.format == LogFormatJSON {
		r.logJSON(timestamp, level, message, fields)
	} else {
		r.logText(timestamp, level, message, fields)
	}
}

// logText escribe en formato logfmt: timestamp LEVEL message key=value key2=value2
func (r *RawPresenter) logText(timestamp, level, message string, fields []field) {
	parts := []string{timestamp, fmt.Sprintf("%-5s", level), message}
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s=%s", f.key, r.formatValue(f.value)))
	}
	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

// logJSON escribe en formato JSON estructurado
func (r *RawPresenter) logJSON(timestamp, level, message string, fields []field) {
	entry := map[string]interface{}{
		"timestamp": timestamp,
		"level":     level,
		"message":   message,
	}

	if len(fields) > 0 {
		data := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			if d, ok := f.value.(time.Duration); ok {
				data[f.key] = d.String()
				continue
			}
			data[f.key] = f.value
		}
		entry["data"] = data
	}

	jsonBytes, _ := json.Marshal(entry)
	fmt.Fprintln(r.out, string(jsonBytes))
}

// formatValue formatea valores para logfmt (entrecomilla strings con espacios)
func (r *RawPresenter) formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " =\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case time.Duration:
		return val.String()
	case float64:
		return fmt.Sprintf("%.1f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Notify implementa ports.Notifier
func (r *RawPresenter) Notify(ctx context.Context, event ports.Event) error {
	return dispatch(ctx, r, event)
}

func (r *RawPresenter) started(ev ports.SearchStartedEvent) {
	r.log("INFO", "search_started",
		field{"id", ev.SearchID},
		field{"target", ev.Target.Path},
		field{"format", ev.Target.Format.String()},
		field{"oracle", ev.Oracle},
		field{"workers", ev.Workers},
		field{"total", ev.Total},
	)
}

func (r *RawPresenter) progress(s ports.ProgressSample) {
	fields := []field{
		{"attempted", s.Attempted},
		{"rate", s.Rate},
		{"elapsed", s.Elapsed.Round(time.Millisecond)},
	}
	if s.Total >= 0 {
		fields = append(fields, field{"total", s.Total}, field{"remaining", s.Remaining})
	}
	if s.Errors > 0 {
		fields = append(fields, field{"errors", s.Errors})
	}
	r.log("INFO", "progress", fields...)
}

func (r *RawPresenter) finished(report *domain.SearchReport) {
	level := "INFO"
	if report.State.Status == domain.StatusAborted {
		level = "ERROR"
	}

	fields := []field{
		{"status", report.State.Status.String()},
		{"attempted", report.State.Attempted},
		{"errors", report.State.Errors},
		{"duration", report.Elapsed.Round(time.Millisecond)},
	}
	if report.State.Reason != "" {
		fields = append(fields, field{"reason", report.State.Reason})
	}
	r.log(level, "search_finished", fields...)
}

// Info muestra un mensaje informativo
func (r *RawPresenter) Info(msg string) {
	r.log("INFO", msg)
}

// Warning muestra una advertencia
func (r *RawPresenter) Warning(msg string) {
	r.log("WARN", msg)
}

// Error muestra un error
func (r *RawPresenter) Error(msg string) {
	r.log("ERROR", msg)
}

// Close limpia recursos
func (r *RawPresenter) Close() error {
	return nil
}
