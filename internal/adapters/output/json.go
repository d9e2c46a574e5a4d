// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// sanitizeName convierte el nombre del archivo objetivo en un nombre de carpeta válido.
// Ejemplo: "backup 2023.rar" -> "backup_2023_rar"
func sanitizeName(name string) string {
	sanitized := strings.ReplaceAll(name, ".", "_")
	sanitized = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, sanitized)
	if sanitized == "" {
		return "target"
	}
	return sanitized
}

// jsonReport es la forma estable del reporte exportado.
type jsonReport struct {
	ID         string        `json:"id"`
	Version    string        `json:"version,omitempty"`
	Target     domain.Target `json:"target"`
	Oracle     string        `json:"oracle"`
	Workers    int           `json:"workers"`
	Status     domain.Status `json:"status"`
	Password   *string       `json:"password,omitempty"`
	Redacted   bool          `json:"password_redacted,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Attempted  int64         `json:"attempted"`
	Skipped    int64         `json:"skipped"`
	Errors     int64         `json:"errors"`
	Retries    int64         `json:"retries"`
	Total      int64         `json:"total"`
	Remaining  int64         `json:"remaining"`
	ElapsedMS  int64         `json:"elapsed_ms"`
	Rate       float64       `json:"rate"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	UsageHint  string        `json:"usage_hint,omitempty"`
}

func toJSONReport(report *domain.SearchReport, opts ports.ExportOptions) jsonReport {
	out := jsonReport{
		ID:         report.ID,
		Version:    report.Version,
		Target:     report.Target,
		Oracle:     report.Oracle,
		Workers:    report.Workers,
		Status:     report.State.Status,
		Reason:     report.State.Reason,
		Attempted:  report.State.Attempted,
		Skipped:    report.Skipped,
		Errors:     report.State.Errors,
		Retries:    report.State.Retries,
		Total:      report.Total,
		Remaining:  report.Remaining(),
		ElapsedMS:  report.Elapsed.Milliseconds(),
		Rate:       report.Rate,
		StartedAt:  report.State.StartedAt,
		FinishedAt: report.State.FinishedAt,
	}

	if report.Found() {
		if opts.RevealPassword {
			pw := report.State.Password
			out.Password = &pw
			out.UsageHint = opts.UsageHint
		} else {
			out.Redacted = true
		}
	}
	return out
}

// JSONExporter implementa ports.WriterExporter.
type JSONExporter struct{}

// NewJSONExporter crea un exporter JSON.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Name() string {
	return "json"
}

// Export escribe el reporte en opts.OutputDir/<target>/passhunt_<target>_<timestamp>.json.
func (e *JSONExporter) Export(report *domain.SearchReport, opts ports.ExportOptions) error {
	_, err := OutputJSON(opts.OutputDir, report, opts)
	return err
}

// ExportToWriter escribe el reporte en w.
func (e *JSONExporter) ExportToWriter(report *domain.SearchReport, w io.Writer, opts ports.ExportOptions) error {
	enc := json.NewEncoder(w)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(toJSONReport(report, opts)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// OutputJSON exporta el reporte a disco y retorna la ruta del archivo creado.
func OutputJSON(dir string, report *domain.SearchReport, opts ports.ExportOptions) (string, error) {
	if dir == "" {
		dir = "."
	}

	name := sanitizeName(report.Target.Name())
	fullDir := filepath.Join(dir, name)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(fullDir, fmt.Sprintf("passhunt_%s_%s.json", name, timestamp))

	// 0600: el archivo puede contener el password en claro
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	opts.Pretty = true
	if err := NewJSONExporter().ExportToWriter(report, f, opts); err != nil {
		return "", err
	}
	return path, nil
}

var _ ports.WriterExporter = (*JSONExporter)(nil)
