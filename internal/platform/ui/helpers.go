// internal/platform/ui/helpers.go
package ui

import (
	"fmt"
	"time"

	"passhunt/internal/core/ports"
)

// formatDuration formatea una duración de manera legible
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

// formatProgress resume una muestra en una línea: "1200/5000 (24.0%) 85.3/s eta 44s".
func formatProgress(s ports.ProgressSample) string {
	var out string
	if pct := s.Percent(); pct >= 0 {
		out = fmt.Sprintf("%d/%d (%.1f%%)", s.Attempted, s.Total, pct)
	} else {
		out = fmt.Sprintf("%d tried", s.Attempted)
	}
	out += fmt.Sprintf(" %.1f/s", s.Rate)
	if eta := estimateETA(s); eta > 0 {
		out += " eta " + formatDuration(eta)
	}
	if s.Errors > 0 {
		out += fmt.Sprintf(" errors=%d", s.Errors)
	}
	return out
}

// estimateETA tiempo restante a la tasa actual; 0 si no se puede estimar.
func estimateETA(s ports.ProgressSample) time.Duration {
	if s.Remaining <= 0 || s.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(s.Remaining) / s.Rate * float64(time.Second))
}

// maskPassword oculta el password salvo que se pida mostrarlo.
func maskPassword(password string, reveal bool) string {
	switch {
	case !reveal:
		return "********"
	case password == "":
		return "(empty)"
	default:
		return password
	}
}
