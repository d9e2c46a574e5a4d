// internal/platform/ui/symbols.go
package ui

import (
	"github.com/pterm/pterm"

	"passhunt/internal/core/domain"
)

// statusSymbol retorna el símbolo Unicode para cada estado
func statusSymbol(s domain.Status) string {
	switch s {
	case domain.StatusRunning:
		return "⣾"
	case domain.StatusFound:
		return "✓"
	case domain.StatusExhausted:
		return "⊘"
	case domain.StatusAborted:
		return "✗"
	default:
		return "?"
	}
}

// statusStyle retorna el estilo pterm para cada estado
func statusStyle(s domain.Status) *pterm.Style {
	switch s {
	case domain.StatusRunning:
		return pterm.NewStyle(pterm.FgCyan)
	case domain.StatusFound:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case domain.StatusExhausted:
		return pterm.NewStyle(pterm.FgYellow)
	case domain.StatusAborted:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// Icons globales para diferentes elementos de la UI
var (
	IconTarget  = "🎯"
	IconOracle  = "🔑"
	IconWorkers = "⚙️"
	IconTime    = "⏱"
	IconStats   = "📊"
)

// Separadores
var (
	SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	SeparatorLight = "────────────────────────────────────────────"
)
