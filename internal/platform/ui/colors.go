// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta
var (
	Steel     = pterm.NewRGB(0, 206, 209)
	Amber     = pterm.NewRGB(255, 182, 39)
	Signal    = pterm.NewRGB(215, 38, 56)
	Ash       = pterm.NewRGB(110, 110, 110)
	SmokeText = pterm.NewRGB(232, 232, 232)
)

// Estilos preconfigurados para diferentes contextos
var (
	StylePrimary   = Steel.ToRGBStyle()
	StyleWarning   = Amber.ToRGBStyle()
	StyleError     = Signal.ToRGBStyle()
	StyleSecondary = Ash.ToRGBStyle()
	StyleText      = SmokeText.ToRGBStyle()
)
