package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme is the dark application theme with a blue accent.
type Theme struct{}

var _ fyne.Theme = (*Theme)(nil)

// Status colors used by the status bar.
var (
	ColorBusy    = color.NRGBA{R: 0xFB, G: 0x92, B: 0x3C, A: 0xFF}
	ColorSuccess = color.NRGBA{R: 0x4A, G: 0xDE, B: 0x80, A: 0xFF}
	ColorInfo    = color.NRGBA{R: 0x60, G: 0xA5, B: 0xFA, A: 0xFF}
	ColorError   = color.NRGBA{R: 0xF8, G: 0x71, B: 0x71, A: 0xFF}
)

// LevelColor maps a status level to its status bar color.
func LevelColor(l Level) color.Color {
	switch l {
	case LevelBusy, LevelWarning:
		return ColorBusy
	case LevelSuccess:
		return ColorSuccess
	case LevelError:
		return ColorError
	default:
		return ColorInfo
	}
}

func (t *Theme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0x60}
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameScrollBarSmall:
		return 8
	default:
		return theme.DefaultTheme().Size(name)
	}
}
