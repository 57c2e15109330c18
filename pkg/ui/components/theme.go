package components

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/borgmon/magic-timer/pkg/models"
)

// Theme applies the user's colors and timer font on top of the default
// theme
type Theme struct {
	settings  models.Settings
	timerFont fyne.Resource
}

var _ fyne.Theme = (*Theme)(nil)

// NewTheme builds a theme from settings. An unreadable font file is logged
// and the default monospace font is used instead.
func NewTheme(settings models.Settings) *Theme {
	t := &Theme{settings: settings.WithDefaults()}

	if path := strings.TrimSpace(settings.TimerFontFamily); path != "" {
		res, err := fyne.LoadResourceFromPath(path)
		if err != nil {
			log.Warn().Err(err).Str("font", path).Msg("failed to load timer font")
		} else {
			t.timerFont = res
		}
	}
	return t
}

// Color implements fyne.Theme
func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	s := t.settings
	d := models.DefaultSettings()
	switch name {
	case theme.ColorNameBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		return models.ParseColor(s.BackgroundColor, d.BackgroundColor)
	case theme.ColorNameForeground:
		return models.ParseColor(s.TextColor, d.TextColor)
	case theme.ColorNameButton:
		return models.ParseColor(s.ButtonBackgroundColor, d.ButtonBackgroundColor)
	case theme.ColorNameInputBackground:
		return models.ParseColor(s.InputBackgroundColor, d.InputBackgroundColor)
	case theme.ColorNamePrimary:
		return models.ParseColor(s.ProgressBarColor, d.ProgressBarColor)
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

// Font implements fyne.Theme. The timer readout uses the monospace style, so
// a custom timer font replaces only that.
func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	if style.Monospace && t.timerFont != nil {
		return t.timerFont
	}
	return theme.DefaultTheme().Font(style)
}

// Icon implements fyne.Theme
func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size implements fyne.Theme
func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

// TimerColorsFrom returns the timer face colors from settings
func TimerColorsFrom(settings models.Settings) TimerColors {
	d := models.DefaultSettings()
	return TimerColors{
		Background: models.ParseColor(settings.TimerBackgroundColor, d.TimerBackgroundColor),
		Foreground: models.ParseColor(settings.TimerForegroundColor, d.TimerForegroundColor),
		Progress:   models.ParseColor(settings.ProgressBarColor, d.ProgressBarColor),
		Blink:      models.ParseColor(settings.BlinkColor, d.BlinkColor),
	}
}
