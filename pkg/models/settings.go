package models

import (
	"fmt"
	"image/color"
	"strings"
)

// DefaultTimerFont is used when no timer font has been chosen
const DefaultTimerFont = "Consolas"

// Settings holds the persisted user preferences
type Settings struct {
	SoundFilePath   string `json:"sound_file_path,omitempty"`
	LastDuration    string `json:"last_duration,omitempty"`     // MM:SS text of the last started countdown
	TimerFontFamily string `json:"timer_font_family,omitempty"` // path to a TTF/OTF font, empty for the theme font
	EnableReminders bool   `json:"enable_reminders"`
	AutoStart       bool   `json:"auto_start"`

	BackgroundColor       string `json:"background_color"`
	TimerBackgroundColor  string `json:"timer_background_color"`
	TimerForegroundColor  string `json:"timer_foreground_color"`
	ProgressBarColor      string `json:"progress_bar_color"`
	StartButtonColor      string `json:"start_button_color"`
	StopButtonColor       string `json:"stop_button_color"`
	BlinkColor            string `json:"blink_color"`
	ButtonBackgroundColor string `json:"button_background_color"`
	TextColor             string `json:"text_color"`
	InputBackgroundColor  string `json:"input_background_color"`
	BannerBackgroundColor string `json:"banner_background_color"`
}

// DefaultSettings returns the settings used on first run or when the
// settings file cannot be read
func DefaultSettings() Settings {
	return Settings{
		EnableReminders: true,

		BackgroundColor:       "#0B0E14",
		TimerBackgroundColor:  "#0F172A",
		TimerForegroundColor:  "#E6EDF3",
		ProgressBarColor:      "#58A6FF",
		StartButtonColor:      "#2EA043",
		StopButtonColor:       "#D73A49",
		BlinkColor:            "#7F1D1D",
		ButtonBackgroundColor: "#30363D",
		TextColor:             "#E6EDF3",
		InputBackgroundColor:  "#111827",
		BannerBackgroundColor: "#7F1D1D",
	}
}

// WithDefaults fills empty color fields from DefaultSettings. Booleans are
// left as loaded.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&s.BackgroundColor, d.BackgroundColor)
	fill(&s.TimerBackgroundColor, d.TimerBackgroundColor)
	fill(&s.TimerForegroundColor, d.TimerForegroundColor)
	fill(&s.ProgressBarColor, d.ProgressBarColor)
	fill(&s.StartButtonColor, d.StartButtonColor)
	fill(&s.StopButtonColor, d.StopButtonColor)
	fill(&s.BlinkColor, d.BlinkColor)
	fill(&s.ButtonBackgroundColor, d.ButtonBackgroundColor)
	fill(&s.TextColor, d.TextColor)
	fill(&s.InputBackgroundColor, d.InputBackgroundColor)
	fill(&s.BannerBackgroundColor, d.BannerBackgroundColor)
	return s
}

// ParseColor parses "#RRGGBB" or "#AARRGGBB". The fallback is parsed the same
// way when text is empty or malformed, and opaque black is returned if both
// fail.
func ParseColor(text, fallback string) color.NRGBA {
	if c, err := parseHexColor(text); err == nil {
		return c
	}
	if c, err := parseHexColor(fallback); err == nil {
		return c
	}
	return color.NRGBA{A: 0xff}
}

func parseHexColor(text string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(text), "#")

	var a, r, g, b uint8
	switch len(s) {
	case 6:
		a = 0xff
		if _, err := fmt.Sscanf(s, "%2x%2x%2x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", text, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%2x%2x%2x%2x", &a, &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", text, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", text)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// FormatColor renders c as "#RRGGBB", or "#AARRGGBB" when it is not opaque
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.A, n.R, n.G, n.B)
}
