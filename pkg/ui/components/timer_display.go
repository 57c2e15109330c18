package components

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// BlinkPeriod is one full normal/blink cycle of the timer face
const BlinkPeriod = time.Second

// TimerColors are the colors of the timer face
type TimerColors struct {
	Background color.Color
	Foreground color.Color
	Progress   color.Color
	Blink      color.Color
}

// TimerDisplay is the large countdown readout with a progress strip along
// its bottom edge
type TimerDisplay struct {
	widget.BaseWidget
	Text     string
	TextSize float32

	colors     TimerColors
	progress   float64 // 0..1
	blinking   bool
	blinkStart time.Time
	blinkOn    bool
}

// NewTimerDisplay creates a timer face showing text
func NewTimerDisplay(text string, colors TimerColors) *TimerDisplay {
	d := &TimerDisplay{
		Text:     text,
		TextSize: 72,
		colors:   colors,
	}
	d.ExtendBaseWidget(d)
	return d
}

// CreateRenderer implements fyne.Widget
func (d *TimerDisplay) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(d.Text, d.colors.Foreground)
	text.Alignment = fyne.TextAlignCenter
	text.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	text.TextSize = d.TextSize

	r := &timerDisplayRenderer{
		display:     d,
		text:        text,
		bg:          canvas.NewRectangle(d.colors.Background),
		progressBar: canvas.NewRectangle(d.colors.Progress),
	}
	r.Refresh()
	return r
}

// SetState updates the readout text and the progress fraction (0..1)
func (d *TimerDisplay) SetState(text string, progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	if d.Text == text && d.progress == progress {
		return
	}
	d.Text = text
	d.progress = progress
	d.Refresh()
}

// Progress returns the progress fraction
func (d *TimerDisplay) Progress() float64 {
	return d.progress
}

// SetColors replaces the face colors
func (d *TimerDisplay) SetColors(colors TimerColors) {
	d.colors = colors
	d.Refresh()
}

// SetBlinking turns the blink on or off at now. While blinking, each call
// moves the face to the phase that now falls in.
func (d *TimerDisplay) SetBlinking(enabled bool, now time.Time) {
	switch {
	case enabled && !d.blinking:
		d.blinking = true
		d.blinkStart = now
	case !enabled && !d.blinking:
		return
	case !enabled:
		d.blinking = false
	}

	on := d.blinking && BlinkOn(now.Sub(d.blinkStart))
	if on != d.blinkOn || !d.blinking {
		d.blinkOn = on
		d.Refresh()
	}
}

// Blinking reports whether the blink is running
func (d *TimerDisplay) Blinking() bool {
	return d.blinking
}

// BlinkOn reports whether the blink color shows elapsed into a blink: the
// normal color for the first half of each period, the blink color for the
// second.
func BlinkOn(elapsed time.Duration) bool {
	if elapsed < 0 {
		return false
	}
	return elapsed%BlinkPeriod >= BlinkPeriod/2
}

func (d *TimerDisplay) background() color.Color {
	if d.blinkOn && d.colors.Blink != nil {
		return d.colors.Blink
	}
	if d.colors.Background != nil {
		return d.colors.Background
	}
	return theme.Color(theme.ColorNameInputBackground)
}

type timerDisplayRenderer struct {
	display     *TimerDisplay
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *timerDisplayRenderer) progressHeight() float32 {
	return theme.Padding() * 2
}

func (r *timerDisplayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(fyne.NewSize(size.Width, size.Height-r.progressHeight()))
	r.layoutProgress(size)
}

func (r *timerDisplayRenderer) layoutProgress(size fyne.Size) {
	h := r.progressHeight()
	r.progressBar.Resize(fyne.NewSize(size.Width*float32(r.display.progress), h))
	r.progressBar.Move(fyne.NewPos(0, size.Height-h))
}

func (r *timerDisplayRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	minWidth := textSize.Width + theme.Padding()*8
	minHeight := textSize.Height + theme.Padding()*4 + r.progressHeight()

	if minWidth < 320 {
		minWidth = 320
	}
	return fyne.NewSize(minWidth, minHeight)
}

func (r *timerDisplayRenderer) Refresh() {
	d := r.display
	r.text.Text = d.Text
	r.text.TextSize = d.TextSize
	r.text.Color = d.colors.Foreground
	if r.text.Color == nil {
		r.text.Color = theme.Color(theme.ColorNameForeground)
	}

	r.bg.FillColor = d.background()
	r.progressBar.FillColor = d.colors.Progress
	if r.progressBar.FillColor == nil {
		r.progressBar.FillColor = theme.Color(theme.ColorNamePrimary)
	}
	r.layoutProgress(r.bg.Size())

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *timerDisplayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *timerDisplayRenderer) Destroy() {}
