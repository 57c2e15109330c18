package components

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// BannerConfig configures the reminder banner
type BannerConfig struct {
	Message     string // shown above the alert counter
	ConfirmText string
	Background  color.Color
	OnConfirm   func()
}

// Banner is the "time is up" strip with a confirm button
type Banner struct {
	bg        *canvas.Rectangle
	message   *canvas.Text
	counter   *widget.Label
	confirm   *widget.Button
	container *fyne.Container
	onConfirm func()
}

// NewBanner creates a hidden banner and the container to place in a layout
func NewBanner(config BannerConfig) (*Banner, *fyne.Container) {
	b := &Banner{onConfirm: config.OnConfirm}
	if config.ConfirmText == "" {
		config.ConfirmText = "Confirm"
	}

	b.bg = canvas.NewRectangle(config.Background)

	b.message = canvas.NewText(config.Message, color.White)
	b.message.TextStyle = fyne.TextStyle{Bold: true}
	b.message.TextSize = theme.Size(theme.SizeNameText) * 1.5

	b.counter = widget.NewLabel("")

	b.confirm = widget.NewButtonWithIcon(config.ConfirmText, theme.ConfirmIcon(), func() {
		if b.onConfirm != nil {
			b.onConfirm()
		}
	})
	b.confirm.Importance = widget.HighImportance

	content := container.NewBorder(nil, nil,
		container.NewVBox(b.message, b.counter),
		container.NewCenter(b.confirm),
	)
	b.container = container.NewStack(b.bg, container.NewPadded(content))
	b.container.Hide()

	return b, b.container
}

// Show makes the banner visible and reports how many alerts have sounded
func (b *Banner) Show(firedCount int) {
	switch firedCount {
	case 0:
		b.counter.SetText("")
	case 1:
		b.counter.SetText("1 alert")
	default:
		b.counter.SetText(fmt.Sprintf("%d alerts", firedCount))
	}
	if !b.container.Visible() {
		b.container.Show()
	}
}

// Hide removes the banner from view
func (b *Banner) Hide() {
	if b.container.Visible() {
		b.container.Hide()
	}
}

// Visible reports whether the banner is showing
func (b *Banner) Visible() bool {
	return b.container.Visible()
}

// Counter returns the alert counter text
func (b *Banner) Counter() string {
	return b.counter.Text
}

// ConfirmButton returns the button that acknowledges the reminder
func (b *Banner) ConfirmButton() *widget.Button {
	return b.confirm
}

// SetBackground changes the banner color
func (b *Banner) SetBackground(c color.Color) {
	b.bg.FillColor = c
	b.bg.Refresh()
}

// SetMessage changes the headline text
func (b *Banner) SetMessage(message string) {
	b.message.Text = message
	b.message.Refresh()
}
