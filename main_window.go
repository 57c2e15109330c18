package main

import (
	"image/color"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/magic-timer/pkg/controller"
	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/borgmon/magic-timer/pkg/models"
	"github.com/borgmon/magic-timer/pkg/platform"
	"github.com/borgmon/magic-timer/pkg/ui/components"
)

type MainWindow struct {
	window     fyne.Window
	app        fyne.App
	controller *controller.Controller
	onQuit     func()
	onSettings func()

	durationEntry   *widget.Entry
	startStopButton *widget.Button
	startStopBg     *canvas.Rectangle
	display         *components.TimerDisplay
	banner          *components.Banner
	remindersCheck  *widget.Check
	soundLabel      *widget.Label

	startColor color.Color
	stopColor  color.Color
}

func NewMainWindow(app fyne.App, c *controller.Controller, onQuit, onSettings func()) *MainWindow {
	mw := &MainWindow{
		app:        app,
		controller: c,
		onQuit:     onQuit,
		onSettings: onSettings,
	}

	mw.window = app.NewWindow("MagicTimer")
	mw.buildUI()
	mw.ApplySettings(c.Settings())
	mw.Render(c.View(), time.Now())

	mw.window.SetCloseIntercept(mw.handleClose)

	return mw
}

func (mw *MainWindow) buildUI() {
	settings := mw.controller.Settings()

	var bannerBox *fyne.Container
	mw.banner, bannerBox = components.NewBanner(components.BannerConfig{
		Message:     "Time is up!",
		ConfirmText: "Confirm",
		OnConfirm: func() {
			mw.Render(mw.controller.Acknowledge(), time.Now())
		},
	})

	mw.durationEntry = widget.NewEntry()
	mw.durationEntry.SetPlaceHolder("MM:SS")
	mw.durationEntry.SetText(mw.controller.Input())
	mw.durationEntry.OnChanged = func(text string) {
		mw.Render(mw.controller.SetInput(text), time.Now())
	}
	mw.durationEntry.OnSubmitted = func(string) {
		mw.StartStop(time.Now())
	}

	mw.startStopButton = widget.NewButton("Start", func() {
		mw.StartStop(time.Now())
	})
	mw.startStopButton.Importance = widget.LowImportance
	mw.startStopBg = canvas.NewRectangle(color.Transparent)
	mw.startStopBg.CornerRadius = theme.InputRadiusSize()

	mw.display = components.NewTimerDisplay(mw.controller.View().Text, components.TimerColorsFrom(settings))

	mw.remindersCheck = widget.NewCheck("Reminders", func(checked bool) {
		mw.Render(mw.controller.SetRemindersEnabled(checked), time.Now())
	})
	mw.remindersCheck.SetChecked(settings.EnableReminders)

	mw.soundLabel = widget.NewLabel("")
	mw.soundLabel.Truncation = fyne.TextTruncateEllipsis
	chooseSoundButton := widget.NewButtonWithIcon("Sound...", theme.MediaMusicIcon(), func() {
		showSoundChooser(mw.window, func(path string) {
			mw.controller.SetSoundPath(path)
			mw.ApplySettings(mw.controller.Settings())
		})
	})

	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if mw.onSettings != nil {
			mw.onSettings()
		}
	})

	inputRow := container.NewBorder(nil, nil,
		widget.NewLabel("Duration:"),
		container.NewHBox(container.NewStack(mw.startStopBg, mw.startStopButton), settingsButton),
		mw.durationEntry,
	)

	soundRow := container.NewBorder(nil, nil,
		mw.remindersCheck,
		chooseSoundButton,
		mw.soundLabel,
	)

	content := container.NewBorder(
		container.NewVBox(bannerBox, inputRow),
		soundRow,
		nil,
		nil,
		mw.display,
	)

	mw.window.SetContent(container.NewPadded(content))
	mw.window.Resize(fyne.NewSize(520, 320))
	mw.window.CenterOnScreen()
}

// StartStop toggles the countdown, reporting a bad duration in a dialog
func (mw *MainWindow) StartStop(now time.Time) {
	view, err := mw.controller.StartStop(now)
	if err != nil {
		showDurationError(mw.window, err)
	}
	mw.Render(view, now)
}

// Render shows view in the window
func (mw *MainWindow) Render(view controller.View, now time.Time) {
	mw.display.SetState(view.Text, view.Progress/100)
	mw.display.SetBlinking(view.Running && view.Warning, now)

	if view.Running {
		mw.setStartStop("Stop", mw.stopColor)
	} else {
		mw.setStartStop("Start", mw.startColor)
	}

	if view.BannerVisible {
		mw.banner.Show(view.FiredCount)
	} else {
		mw.banner.Hide()
	}
}

func (mw *MainWindow) setStartStop(text string, bg color.Color) {
	if mw.startStopButton.Text != text {
		mw.startStopButton.SetText(text)
	}
	if mw.startStopBg.FillColor != bg {
		mw.startStopBg.FillColor = bg
		mw.startStopBg.Refresh()
	}
}

// ApplySettings updates colors, the reminders toggle and the sound label
func (mw *MainWindow) ApplySettings(settings models.Settings) {
	d := models.DefaultSettings()
	mw.startColor = models.ParseColor(settings.StartButtonColor, d.StartButtonColor)
	mw.stopColor = models.ParseColor(settings.StopButtonColor, d.StopButtonColor)
	mw.display.SetColors(components.TimerColorsFrom(settings))
	mw.banner.SetBackground(models.ParseColor(settings.BannerBackgroundColor, d.BannerBackgroundColor))

	if mw.remindersCheck.Checked != settings.EnableReminders {
		mw.remindersCheck.SetChecked(settings.EnableReminders)
	}
	mw.soundLabel.SetText(soundLabelText(settings.SoundFilePath))

	// Force the button color to be recomputed on the next render
	mw.startStopBg.FillColor = nil
}

func soundLabelText(path string) string {
	if path == "" {
		return "No sound selected"
	}
	return filepath.Base(path)
}

// BringToFront shows the window and raises it above other applications
func (mw *MainWindow) BringToFront() {
	mw.window.Show()
	mw.window.RequestFocus()
	platform.BringToFront()
}

func (mw *MainWindow) Show() {
	mw.window.Show()
}

// handleClose hides to the tray where there is one and quits otherwise
func (mw *MainWindow) handleClose() {
	if _, ok := mw.app.(desktop.App); ok {
		log.Debug().Msg("main window hidden to tray")
		mw.window.Hide()
		return
	}
	if mw.onQuit != nil {
		mw.onQuit()
	}
}
