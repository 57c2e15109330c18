package main

import (
	"image/color"
	"os/exec"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/borgmon/magic-timer/pkg/models"
	"github.com/borgmon/magic-timer/pkg/platform"
)

// colorField names one editable color of the settings
type colorField struct {
	label string
	field func(*models.Settings) *string
}

var colorFields = []colorField{
	{"Window background", func(s *models.Settings) *string { return &s.BackgroundColor }},
	{"Timer background", func(s *models.Settings) *string { return &s.TimerBackgroundColor }},
	{"Timer text", func(s *models.Settings) *string { return &s.TimerForegroundColor }},
	{"Progress bar", func(s *models.Settings) *string { return &s.ProgressBarColor }},
	{"Start button", func(s *models.Settings) *string { return &s.StartButtonColor }},
	{"Stop button", func(s *models.Settings) *string { return &s.StopButtonColor }},
	{"Blink (alarm)", func(s *models.Settings) *string { return &s.BlinkColor }},
	{"Buttons", func(s *models.Settings) *string { return &s.ButtonBackgroundColor }},
	{"Text", func(s *models.Settings) *string { return &s.TextColor }},
	{"Input background", func(s *models.Settings) *string { return &s.InputBackgroundColor }},
	{"Banner background", func(s *models.Settings) *string { return &s.BannerBackgroundColor }},
}

// applyEditable copies the fields this window edits from src to dst
func applyEditable(dst *models.Settings, src models.Settings) {
	dst.AutoStart = src.AutoStart
	dst.TimerFontFamily = src.TimerFontFamily
	for _, f := range colorFields {
		*f.field(dst) = *f.field(&src)
	}
}

type SettingsWindow struct {
	window       fyne.Window
	app          fyne.App
	settings     models.Settings // last saved
	draft        models.Settings
	settingsPath string
	onSave       func(apply func(*models.Settings))

	autoStartCheck *widget.Check
	swatches       []*canvas.Rectangle
	hexLabels      []*widget.Label
	fontLabel      *widget.Label

	// UI state
	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

func NewSettingsWindow(app fyne.App, settings models.Settings, settingsPath string, onSave func(apply func(*models.Settings))) *SettingsWindow {
	sw := &SettingsWindow{
		app:          app,
		settings:     settings,
		draft:        settings,
		settingsPath: settingsPath,
		onSave:       onSave,
	}

	sw.window = app.NewWindow("MagicTimer - Settings")
	sw.buildUI()
	sw.refreshFromDraft()

	return sw
}

func (sw *SettingsWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("General", sw.buildGeneralTab()),
		container.NewTabItem("Appearance", sw.buildAppearanceTab()),
	)

	sw.saveStatusLabel = widget.NewLabel("")
	sw.saveStatusLabel.Importance = widget.SuccessImportance

	sw.saveButton = widget.NewButton("Save", sw.save)
	sw.saveButton.Importance = widget.HighImportance
	sw.saveButton.Disable() // Initially disabled until changes are made

	closeButton := widget.NewButton("Close", func() {
		sw.handleClose()
	})

	buttonRow := container.NewBorder(
		nil,
		nil,
		container.NewHBox(sw.saveButton, sw.saveStatusLabel),
		closeButton,
		container.NewHBox(),
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(buttonRow),
		nil,
		nil,
		tabs,
	)

	sw.window.SetContent(content)
	sw.window.Resize(fyne.NewSize(640, 560))
	sw.window.CenterOnScreen()

	sw.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			sw.handleClose()
		}
	})
	sw.window.SetCloseIntercept(func() {
		sw.handleClose()
	})
}

func (sw *SettingsWindow) buildGeneralTab() fyne.CanvasObject {
	sw.autoStartCheck = widget.NewCheck("Start MagicTimer when you log in", func(checked bool) {
		sw.draft.AutoStart = checked
		sw.markChanged()
	})

	storageRootURI := sw.app.Storage().RootURI().String()

	// Storage root URI display (read-only)
	storageURIEntry := widget.NewEntry()
	storageURIEntry.SetText(storageRootURI)
	storageURIEntry.Disable()

	settingsFileEntry := widget.NewEntry()
	settingsFileEntry.SetText(sw.settingsPath)
	settingsFileEntry.Disable()

	openStorageButton := widget.NewButton("Open in File Manager", func() {
		openInFileManager(sw.app.Storage().RootURI().Path())
	})

	storageHelp := widget.NewLabel("Settings are saved here and reloaded when the file changes")
	storageHelp.Wrapping = fyne.TextWrapWord
	storageHelp.Importance = widget.MediumImportance

	storageContainer := container.NewBorder(
		nil,
		container.NewPadded(openStorageButton),
		nil,
		nil,
		container.NewVBox(storageURIEntry, settingsFileEntry),
	)

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Auto Start:"),
		sw.autoStartCheck,

		container.NewVBox(widget.NewLabel("Storage Location:"), storageHelp),
		storageContainer,

		widget.NewLabel("Acknowledge Hotkey:"),
		widget.NewLabel("Ctrl+Shift+A"),
	)

	content := container.NewVBox(
		widget.NewLabel("General Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (sw *SettingsWindow) buildAppearanceTab() fyne.CanvasObject {
	form := container.New(layout.NewFormLayout())

	for i, f := range colorFields {
		swatch := canvas.NewRectangle(color.Transparent)
		swatch.SetMinSize(fyne.NewSize(48, 24))
		swatch.StrokeColor = theme.Color(theme.ColorNameForeground)
		swatch.StrokeWidth = 1
		hex := widget.NewLabel("")

		changeButton := widget.NewButton("Change...", func() {
			current := models.ParseColor(*f.field(&sw.draft), *f.field(&sw.settings))
			showColorPicker(sw.window, f.label, current, func(c color.Color) {
				*f.field(&sw.draft) = models.FormatColor(c)
				sw.refreshColor(i)
				sw.markChanged()
			})
		})

		sw.swatches = append(sw.swatches, swatch)
		sw.hexLabels = append(sw.hexLabels, hex)
		form.Add(widget.NewLabel(f.label + ":"))
		form.Add(container.NewHBox(swatch, hex, layout.NewSpacer(), changeButton))
	}

	resetColorsButton := widget.NewButton("Reset Colors", func() {
		defaults := models.DefaultSettings()
		for _, f := range colorFields {
			*f.field(&sw.draft) = *f.field(&defaults)
		}
		sw.refreshFromDraft()
		sw.markChanged()
	})

	sw.fontLabel = widget.NewLabel("")
	sw.fontLabel.Truncation = fyne.TextTruncateEllipsis
	chooseFontButton := widget.NewButton("Choose Font...", func() {
		showFontChooser(sw.window, func(path string) {
			sw.draft.TimerFontFamily = path
			sw.refreshFromDraft()
			sw.markChanged()
		})
	})
	defaultFontButton := widget.NewButton("Use Default", func() {
		sw.draft.TimerFontFamily = ""
		sw.refreshFromDraft()
		sw.markChanged()
	})

	fontRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(chooseFontButton, defaultFontButton),
		sw.fontLabel,
	)

	content := container.NewVBox(
		widget.NewLabel("Colors"),
		widget.NewSeparator(),
		form,
		container.NewHBox(layout.NewSpacer(), resetColorsButton),
		widget.NewLabel("Timer Font"),
		widget.NewSeparator(),
		fontRow,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (sw *SettingsWindow) refreshColor(i int) {
	text := *colorFields[i].field(&sw.draft)
	sw.swatches[i].FillColor = models.ParseColor(text, *colorFields[i].field(&sw.settings))
	sw.swatches[i].Refresh()
	sw.hexLabels[i].SetText(text)
}

// refreshFromDraft shows the draft in every widget
func (sw *SettingsWindow) refreshFromDraft() {
	sw.autoStartCheck.Checked = sw.draft.AutoStart
	sw.autoStartCheck.Refresh()
	for i := range colorFields {
		sw.refreshColor(i)
	}
	if sw.draft.TimerFontFamily == "" {
		sw.fontLabel.SetText(models.DefaultTimerFont + " (default)")
	} else {
		sw.fontLabel.SetText(sw.draft.TimerFontFamily)
	}
}

// Reload adopts settings changed elsewhere. Unsaved edits are kept.
func (sw *SettingsWindow) Reload(settings models.Settings) {
	sw.settings = settings
	if sw.hasUnsavedChanges {
		return
	}
	sw.draft = settings
	sw.refreshFromDraft()
}

func (sw *SettingsWindow) save() {
	sw.saveButton.Disable()
	sw.saveStatusLabel.SetText("Saving...")
	sw.saveStatusLabel.Importance = widget.MediumImportance
	sw.saveStatusLabel.Refresh()

	draft := sw.draft
	go func() {
		// Handle autostart setting
		if err := platform.SetupAutostart(draft.AutoStart); err != nil {
			log.Error().Err(err).Msg("error setting autostart")
			fyne.Do(func() {
				sw.saveStatusLabel.SetText("Error: Failed to set autostart")
				sw.saveStatusLabel.Importance = widget.DangerImportance
				sw.saveStatusLabel.Refresh()
				sw.updateSaveButtonState()
			})
			return
		}

		fyne.Do(func() {
			if sw.onSave != nil {
				sw.onSave(func(s *models.Settings) {
					applyEditable(s, draft)
				})
			}
			applyEditable(&sw.settings, draft)

			sw.hasUnsavedChanges = false
			sw.saveStatusLabel.SetText("Settings saved")
			sw.saveStatusLabel.Importance = widget.SuccessImportance
			sw.saveStatusLabel.Refresh()
			sw.updateSaveButtonState()

			// Clear success message after 3 seconds
			go func() {
				time.Sleep(3 * time.Second)
				fyne.Do(func() {
					if sw.saveStatusLabel.Text == "Settings saved" {
						sw.saveStatusLabel.SetText("")
					}
				})
			}()
		})
	}()
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
}

// markChanged marks the settings as having unsaved changes
func (sw *SettingsWindow) markChanged() {
	sw.hasUnsavedChanges = true
	sw.updateSaveButtonState()
}

func (sw *SettingsWindow) updateSaveButtonState() {
	if sw.saveButton == nil {
		return
	}
	if sw.hasUnsavedChanges {
		sw.saveButton.Enable()
	} else {
		sw.saveButton.Disable()
	}
}

// hasActualChanges reports whether the draft differs from the saved settings
func (sw *SettingsWindow) hasActualChanges() bool {
	saved := sw.settings
	applyEditable(&saved, sw.draft)
	return saved != sw.settings
}

// handleClose asks before discarding unsaved changes
func (sw *SettingsWindow) handleClose() {
	if !sw.hasActualChanges() {
		sw.window.Close()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"You have unsaved changes. Are you sure you want to close?",
		func(confirmed bool) {
			if confirmed {
				sw.window.Close()
			}
		}, sw.window)
}

func openInFileManager(path string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		log.Warn().Str("os", runtime.GOOS).Msg("unsupported OS for file manager")
		return
	}

	if err := cmd.Start(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("error opening file manager")
	}
}
