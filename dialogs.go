package main

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/borgmon/magic-timer/pkg/audio"
	"github.com/borgmon/magic-timer/pkg/countdown"
	"github.com/borgmon/magic-timer/pkg/log"
)

var (
	soundExtensions = []string{".wav", ".mp3"}
	fontExtensions  = []string{".ttf", ".otf"}
)

// durationErrorMessage turns a rejected duration into a message for the user
func durationErrorMessage(err error) string {
	var formatErr *countdown.FormatError
	var durationErr *countdown.InvalidDurationError
	switch {
	case errors.As(err, &formatErr):
		return "Enter the time as MM:SS, for example 05:00."
	case errors.As(err, &durationErr):
		return fmt.Sprintf("The shortest countdown is %s.", countdown.FormatDuration(durationErr.Minimum))
	}
	return err.Error()
}

func showDurationError(win fyne.Window, err error) {
	dialog.ShowInformation("Invalid Duration", durationErrorMessage(err), win)
}

// showFileChooser opens a file dialog limited to extensions and passes the
// chosen local path to onChosen
func showFileChooser(win fyne.Window, extensions []string, onChosen func(path string)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if reader == nil {
			return // cancelled
		}
		path := reader.URI().Path()
		if err := reader.Close(); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("failed to close chosen file")
		}
		onChosen(path)
	}, win)
	d.SetFilter(storage.NewExtensionFileFilter(extensions))
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

func showSoundChooser(win fyne.Window, onChosen func(path string)) {
	showFileChooser(win, soundExtensions, func(path string) {
		if !audio.Supported(path) {
			dialog.ShowError(fmt.Errorf("%s: %w", filepath.Base(path), audio.ErrUnsupportedFormat), win)
			return
		}
		onChosen(path)
	})
}

func showFontChooser(win fyne.Window, onChosen func(path string)) {
	showFileChooser(win, fontExtensions, onChosen)
}

func showColorPicker(win fyne.Window, title string, current color.Color, onPicked func(color.Color)) {
	picker := dialog.NewColorPicker(title, "", onPicked, win)
	picker.Advanced = true
	picker.SetColor(current)
	picker.Show()
}
