package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

func (mt *MagicTimer) setupSystemTray() {
	desk, ok := mt.app.(desktop.App)
	if !ok {
		return
	}

	menu := fyne.NewMenu("MagicTimer",
		fyne.NewMenuItem("Show Timer", func() {
			mt.mainWindow.BringToFront()
		}),
		fyne.NewMenuItem("Start / Stop", func() {
			mt.mainWindow.StartStop(time.Now())
		}),
		fyne.NewMenuItem("Confirm Reminder", func() {
			mt.acknowledge()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings", func() {
			mt.showSettingsWindow()
		}),
		fyne.NewMenuItem("Quit", func() {
			mt.quit()
		}),
	)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}
