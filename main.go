package main

import (
	"context"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/borgmon/magic-timer/pkg/audio"
	"github.com/borgmon/magic-timer/pkg/config"
	"github.com/borgmon/magic-timer/pkg/controller"
	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/borgmon/magic-timer/pkg/models"
	"github.com/borgmon/magic-timer/pkg/platform"
	"github.com/borgmon/magic-timer/pkg/store"
	"github.com/borgmon/magic-timer/pkg/ui/components"
	"golang.design/x/hotkey"
)

const (
	appID        = "com.borgmon.magictimer"
	tickInterval = 200 * time.Millisecond
)

type MagicTimer struct {
	app            fyne.App
	cfg            *config.Config
	store          *store.SettingsStore
	player         *audio.Player
	controller     *controller.Controller
	mainWindow     *MainWindow
	settingsWindow *SettingsWindow
	tickTicker     *time.Ticker
	ackHotkey      *hotkey.Hotkey
	cancelWatch    context.CancelFunc
}

func main() {
	mt := &MagicTimer{
		app:    app.NewWithID(appID),
		cfg:    config.Load(),
		player: audio.NewPlayer(),
	}
	log.Init(mt.cfg)

	if err := mt.initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	mt.run()
}

func (mt *MagicTimer) initialize() error {
	mt.store = store.NewSettingsStore(mt.settingsPath())
	settings, err := mt.store.Load()
	if err != nil {
		log.Warn().Err(err).Str("path", mt.store.Path()).Msg("using default settings")
	}
	log.Info().Str("path", mt.store.Path()).Msg("settings loaded")

	// Sync autostart state with settings on startup
	if err := platform.SetupAutostart(settings.AutoStart); err != nil {
		log.Warn().Err(err).Msg("failed to setup autostart")
	}

	mt.controller = controller.New(settings, mt.store, mt.player, controller.Options{})
	mt.controller.OnCompleted = mt.onCompleted

	mt.app.Settings().SetTheme(components.NewTheme(settings))
	mt.mainWindow = NewMainWindow(mt.app, mt.controller, mt.quit, mt.showSettingsWindow)

	mt.setupSystemTray()
	mt.startTicker()
	mt.watchSettings()
	if mt.cfg.Hotkey {
		mt.registerAcknowledgeHotkey()
	}

	return nil
}

func (mt *MagicTimer) settingsPath() string {
	if mt.cfg.SettingsPath != "" {
		return mt.cfg.SettingsPath
	}
	return filepath.Join(mt.app.Storage().RootURI().Path(), store.SettingsFileName)
}

func (mt *MagicTimer) run() {
	mt.mainWindow.Show()
	mt.app.Run()
}

// startTicker drives the countdown and reminder timers from the UI thread
func (mt *MagicTimer) startTicker() {
	mt.tickTicker = time.NewTicker(tickInterval)
	go func() {
		for range mt.tickTicker.C {
			fyne.Do(func() {
				now := time.Now()
				mt.mainWindow.Render(mt.controller.Tick(now), now)
			})
		}
	}()
}

func (mt *MagicTimer) onCompleted(view controller.View) {
	if !mt.controller.Settings().EnableReminders {
		return
	}
	mt.mainWindow.BringToFront()
}

// watchSettings picks up edits made to the settings file while running
func (mt *MagicTimer) watchSettings() {
	ctx, cancel := context.WithCancel(context.Background())
	mt.cancelWatch = cancel

	err := mt.store.Watch(ctx, store.DefaultWatchDelay, func(settings models.Settings) {
		fyne.Do(func() {
			mt.applySettings(mt.controller.ApplyExternalSettings(settings), settings)
		})
	})
	if err != nil {
		log.Warn().Err(err).Msg("settings file will not be watched")
	}
}

// applySettings pushes settings into every open window
func (mt *MagicTimer) applySettings(view controller.View, settings models.Settings) {
	mt.app.Settings().SetTheme(components.NewTheme(settings))
	mt.mainWindow.ApplySettings(settings)
	mt.mainWindow.Render(view, time.Now())
	if mt.settingsWindow != nil {
		mt.settingsWindow.Reload(settings)
	}
}

func (mt *MagicTimer) showSettingsWindow() {
	// If settings window already exists, just bring it to front
	if mt.settingsWindow != nil {
		mt.settingsWindow.window.RequestFocus()
		mt.settingsWindow.Show()
		return
	}

	mt.settingsWindow = NewSettingsWindow(mt.app, mt.controller.Settings(), mt.store.Path(), func(apply func(*models.Settings)) {
		mt.controller.UpdateSettings(apply)
		mt.applySettings(mt.controller.View(), mt.controller.Settings())
	})
	mt.settingsWindow.window.SetOnClosed(func() {
		mt.settingsWindow = nil
	})
	mt.settingsWindow.Show()
}

func (mt *MagicTimer) acknowledge() {
	mt.mainWindow.Render(mt.controller.Acknowledge(), time.Now())
}

func (mt *MagicTimer) quit() {
	if mt.tickTicker != nil {
		mt.tickTicker.Stop()
	}
	if mt.cancelWatch != nil {
		mt.cancelWatch()
	}
	if mt.ackHotkey != nil {
		if err := mt.ackHotkey.Unregister(); err != nil {
			log.Debug().Err(err).Msg("failed to unregister hotkey")
		}
	}
	mt.controller.Close()
	log.Info().Msg("quitting")
	mt.app.Quit()
}
