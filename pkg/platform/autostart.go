package platform

import (
	"os"
	"path/filepath"

	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/emersion/go-autostart"
)

const (
	AppName        = "magic-timer"
	AppDisplayName = "MagicTimer"
)

// Launcher is the part of autostart.App used to toggle login startup
type Launcher interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// NewLauncher returns the login-startup entry for the running executable
func NewLauncher() (*autostart.App, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	return &autostart.App{
		Name:        AppName,
		DisplayName: AppDisplayName,
		Exec:        []string{execPath},
	}, nil
}

// SetupAutostart registers or removes the app from login startup
func SetupAutostart(enable bool) error {
	app, err := NewLauncher()
	if err != nil {
		return err
	}
	return SetAutostart(app, enable)
}

// SetAutostart brings l in line with enable. It does nothing when the entry
// is already in the requested state.
func SetAutostart(l Launcher, enable bool) error {
	switch {
	case enable && !l.IsEnabled():
		if err := l.Enable(); err != nil {
			log.Error().Err(err).Msg("failed to enable autostart")
			return err
		}
		log.Info().Msg("autostart enabled")
	case !enable && l.IsEnabled():
		if err := l.Disable(); err != nil {
			log.Error().Err(err).Msg("failed to disable autostart")
			return err
		}
		log.Info().Msg("autostart disabled")
	}
	return nil
}
