package main

import (
	"fyne.io/fyne/v2"
	"github.com/borgmon/magic-timer/pkg/log"
	"golang.design/x/hotkey"
)

// registerAcknowledgeHotkey lets Ctrl+Shift+A dismiss the reminder banner
// from any application
func (mt *MagicTimer) registerAcknowledgeHotkey() {
	go func() {
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyA)
		if err := hk.Register(); err != nil {
			log.Warn().Err(err).Msg("failed to register acknowledge hotkey")
			return
		}
		mt.ackHotkey = hk
		log.Debug().Msg("acknowledge hotkey registered")

		for range hk.Keydown() {
			fyne.Do(mt.acknowledge)
		}
	}()
}
