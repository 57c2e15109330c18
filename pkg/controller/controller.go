// Package controller is the boundary between the UI and the countdown and
// reminder state machines. All methods must be called from one goroutine
// (the UI thread); nothing here locks.
package controller

import (
	"strings"
	"time"

	"github.com/borgmon/magic-timer/pkg/countdown"
	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/borgmon/magic-timer/pkg/models"
	"github.com/borgmon/magic-timer/pkg/reminder"
)

// Player plays alert sounds. Play errors are logged and otherwise ignored.
type Player interface {
	Play(path string) error
	Stop()
}

// SettingsSaver persists settings. Save errors are logged and otherwise
// ignored.
type SettingsSaver interface {
	Save(settings models.Settings) error
}

// View is everything the UI needs to render the timer
type View struct {
	Text          string
	Progress      float64 // percent
	Running       bool
	Warning       bool
	BannerVisible bool
	FiredCount    int
	CycleID       string
}

// Options configures a Controller. Zero values take package defaults.
type Options struct {
	Minimum        time.Duration
	RepeatInterval time.Duration
	Timeout        time.Duration
	MaxAlerts      int
}

// Controller owns the countdown engine and reminder scheduler for one timer
type Controller struct {
	engine    *countdown.Engine
	reminders *reminder.Scheduler
	settings  models.Settings
	saver     SettingsSaver
	player    Player

	input      string
	evaluating bool

	// OnCompleted, if set, is called after each countdown completion has been
	// forwarded to the reminder scheduler
	OnCompleted func(View)
}

// New creates an idle controller. The duration input starts from
// settings.LastDuration.
func New(settings models.Settings, saver SettingsSaver, player Player, opts Options) *Controller {
	c := &Controller{
		engine:   countdown.NewEngine(opts.Minimum),
		settings: settings,
		saver:    saver,
		player:   player,
		input:    strings.TrimSpace(settings.LastDuration),
	}
	c.reminders = reminder.NewScheduler(reminder.Options{
		RepeatInterval: opts.RepeatInterval,
		Timeout:        opts.Timeout,
		MaxAlerts:      opts.MaxAlerts,
		Enabled:        settings.EnableReminders,
		Alert:          c.playSound,
	})
	c.engine.Preview(c.input)
	return c
}

// Settings returns a copy of the current settings
func (c *Controller) Settings() models.Settings {
	return c.settings
}

// Input returns the current duration text
func (c *Controller) Input() string {
	return c.input
}

// SetInput records the duration text field. While idle the display follows
// the input.
func (c *Controller) SetInput(text string) View {
	c.input = strings.TrimSpace(text)
	c.engine.Preview(c.input)
	return c.View()
}

// StartStop toggles the countdown. Starting validates the input and returns
// *countdown.FormatError or *countdown.InvalidDurationError without changing
// state.
func (c *Controller) StartStop(now time.Time) (View, error) {
	if c.engine.Running() {
		c.engine.Stop(c.input)
		c.reminders.Acknowledge()
		c.player.Stop()
		log.Info().Str("display", c.engine.Display().Text).Msg("countdown stopped")
		return c.View(), nil
	}

	d, err := countdown.ValidateDuration(c.input, c.engine.Minimum())
	if err != nil {
		log.Debug().Err(err).Str("input", c.input).Msg("rejected duration")
		return c.View(), err
	}

	c.reminders.Acknowledge()
	if err := c.engine.Start(d, now); err != nil {
		return c.View(), err
	}
	c.saveLastDuration()

	st := c.engine.State()
	log.Info().Str("cycle", st.CycleID).Dur("duration", d).Time("ends_at", st.EndsAt).Msg("countdown started")
	return c.View(), nil
}

// Acknowledge dismisses the reminder banner and stops further alerts
func (c *Controller) Acknowledge() View {
	if c.reminders.State().Active {
		log.Info().Str("cycle", c.reminders.State().CycleID).Int("fired", c.reminders.State().FiredCount).Msg("reminder acknowledged")
	}
	c.reminders.Acknowledge()
	return c.View()
}

// Tick evaluates the countdown and reminder timers at now. A Tick arriving
// while another is still being handled returns the current view untouched.
func (c *Controller) Tick(now time.Time) View {
	if c.evaluating {
		return c.View()
	}
	c.evaluating = true
	defer func() { c.evaluating = false }()

	ev := c.engine.Evaluate(now)
	if ev.Completed {
		c.handleCompleted(now, ev)
	}
	c.reminders.Advance(now)

	return c.View()
}

func (c *Controller) handleCompleted(now time.Time, ev countdown.Evaluation) {
	log.Info().
		Str("cycle", ev.CompletedCycleID).
		Str("next_cycle", c.engine.State().CycleID).
		Bool("reminders", c.reminders.Enabled()).
		Msg("countdown completed, restarted")

	if c.reminders.Enabled() {
		c.reminders.OnCountdownCompleted(now, ev.CompletedCycleID)
	} else {
		// Reminders off still get a single completion chime
		c.playSound()
	}

	if c.OnCompleted != nil {
		c.OnCompleted(c.View())
	}
}

// SetRemindersEnabled toggles reminders and persists the choice. Disabling
// cancels an active reminder cycle.
func (c *Controller) SetRemindersEnabled(enabled bool) View {
	c.reminders.SetEnabled(enabled)
	if c.settings.EnableReminders != enabled {
		c.settings.EnableReminders = enabled
		c.save()
	}
	return c.View()
}

// SetSoundPath stores the alert sound path
func (c *Controller) SetSoundPath(path string) {
	c.UpdateSettings(func(s *models.Settings) {
		s.SoundFilePath = path
	})
}

// UpdateSettings applies mutate to the settings and persists them. Changes to
// EnableReminders take effect as with SetRemindersEnabled.
func (c *Controller) UpdateSettings(mutate func(*models.Settings)) {
	next := c.settings
	mutate(&next)
	if next == c.settings {
		return
	}
	c.settings = next
	c.reminders.SetEnabled(next.EnableReminders)
	c.save()
}

// ApplyExternalSettings adopts settings changed outside the app without
// writing them back
func (c *Controller) ApplyExternalSettings(settings models.Settings) View {
	c.settings = settings
	c.reminders.SetEnabled(settings.EnableReminders)
	return c.View()
}

// Close stops any sound and saves the last valid duration
func (c *Controller) Close() {
	c.player.Stop()
	c.saveLastDuration()
}

// View returns the current render state
func (c *Controller) View() View {
	d := c.engine.Display()
	r := c.reminders.State()
	return View{
		Text:          d.Text,
		Progress:      d.Progress,
		Running:       c.engine.Running(),
		Warning:       d.Warning,
		BannerVisible: r.BannerVisible,
		FiredCount:    r.FiredCount,
		CycleID:       c.engine.State().CycleID,
	}
}

// Reminder returns the reminder scheduler state
func (c *Controller) Reminder() reminder.State {
	return c.reminders.State()
}

// Countdown returns the countdown engine state
func (c *Controller) Countdown() countdown.CountdownState {
	return c.engine.State()
}

func (c *Controller) playSound() {
	path := c.settings.SoundFilePath
	if strings.TrimSpace(path) == "" {
		return
	}
	if err := c.player.Play(path); err != nil {
		log.Warn().Err(err).Msg("alert sound failed")
	}
}

// saveLastDuration persists the input if it is a valid duration
func (c *Controller) saveLastDuration() {
	if _, err := countdown.ValidateDuration(c.input, c.engine.Minimum()); err != nil {
		return
	}
	if c.settings.LastDuration == c.input {
		return
	}
	c.settings.LastDuration = c.input
	c.save()
}

func (c *Controller) save() {
	if c.saver == nil {
		return
	}
	if err := c.saver.Save(c.settings); err != nil {
		log.Warn().Err(err).Msg("failed to save settings")
	}
}
