package reminder

import (
	"time"
)

const (
	DefaultRepeatInterval = 10 * time.Second
	DefaultTimeout        = 60 * time.Second
	DefaultMaxAlerts      = 3
)

// State is the notification state of the current completion cycle
type State struct {
	Active        bool
	FiredCount    int
	BannerVisible bool
	CycleID       string // countdown cycle whose completion started this reminder
}

// Options configures a Scheduler. Zero values take the defaults.
type Options struct {
	RepeatInterval time.Duration
	Timeout        time.Duration
	MaxAlerts      int
	Enabled        bool

	// Alert is called for every alert that should sound. It must not panic;
	// playback failures are the caller's to swallow.
	Alert func()
}

// Scheduler runs the banner and repeated alerts after a countdown completes.
// Its two timers are deadlines advanced by Advance, so all work happens on
// the caller's goroutine.
type Scheduler struct {
	repeatInterval time.Duration
	timeout        time.Duration
	maxAlerts      int
	enabled        bool
	alert          func()

	state State

	repeatArmed  bool
	nextRepeat   time.Time
	timeoutArmed bool
	timeoutAt    time.Time
}

// NewScheduler creates an inactive scheduler
func NewScheduler(opts Options) *Scheduler {
	s := &Scheduler{
		repeatInterval: opts.RepeatInterval,
		timeout:        opts.Timeout,
		maxAlerts:      opts.MaxAlerts,
		enabled:        opts.Enabled,
		alert:          opts.Alert,
	}
	if s.repeatInterval <= 0 {
		s.repeatInterval = DefaultRepeatInterval
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.maxAlerts <= 0 {
		s.maxAlerts = DefaultMaxAlerts
	}
	if s.alert == nil {
		s.alert = func() {}
	}
	return s
}

// State returns a copy of the reminder state
func (s *Scheduler) State() State {
	return s.state
}

// Enabled reports whether completions start a reminder cycle
func (s *Scheduler) Enabled() bool {
	return s.enabled
}

// SetEnabled toggles reminders. Disabling cancels an active cycle at once;
// enabling only affects the next completion.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.enabled = enabled
	if !enabled {
		s.Acknowledge()
	}
}

// OnCountdownCompleted starts a new reminder cycle, replacing any cycle that
// is still running. The first alert fires immediately.
func (s *Scheduler) OnCountdownCompleted(now time.Time, cycleID string) {
	if !s.enabled {
		return
	}

	s.stopTimers()
	s.state = State{
		Active:        true,
		BannerVisible: true,
		CycleID:       cycleID,
	}

	s.repeatArmed = true
	s.nextRepeat = now.Add(s.repeatInterval)
	s.timeoutArmed = true
	s.timeoutAt = now.Add(s.timeout)

	s.fire()
}

// Acknowledge hides the banner and stops both timers regardless of how many
// alerts have fired
func (s *Scheduler) Acknowledge() {
	s.finish()
}

// Advance runs whatever is due at now: at most one repeat tick (missed ticks
// are skipped, not replayed), then the timeout.
func (s *Scheduler) Advance(now time.Time) {
	if s.repeatArmed && !now.Before(s.nextRepeat) && s.repeatBeforeTimeout() {
		for !now.Before(s.nextRepeat) {
			s.nextRepeat = s.nextRepeat.Add(s.repeatInterval)
		}
		s.fire()
	}

	if s.timeoutArmed && !now.Before(s.timeoutAt) {
		s.finish()
	}
}

// NextDeadline returns the earliest armed deadline, if any
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	switch {
	case s.repeatArmed && s.timeoutArmed:
		if s.nextRepeat.Before(s.timeoutAt) {
			return s.nextRepeat, true
		}
		return s.timeoutAt, true
	case s.repeatArmed:
		return s.nextRepeat, true
	case s.timeoutArmed:
		return s.timeoutAt, true
	}
	return time.Time{}, false
}

func (s *Scheduler) repeatBeforeTimeout() bool {
	return !s.timeoutArmed || s.nextRepeat.Before(s.timeoutAt)
}

// fire counts an alert, sounds it while under the cap and ends the cycle
// once the cap is reached
func (s *Scheduler) fire() {
	s.state.FiredCount++
	if s.state.FiredCount <= s.maxAlerts {
		s.alert()
	}
	if s.state.FiredCount >= s.maxAlerts {
		s.finish()
	}
}

func (s *Scheduler) finish() {
	s.stopTimers()
	s.state.Active = false
	s.state.BannerVisible = false
}

func (s *Scheduler) stopTimers() {
	s.repeatArmed = false
	s.timeoutArmed = false
}
