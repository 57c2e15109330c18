package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type alertRecorder struct {
	at  []time.Time
	now time.Time
}

func (r *alertRecorder) alert() {
	r.at = append(r.at, r.now)
}

func newTestScheduler(enabled bool) (*Scheduler, *alertRecorder) {
	rec := &alertRecorder{}
	return NewScheduler(Options{Enabled: enabled, Alert: rec.alert}), rec
}

// run advances s every step from start (exclusive) to end (inclusive)
func run(s *Scheduler, rec *alertRecorder, start, end time.Time, step time.Duration) {
	for now := start.Add(step); !now.After(end); now = now.Add(step) {
		rec.now = now
		s.Advance(now)
	}
}

func TestScheduler_DisabledIsNoop(t *testing.T) {
	s, rec := newTestScheduler(false)

	s.OnCountdownCompleted(t0, "cycle-1")
	run(s, rec, t0, t0.Add(2*time.Minute), time.Second)

	assert.Equal(t, State{}, s.State())
	assert.Empty(t, rec.at)
}

func TestScheduler_ThreeAlertsThenAutoHide(t *testing.T) {
	s, rec := newTestScheduler(true)
	rec.now = t0

	s.OnCountdownCompleted(t0, "cycle-1")

	st := s.State()
	assert.True(t, st.Active)
	assert.True(t, st.BannerVisible)
	assert.Equal(t, 1, st.FiredCount)
	assert.Equal(t, "cycle-1", st.CycleID)

	run(s, rec, t0, t0.Add(19*time.Second+800*time.Millisecond), 200*time.Millisecond)
	assert.True(t, s.State().BannerVisible)
	assert.Equal(t, 2, s.State().FiredCount)

	rec.now = t0.Add(20 * time.Second)
	s.Advance(rec.now)

	assert.Equal(t, []time.Time{t0, t0.Add(10 * time.Second), t0.Add(20 * time.Second)}, rec.at)
	st = s.State()
	assert.Equal(t, 3, st.FiredCount)
	assert.False(t, st.BannerVisible)
	assert.False(t, st.Active)

	run(s, rec, t0.Add(20*time.Second), t0.Add(3*time.Minute), 200*time.Millisecond)
	assert.Len(t, rec.at, 3)
	_, armed := s.NextDeadline()
	assert.False(t, armed)
}

func TestScheduler_AcknowledgeStopsAlerts(t *testing.T) {
	s, rec := newTestScheduler(true)
	rec.now = t0
	s.OnCountdownCompleted(t0, "cycle-1")
	run(s, rec, t0, t0.Add(5*time.Second), 200*time.Millisecond)

	s.Acknowledge()

	assert.False(t, s.State().BannerVisible)
	assert.False(t, s.State().Active)
	assert.Equal(t, 1, s.State().FiredCount)

	run(s, rec, t0.Add(5*time.Second), t0.Add(2*time.Minute), 200*time.Millisecond)
	assert.Equal(t, []time.Time{t0}, rec.at)
}

func TestScheduler_TimeoutHidesBanner(t *testing.T) {
	rec := &alertRecorder{}
	s := NewScheduler(Options{
		Enabled:        true,
		RepeatInterval: 25 * time.Second,
		Timeout:        40 * time.Second,
		MaxAlerts:      5,
		Alert:          rec.alert,
	})
	rec.now = t0
	s.OnCountdownCompleted(t0, "cycle-1")

	run(s, rec, t0, t0.Add(39*time.Second), time.Second)
	assert.True(t, s.State().BannerVisible)

	rec.now = t0.Add(40 * time.Second)
	s.Advance(rec.now)

	assert.False(t, s.State().BannerVisible)
	assert.False(t, s.State().Active)
	assert.Equal(t, []time.Time{t0, t0.Add(25 * time.Second)}, rec.at)
}

func TestScheduler_AlwaysTerminatesWithinTimeout(t *testing.T) {
	for _, step := range []time.Duration{200 * time.Millisecond, 7 * time.Second, 45 * time.Second} {
		s, rec := newTestScheduler(true)
		rec.now = t0
		s.OnCountdownCompleted(t0, "cycle")

		run(s, rec, t0, t0.Add(DefaultTimeout), step)
		s.Advance(t0.Add(DefaultTimeout))

		assert.False(t, s.State().BannerVisible, "step %s", step)
		assert.LessOrEqual(t, len(rec.at), DefaultMaxAlerts, "step %s", step)
	}
}

func TestScheduler_StalledTickDoesNotBurst(t *testing.T) {
	s, rec := newTestScheduler(true)
	rec.now = t0
	s.OnCountdownCompleted(t0, "cycle-1")

	rec.now = t0.Add(25 * time.Second)
	s.Advance(rec.now)

	assert.Equal(t, 2, s.State().FiredCount)
	next, ok := s.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, t0.Add(30*time.Second), next)
}

func TestScheduler_DisableMidCycle(t *testing.T) {
	s, rec := newTestScheduler(true)
	rec.now = t0
	s.OnCountdownCompleted(t0, "cycle-1")

	s.SetEnabled(false)

	assert.False(t, s.State().BannerVisible)
	run(s, rec, t0, t0.Add(time.Minute), time.Second)
	assert.Len(t, rec.at, 1)

	// Re-enabling does not revive the cancelled cycle.
	s.SetEnabled(true)
	run(s, rec, t0.Add(time.Minute), t0.Add(2*time.Minute), time.Second)
	assert.Len(t, rec.at, 1)
	assert.False(t, s.State().Active)

	rec.now = t0.Add(3 * time.Minute)
	s.OnCountdownCompleted(rec.now, "cycle-2")
	assert.True(t, s.State().BannerVisible)
	assert.Len(t, rec.at, 2)
}

func TestScheduler_NewCompletionResetsCycle(t *testing.T) {
	s, rec := newTestScheduler(true)
	rec.now = t0
	s.OnCountdownCompleted(t0, "cycle-1")
	run(s, rec, t0, t0.Add(10*time.Second), time.Second)
	require.Equal(t, 2, s.State().FiredCount)

	rec.now = t0.Add(12 * time.Second)
	s.OnCountdownCompleted(rec.now, "cycle-2")

	st := s.State()
	assert.Equal(t, 1, st.FiredCount)
	assert.Equal(t, "cycle-2", st.CycleID)
	next, ok := s.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, t0.Add(22*time.Second), next)
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(Options{})

	assert.Equal(t, DefaultRepeatInterval, s.repeatInterval)
	assert.Equal(t, DefaultTimeout, s.timeout)
	assert.Equal(t, DefaultMaxAlerts, s.maxAlerts)
	assert.False(t, s.Enabled())

	s.SetEnabled(true)
	assert.NotPanics(t, func() { s.OnCountdownCompleted(t0, "x") })
}
