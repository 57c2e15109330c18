package controller

import (
	"errors"
	"testing"
	"time"

	"github.com/borgmon/magic-timer/pkg/countdown"
	"github.com/borgmon/magic-timer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	played  []string
	stopped int
	err     error
}

func (p *fakePlayer) Play(path string) error {
	p.played = append(p.played, path)
	return p.err
}

func (p *fakePlayer) Stop() {
	p.stopped++
}

type fakeSaver struct {
	saved []models.Settings
	err   error
}

func (s *fakeSaver) Save(settings models.Settings) error {
	s.saved = append(s.saved, settings)
	return s.err
}

func (s *fakeSaver) last() models.Settings {
	return s.saved[len(s.saved)-1]
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newController(t *testing.T, mutate func(*models.Settings)) (*Controller, *fakePlayer, *fakeSaver) {
	t.Helper()
	settings := models.DefaultSettings()
	settings.SoundFilePath = "/sounds/bell.wav"
	if mutate != nil {
		mutate(&settings)
	}
	player := &fakePlayer{}
	saver := &fakeSaver{}
	return New(settings, saver, player, Options{}), player, saver
}

// tickUntil advances in step increments from start to end inclusive
func tickUntil(c *Controller, start, end time.Time, step time.Duration) View {
	var v View
	for now := start; !now.After(end); now = now.Add(step) {
		v = c.Tick(now)
	}
	return v
}

func TestNew_RestoresLastDuration(t *testing.T) {
	c, _, _ := newController(t, func(s *models.Settings) { s.LastDuration = " 25:00 " })

	assert.Equal(t, "25:00", c.Input())
	assert.Equal(t, "25:00", c.View().Text)
	assert.False(t, c.View().Running)
}

func TestSetInput_PreviewsWhileIdle(t *testing.T) {
	c, _, _ := newController(t, nil)

	assert.Equal(t, "03:15", c.SetInput("3:15").Text)
	assert.Equal(t, "03:15", c.SetInput("garbage").Text, "keeps last valid duration")
}

func TestStartStop_RejectsInvalidInput(t *testing.T) {
	c, _, saver := newController(t, nil)

	c.SetInput("abc")
	v, err := c.StartStop(t0)
	var fErr *countdown.FormatError
	require.True(t, errors.As(err, &fErr))
	assert.False(t, v.Running)

	c.SetInput("00:30")
	v, err = c.StartStop(t0)
	var dErr *countdown.InvalidDurationError
	require.True(t, errors.As(err, &dErr))
	assert.Equal(t, time.Minute, dErr.Minimum)
	assert.False(t, v.Running)
	assert.Empty(t, saver.saved)
}

func TestStartStop_StartsAndSavesDuration(t *testing.T) {
	c, _, saver := newController(t, nil)
	c.SetInput("02:00")

	v, err := c.StartStop(t0)

	require.NoError(t, err)
	assert.True(t, v.Running)
	assert.Equal(t, "02:00", v.Text)
	assert.NotEmpty(t, v.CycleID)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "02:00", saver.last().LastDuration)

	v = c.Tick(t0.Add(30 * time.Second))
	assert.Equal(t, "01:30", v.Text)
	assert.InDelta(t, 25, v.Progress, 0.001)
}

func TestStartStop_StopFreezesAndShowsInput(t *testing.T) {
	c, player, _ := newController(t, nil)
	c.SetInput("05:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)
	c.Tick(t0.Add(time.Minute))

	c.SetInput("10:00")
	v, err := c.StartStop(t0.Add(time.Minute))

	require.NoError(t, err)
	assert.False(t, v.Running)
	assert.Equal(t, "10:00", v.Text)
	assert.Equal(t, 1, player.stopped)

	v = c.Tick(t0.Add(10 * time.Minute))
	assert.Equal(t, "10:00", v.Text, "idle display does not move")
}

func TestTick_CompletionRestartsAndStartsReminders(t *testing.T) {
	c, player, _ := newController(t, nil)
	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)
	first := c.Countdown().CycleID

	var completed []View
	c.OnCompleted = func(v View) { completed = append(completed, v) }

	v := c.Tick(t0.Add(55 * time.Second))
	assert.True(t, v.Warning)
	assert.False(t, v.BannerVisible)

	v = c.Tick(t0.Add(time.Minute))

	assert.True(t, v.Running)
	assert.Equal(t, "01:00", v.Text)
	assert.NotEqual(t, first, v.CycleID)
	assert.True(t, v.BannerVisible)
	assert.Equal(t, 1, v.FiredCount)
	assert.Equal(t, first, c.Reminder().CycleID)
	assert.Equal(t, []string{"/sounds/bell.wav"}, player.played)
	require.Len(t, completed, 1)
}

func TestTick_RemindersRepeatThenHide(t *testing.T) {
	c, player, _ := newController(t, nil)
	c.SetInput("05:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)

	done := t0.Add(5 * time.Minute)
	c.Tick(done)
	v := tickUntil(c, done.Add(200*time.Millisecond), done.Add(15*time.Second), 200*time.Millisecond)
	assert.True(t, v.BannerVisible)
	assert.Equal(t, 2, v.FiredCount)

	v = tickUntil(c, done.Add(15*time.Second), done.Add(25*time.Second), 200*time.Millisecond)
	assert.False(t, v.BannerVisible)
	assert.Equal(t, 3, v.FiredCount)
	assert.Len(t, player.played, 3)

	tickUntil(c, done.Add(25*time.Second), done.Add(90*time.Second), time.Second)
	assert.Len(t, player.played, 3)
}

func TestAcknowledge_StopsReminders(t *testing.T) {
	c, player, _ := newController(t, nil)
	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)
	done := t0.Add(time.Minute)
	c.Tick(done)

	c.Tick(done.Add(5 * time.Second))
	v := c.Acknowledge()

	assert.False(t, v.BannerVisible)
	assert.True(t, v.Running, "countdown keeps running")
	tickUntil(c, done.Add(5*time.Second), done.Add(50*time.Second), time.Second)
	assert.Len(t, player.played, 1)
}

func TestRemindersDisabled_SingleChime(t *testing.T) {
	c, player, saver := newController(t, nil)

	c.SetRemindersEnabled(false)
	require.Len(t, saver.saved, 1)
	assert.False(t, saver.last().EnableReminders)

	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)

	v := tickUntil(c, t0, t0.Add(90*time.Second), time.Second)

	assert.False(t, v.BannerVisible)
	assert.Equal(t, 0, v.FiredCount)
	assert.Len(t, player.played, 1)
}

func TestSetRemindersEnabled_DisablingCancelsActiveCycle(t *testing.T) {
	c, player, _ := newController(t, nil)
	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)
	c.Tick(t0.Add(time.Minute))
	require.True(t, c.View().BannerVisible)

	v := c.SetRemindersEnabled(false)

	assert.False(t, v.BannerVisible)
	tickUntil(c, t0.Add(time.Minute), t0.Add(time.Minute+50*time.Second), time.Second)
	assert.Len(t, player.played, 1)
}

func TestStartStop_ManualToggleAcknowledges(t *testing.T) {
	c, _, _ := newController(t, nil)
	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)
	c.Tick(t0.Add(time.Minute))
	require.True(t, c.View().BannerVisible)

	v, err := c.StartStop(t0.Add(time.Minute + time.Second))

	require.NoError(t, err)
	assert.False(t, v.BannerVisible)
	assert.False(t, v.Running)
}

func TestPlaybackAndSaveFailuresAreSwallowed(t *testing.T) {
	c, player, saver := newController(t, nil)
	player.err = errors.New("device busy")
	saver.err = errors.New("disk full")

	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)
	v := c.Tick(t0.Add(time.Minute))

	assert.True(t, v.BannerVisible)
	assert.Len(t, player.played, 1)
}

func TestNoSoundConfigured(t *testing.T) {
	c, player, _ := newController(t, func(s *models.Settings) { s.SoundFilePath = "" })
	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)

	v := c.Tick(t0.Add(time.Minute))

	assert.True(t, v.BannerVisible)
	assert.Empty(t, player.played)
}

func TestUpdateSettings(t *testing.T) {
	c, _, saver := newController(t, nil)

	c.SetSoundPath("/sounds/gong.mp3")
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "/sounds/gong.mp3", c.Settings().SoundFilePath)

	c.UpdateSettings(func(s *models.Settings) { s.SoundFilePath = "/sounds/gong.mp3" })
	assert.Len(t, saver.saved, 1, "unchanged settings are not saved")

	c.UpdateSettings(func(s *models.Settings) { s.TextColor = "#FF00FF00" })
	require.Len(t, saver.saved, 2)
	assert.Equal(t, "#FF00FF00", saver.last().TextColor)
}

func TestApplyExternalSettings_DoesNotWriteBack(t *testing.T) {
	c, _, saver := newController(t, nil)
	external := c.Settings()
	external.EnableReminders = false
	external.SoundFilePath = "/other.wav"

	c.ApplyExternalSettings(external)

	assert.Empty(t, saver.saved)
	assert.Equal(t, external, c.Settings())

	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)
	v := c.Tick(t0.Add(time.Minute))
	assert.False(t, v.BannerVisible)
}

func TestClose_SavesValidDuration(t *testing.T) {
	c, player, saver := newController(t, nil)

	c.SetInput("bogus")
	c.Close()
	assert.Empty(t, saver.saved)

	c.SetInput("45:00")
	c.Close()
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "45:00", saver.last().LastDuration)
	assert.Equal(t, 2, player.stopped)
}

func TestTick_NotReentrant(t *testing.T) {
	c, _, _ := newController(t, nil)
	c.SetInput("01:00")
	_, err := c.StartStop(t0)
	require.NoError(t, err)

	var nested View
	c.OnCompleted = func(View) {
		nested = c.Tick(t0.Add(2 * time.Minute))
	}

	v := c.Tick(t0.Add(time.Minute))

	assert.Equal(t, v.CycleID, nested.CycleID, "nested tick did not complete another cycle")
	assert.Equal(t, "01:00", v.Text)
}
