package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/borgmon/magic-timer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", SettingsFileName)
	s := NewSettingsStore(path)

	settings, err := s.Load()

	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk models.Settings
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, models.DefaultSettings(), onDisk)
}

func TestLoad_CorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	s := NewSettingsStore(path)

	settings, err := s.Load()

	assert.Equal(t, models.DefaultSettings(), settings)
	var pErr *PersistenceError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "load", pErr.Op)

	// The defaults replaced the corrupt file.
	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, again)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"LAST_DURATION":"07:30","text_color":""}`), 0o644))

	settings, err := NewSettingsStore(path).Load()

	require.NoError(t, err)
	assert.Equal(t, "07:30", settings.LastDuration)
	assert.True(t, settings.EnableReminders)
	assert.Equal(t, models.DefaultSettings().TextColor, settings.TextColor)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", SettingsFileName)
	s := NewSettingsStore(path)
	want := models.DefaultSettings()
	want.LastDuration = "12:00"
	want.SoundFilePath = "/music/bell.mp3"
	want.EnableReminders = false
	want.AutoStart = true

	require.NoError(t, s.Save(want))
	got, err := NewSettingsStore(path).Load()

	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestSave_FailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	s := NewSettingsStore(filepath.Join(blocker, SettingsFileName))

	err := s.Save(models.DefaultSettings())

	var pErr *PersistenceError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "save", pErr.Op)

	settings, loadErr := s.Load()
	assert.Equal(t, models.DefaultSettings(), settings)
	assert.Error(t, loadErr)
}

func TestWatch_ReportsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	s := NewSettingsStore(path)
	_, err := s.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan models.Settings, 4)
	require.NoError(t, s.Watch(ctx, 20*time.Millisecond, func(settings models.Settings) {
		changes <- settings
	}))

	// Our own save is not reported.
	own := models.DefaultSettings()
	own.LastDuration = "02:00"
	require.NoError(t, s.Save(own))

	// An external editor writing the file is.
	external := own
	external.EnableReminders = false
	data, err := json.Marshal(external)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	select {
	case got := <-changes:
		assert.False(t, got.EnableReminders)
		assert.Equal(t, "02:00", got.LastDuration)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for settings change")
	}

	select {
	case got := <-changes:
		t.Fatalf("unexpected extra change: %+v", got)
	case <-time.After(150 * time.Millisecond):
	}
}
