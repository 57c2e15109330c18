package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/borgmon/magic-timer/pkg/models"
)

// SettingsFileName is the file name used under the app storage root
const SettingsFileName = "appsettings.json"

// PersistenceError reports a settings read or write failure
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("settings %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SettingsStore persists settings as JSON in a single file
type SettingsStore struct {
	path string

	mu        sync.Mutex
	lastKnown models.Settings // last value loaded or saved, used to ignore our own writes
	known     bool
}

// NewSettingsStore creates a store for the file at path
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: filepath.Clean(path)}
}

// Path returns the settings file path
func (s *SettingsStore) Path() string {
	return s.path
}

// Load always returns usable settings. A missing or corrupt file yields the
// defaults, which are written back. The error is informational: it reports a
// corrupt file or a failed write-back.
func (s *SettingsStore) Load() (models.Settings, error) {
	settings, err := s.read()
	if err == nil {
		s.remember(settings)
		return settings, nil
	}

	defaults := models.DefaultSettings()
	var loadErr error
	if !errors.Is(err, fs.ErrNotExist) {
		loadErr = &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	if saveErr := s.Save(defaults); saveErr != nil {
		loadErr = errors.Join(loadErr, saveErr)
	}
	return defaults, loadErr
}

// Save writes settings, creating the parent directory if needed. The file is
// replaced atomically so watchers never observe a partial write.
func (s *SettingsStore) Save(settings models.Settings) error {
	if err := s.write(settings); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	s.remember(settings)
	return nil
}

func (s *SettingsStore) read() (models.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.Settings{}, err
	}

	// Start from defaults so keys absent from older files keep their defaults
	settings := models.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return models.Settings{}, err
	}
	return settings.WithDefaults(), nil
}

func (s *SettingsStore) write(settings models.Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".appsettings-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func (s *SettingsStore) remember(settings models.Settings) {
	s.mu.Lock()
	s.lastKnown = settings
	s.known = true
	s.mu.Unlock()
}

// changed reports whether settings differ from the last loaded or saved value
func (s *SettingsStore) changed(settings models.Settings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.known || s.lastKnown != settings
}
