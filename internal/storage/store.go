// Package storage persists the settings document, the wallpaper color cache,
// completed sessions and saved notes.
package storage

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"focustimer/internal/core/model"
)

// ErrNoNotesPath reports a notes save without a configured notes file.
var ErrNoNotesPath = errors.New("notes file path is not configured")

// Store owns the in-memory settings and rewrites the document after every mutation.
type Store struct {
	mu       sync.Mutex
	path     string
	settings model.Settings
}

// Open loads the document at path. On a parse error the returned store holds
// defaults and the error is returned alongside it.
func Open(path string) (*Store, error) {
	settings, err := LoadSettings(path)
	return &Store{path: path, settings: settings}, err
}

// Path returns the document location.
func (store *Store) Path() string {
	return store.path
}

// Settings returns a copy of the current settings.
func (store *Store) Settings() model.Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	return cloneSettings(store.settings)
}

// Update applies mutate and rewrites the document. In-memory state is kept
// when the write fails.
func (store *Store) Update(mutate func(*model.Settings)) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	mutate(&store.settings)
	return store.saveLocked()
}

// Save rewrites the document without changes.
func (store *Store) Save() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saveLocked()
}

func (store *Store) saveLocked() error {
	return SaveSettings(store.path, store.settings)
}

// LookupColor returns the cached average color of an image path.
func (store *Store) LookupColor(path string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	hex, ok := store.settings.ColorCache[path]
	return hex, ok
}

// RememberColor caches the average color of an image path.
func (store *Store) RememberColor(path, hex string) error {
	return store.Update(func(settings *model.Settings) {
		if settings.ColorCache == nil {
			settings.ColorCache = map[string]string{}
		}
		settings.ColorCache[path] = hex
	})
}

// RecordSession appends a completed session for the active task and adds its
// seconds to the task total. Zero-length sessions are ignored.
func (store *Store) RecordSession(seconds int, end time.Time) error {
	if seconds <= 0 {
		return nil
	}
	return store.Update(func(settings *model.Settings) {
		name := settings.ActiveTask
		if name == "" {
			name = model.DefaultTask
		}
		if settings.Tasks == nil {
			settings.Tasks = map[string]model.Task{}
		}
		task := settings.Tasks[name]
		task.Total += seconds
		settings.Tasks[name] = task

		settings.Sessions = append(settings.Sessions, model.Session{
			Task:    name,
			Seconds: seconds,
			Start:   end.Add(-time.Duration(seconds) * time.Second).Truncate(time.Second),
			End:     end.Truncate(time.Second),
		})
	})
}

// PanelSettings returns the floating panel configuration.
func (store *Store) PanelSettings() model.PanelSettings {
	store.mu.Lock()
	defer store.mu.Unlock()
	panel := store.settings.Panel
	if panel.Geometry.Position != nil {
		position := *panel.Geometry.Position
		panel.Geometry.Position = &position
	}
	return panel
}

// PanelWallpaper returns the wallpaper spec of the floating panel.
func (store *Store) PanelWallpaper() model.WallpaperSpec {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings.PanelWallpaper
}

// MainWallpaper returns the wallpaper spec of the main stage.
func (store *Store) MainWallpaper() model.WallpaperSpec {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings.MainWallpaper
}

// Appearance returns the text color settings.
func (store *Store) Appearance() model.Appearance {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings.Appearance
}

// FutureEvents returns the dated events and the display unit.
func (store *Store) FutureEvents() ([]model.FutureEvent, model.FutureUnit) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return slices.Clone(store.settings.FutureEvents), store.settings.FutureUnit
}

// SavePanelGeometry persists the panel position and size.
func (store *Store) SavePanelGeometry(geometry model.PanelGeometry) error {
	return store.Update(func(settings *model.Settings) {
		if geometry.Position != nil {
			position := *geometry.Position
			geometry.Position = &position
		}
		settings.Panel.Geometry = geometry
	})
}

// SaveNotesDraft persists the notes draft.
func (store *Store) SaveNotesDraft(text string) error {
	return store.Update(func(settings *model.Settings) {
		settings.Panel.NotesDraft = text
	})
}

// AppendNote appends a timestamped block to the configured notes file.
// ErrNoNotesPath is returned when no file is configured.
func (store *Store) AppendNote(text string, at time.Time) error {
	store.mu.Lock()
	path := strings.TrimSpace(store.settings.Panel.NotesPath)
	store.mu.Unlock()

	if path == "" {
		return ErrNoNotesPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open notes file: %w", err)
	}
	defer file.Close()

	block := fmt.Sprintf("[%s]\n%s\n\n", at.Format("2006-01-02 15:04:05"), text)
	if _, err := file.WriteString(block); err != nil {
		return fmt.Errorf("append notes file: %w", err)
	}
	return nil
}

func cloneSettings(settings model.Settings) model.Settings {
	clone := settings
	if settings.Panel.Geometry.Position != nil {
		position := *settings.Panel.Geometry.Position
		clone.Panel.Geometry.Position = &position
	}
	clone.FutureEvents = slices.Clone(settings.FutureEvents)
	clone.Sessions = slices.Clone(settings.Sessions)
	clone.Tasks = maps.Clone(settings.Tasks)
	clone.ColorCache = maps.Clone(settings.ColorCache)
	return clone
}

// ActiveTask returns the task sessions are recorded against.
func (store *Store) ActiveTask() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.settings.ActiveTask == "" {
		return model.DefaultTask
	}
	return store.settings.ActiveTask
}

// SaveTimerTarget persists the timer mode and countdown length.
func (store *Store) SaveTimerTarget(mode model.TimerMode, countdownSeconds int) error {
	return store.Update(func(settings *model.Settings) {
		settings.Timer.Mode = mode
		if countdownSeconds > 0 {
			settings.Timer.CountdownSeconds = countdownSeconds
		}
	})
}

// ApplyPreferences stores the user-editable part of updated. Geometry, the
// notes draft, sessions, task totals and the color cache keep their current
// values.
func (store *Store) ApplyPreferences(updated model.Settings) error {
	return store.Update(func(settings *model.Settings) {
		current := *settings
		*settings = cloneSettings(updated)

		settings.Panel.Geometry = current.Panel.Geometry
		settings.Panel.NotesDraft = current.Panel.NotesDraft
		settings.Sessions = current.Sessions
		settings.ColorCache = current.ColorCache
		settings.Tasks = current.Tasks
		if settings.Tasks == nil {
			settings.Tasks = map[string]model.Task{}
		}
		if _, ok := settings.Tasks[settings.ActiveTask]; !ok && settings.ActiveTask != "" {
			settings.Tasks[settings.ActiveTask] = model.Task{}
		}
	})
}
