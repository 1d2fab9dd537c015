package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"focustimer/internal/core/model"

	"gopkg.in/yaml.v3"
)

const (
	// AppName names the config directory under the user config dir.
	AppName          = "FocusTimer"
	settingsFileName = "settings.yaml"
	// ConfigDirEnv overrides the config directory.
	ConfigDirEnv = "FOCUSTIMER_CONFIG_DIR"
)

type yamlWallpaper struct {
	Source     string `yaml:"source,omitempty"`
	File       string `yaml:"file,omitempty"`
	Dir        string `yaml:"dir,omitempty"`
	FitPercent int    `yaml:"fit_percent,omitempty"`
	Alignment  string `yaml:"alignment,omitempty"`
	OffsetX    int    `yaml:"offset_x,omitempty"`
	OffsetY    int    `yaml:"offset_y,omitempty"`
}

type yamlTimer struct {
	Mode             string `yaml:"mode,omitempty"`
	CountdownSeconds int    `yaml:"countdown_seconds,omitempty"`
	Beep             *bool  `yaml:"beep,omitempty"`
	SoundFile        string `yaml:"sound_file,omitempty"`
}

type yamlPanel struct {
	X            *int   `yaml:"x,omitempty"`
	Y            *int   `yaml:"y,omitempty"`
	Width        int    `yaml:"width,omitempty"`
	Height       int    `yaml:"height,omitempty"`
	FontBase     int    `yaml:"font_base,omitempty"`
	ShowFuture   *bool  `yaml:"show_future,omitempty"`
	ShowNotes    *bool  `yaml:"show_notes,omitempty"`
	NotesDraft   string `yaml:"notes_draft,omitempty"`
	NotesPath    string `yaml:"notes_path,omitempty"`
	FutureChoice string `yaml:"future_choice,omitempty"`
}

type yamlAppearance struct {
	TimeColor   string `yaml:"time_color,omitempty"`
	TintDynamic *bool  `yaml:"tint_dynamic,omitempty"`
}

type yamlMusic struct {
	Dir     string `yaml:"dir,omitempty"`
	Shuffle *bool  `yaml:"shuffle,omitempty"`
}

type yamlEvent struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

type yamlTask struct {
	Total  int `yaml:"total"`
	Target int `yaml:"target,omitempty"`
}

type yamlSession struct {
	Task    string    `yaml:"task"`
	Seconds int       `yaml:"seconds"`
	Start   time.Time `yaml:"start"`
	End     time.Time `yaml:"end"`
}

type yamlSettings struct {
	Timer          yamlTimer           `yaml:"timer"`
	MainWallpaper  yamlWallpaper       `yaml:"main_wallpaper"`
	PanelWallpaper yamlWallpaper       `yaml:"panel_wallpaper"`
	Panel          yamlPanel           `yaml:"panel"`
	Appearance     yamlAppearance      `yaml:"appearance"`
	Music          yamlMusic           `yaml:"music"`
	FutureEvents   []yamlEvent         `yaml:"future_events,omitempty"`
	FutureUnit     string              `yaml:"future_unit,omitempty"`
	Tasks          map[string]yamlTask `yaml:"tasks,omitempty"`
	ActiveTask     string              `yaml:"active_task,omitempty"`
	Sessions       []yamlSession       `yaml:"sessions,omitempty"`
	ColorCache     map[string]string   `yaml:"color_cache,omitempty"`
}

// ResolvePath returns the settings file location under configDir, which
// defaults to os.UserConfigDir. ConfigDirEnv wins over both.
func ResolvePath(appName string, configDir func() (string, error)) (string, error) {
	if dir := strings.TrimSpace(os.Getenv(ConfigDirEnv)); dir != "" {
		return filepath.Join(dir, settingsFileName), nil
	}
	if configDir == nil {
		configDir = os.UserConfigDir
	}
	baseDir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(baseDir, appName, settingsFileName), nil
}

// LoadSettings reads the settings document at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings rewrites the whole settings document at path.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYamlSettings(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func toYamlWallpaper(spec model.WallpaperSpec) yamlWallpaper {
	return yamlWallpaper{
		Source:     string(spec.Source),
		File:       spec.File,
		Dir:        spec.Dir,
		FitPercent: spec.FitPercent,
		Alignment:  string(spec.Alignment),
		OffsetX:    spec.OffsetX,
		OffsetY:    spec.OffsetY,
	}
}

func toYamlSettings(settings model.Settings) yamlSettings {
	beep := settings.Timer.Beep
	showFuture := settings.Panel.ShowFuture
	showNotes := settings.Panel.ShowNotes
	tint := settings.Appearance.TintDynamic
	shuffle := settings.Music.Shuffle

	fileData := yamlSettings{
		Timer: yamlTimer{
			Mode:             string(settings.Timer.Mode),
			CountdownSeconds: settings.Timer.CountdownSeconds,
			Beep:             &beep,
			SoundFile:        settings.Timer.SoundFile,
		},
		MainWallpaper:  toYamlWallpaper(settings.MainWallpaper),
		PanelWallpaper: toYamlWallpaper(settings.PanelWallpaper),
		Panel: yamlPanel{
			Width:        settings.Panel.Geometry.Size.Width,
			Height:       settings.Panel.Geometry.Size.Height,
			FontBase:     settings.Panel.FontBase,
			ShowFuture:   &showFuture,
			ShowNotes:    &showNotes,
			NotesDraft:   settings.Panel.NotesDraft,
			NotesPath:    settings.Panel.NotesPath,
			FutureChoice: settings.Panel.FutureChoice,
		},
		Appearance: yamlAppearance{
			TimeColor:   settings.Appearance.TimeColor,
			TintDynamic: &tint,
		},
		Music: yamlMusic{
			Dir:     settings.Music.Dir,
			Shuffle: &shuffle,
		},
		FutureUnit: string(settings.FutureUnit),
		ActiveTask: settings.ActiveTask,
		ColorCache: settings.ColorCache,
	}
	if position := settings.Panel.Geometry.Position; position != nil {
		x, y := position.X, position.Y
		fileData.Panel.X = &x
		fileData.Panel.Y = &y
	}
	for _, event := range settings.FutureEvents {
		fileData.FutureEvents = append(fileData.FutureEvents, yamlEvent{Title: event.Title, Date: event.Date})
	}
	if len(settings.Tasks) > 0 {
		fileData.Tasks = make(map[string]yamlTask, len(settings.Tasks))
		for name, task := range settings.Tasks {
			fileData.Tasks[name] = yamlTask{Total: task.Total, Target: task.Target}
		}
	}
	for _, session := range settings.Sessions {
		fileData.Sessions = append(fileData.Sessions, yamlSession{
			Task:    session.Task,
			Seconds: session.Seconds,
			Start:   session.Start,
			End:     session.End,
		})
	}
	return fileData
}

func applyYamlWallpaper(spec *model.WallpaperSpec, fileData yamlWallpaper) {
	switch model.SourceKind(fileData.Source) {
	case model.SourceFile, model.SourceDirectory, model.SourceNone:
		spec.Source = model.SourceKind(fileData.Source)
	}
	spec.File = fileData.File
	spec.Dir = fileData.Dir
	if fileData.FitPercent > 0 {
		spec.FitPercent = model.ClampFitPercent(fileData.FitPercent)
	}
	switch model.Alignment(fileData.Alignment) {
	case model.AlignTop, model.AlignCenter, model.AlignBottom:
		spec.Alignment = model.Alignment(fileData.Alignment)
	}
	spec.OffsetX = fileData.OffsetX
	spec.OffsetY = fileData.OffsetY
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	switch model.TimerMode(fileData.Timer.Mode) {
	case model.TimerModeCountdown, model.TimerModeCountUp:
		settings.Timer.Mode = model.TimerMode(fileData.Timer.Mode)
	}
	if fileData.Timer.CountdownSeconds > 0 {
		settings.Timer.CountdownSeconds = fileData.Timer.CountdownSeconds
	}
	if fileData.Timer.Beep != nil {
		settings.Timer.Beep = *fileData.Timer.Beep
	}
	settings.Timer.SoundFile = fileData.Timer.SoundFile

	applyYamlWallpaper(&settings.MainWallpaper, fileData.MainWallpaper)
	applyYamlWallpaper(&settings.PanelWallpaper, fileData.PanelWallpaper)

	panel := fileData.Panel
	if panel.X != nil && panel.Y != nil {
		settings.Panel.Geometry.Position = &model.Point{X: *panel.X, Y: *panel.Y}
	}
	if panel.Width > 0 && panel.Height > 0 {
		settings.Panel.Geometry.Size = model.Size{Width: panel.Width, Height: panel.Height}
	}
	if panel.FontBase > 0 {
		settings.Panel.FontBase = panel.FontBase
	}
	if panel.ShowFuture != nil {
		settings.Panel.ShowFuture = *panel.ShowFuture
	}
	if panel.ShowNotes != nil {
		settings.Panel.ShowNotes = *panel.ShowNotes
	}
	settings.Panel.NotesDraft = panel.NotesDraft
	settings.Panel.NotesPath = panel.NotesPath
	if panel.FutureChoice != "" {
		settings.Panel.FutureChoice = panel.FutureChoice
	}

	if fileData.Appearance.TimeColor != "" {
		settings.Appearance.TimeColor = fileData.Appearance.TimeColor
	}
	if fileData.Appearance.TintDynamic != nil {
		settings.Appearance.TintDynamic = *fileData.Appearance.TintDynamic
	}

	settings.Music.Dir = fileData.Music.Dir
	if fileData.Music.Shuffle != nil {
		settings.Music.Shuffle = *fileData.Music.Shuffle
	}

	for _, event := range fileData.FutureEvents {
		settings.FutureEvents = append(settings.FutureEvents, model.FutureEvent{Title: event.Title, Date: event.Date})
	}
	switch model.FutureUnit(fileData.FutureUnit) {
	case model.FutureUnitMixed, model.FutureUnitMonths, model.FutureUnitDays,
		model.FutureUnitHours, model.FutureUnitMinutes, model.FutureUnitSeconds:
		settings.FutureUnit = model.FutureUnit(fileData.FutureUnit)
	}

	for name, task := range fileData.Tasks {
		settings.Tasks[name] = model.Task{Total: task.Total, Target: task.Target}
	}
	if fileData.ActiveTask != "" {
		settings.ActiveTask = fileData.ActiveTask
	}
	if _, ok := settings.Tasks[settings.ActiveTask]; !ok {
		settings.Tasks[settings.ActiveTask] = model.Task{}
	}
	for _, session := range fileData.Sessions {
		settings.Sessions = append(settings.Sessions, model.Session{
			Task:    session.Task,
			Seconds: session.Seconds,
			Start:   session.Start,
			End:     session.End,
		})
	}
	for path, hex := range fileData.ColorCache {
		settings.ColorCache[path] = hex
	}
}
