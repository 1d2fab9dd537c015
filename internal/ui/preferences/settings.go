package preferences

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"focustimer/internal/core/future"
	"focustimer/internal/core/model"
	"focustimer/internal/imaging"
	"focustimer/internal/ui/stage"
)

var (
	ErrInvalidColor  = errors.New("time color must look like #rrggbb")
	ErrInvalidOffset = errors.New("offsets must be whole numbers")
	ErrInvalidEvent  = errors.New("future events must be written as YYYY-MM-DD title")
)

// WallpaperForm holds the editable values of one wallpaper spec.
type WallpaperForm struct {
	Source    model.SourceKind
	File      string
	Dir       string
	Fit       float64
	Alignment model.Alignment
	OffsetX   string
	OffsetY   string
}

// Form holds the editable preferences as entered in the window.
type Form struct {
	MainWallpaper  WallpaperForm
	PanelWallpaper WallpaperForm

	CountdownMinutes string
	Beep             bool
	SoundFile        string

	ShowFuture   bool
	ShowNotes    bool
	NotesPath    string
	FutureChoice string
	FutureUnit   model.FutureUnit
	FutureEvents string

	TimeColor   string
	TintDynamic bool

	MusicDir     string
	MusicShuffle bool

	ActiveTask string
}

// FormFromSettings fills a form from stored settings.
func FormFromSettings(settings model.Settings) Form {
	return Form{
		MainWallpaper:    wallpaperForm(settings.MainWallpaper),
		PanelWallpaper:   wallpaperForm(settings.PanelWallpaper),
		CountdownMinutes: strconv.Itoa(max(1, settings.Timer.CountdownSeconds/60)),
		Beep:             settings.Timer.Beep,
		SoundFile:        settings.Timer.SoundFile,
		ShowFuture:       settings.Panel.ShowFuture,
		ShowNotes:        settings.Panel.ShowNotes,
		NotesPath:        settings.Panel.NotesPath,
		FutureChoice:     settings.Panel.FutureChoice,
		FutureUnit:       settings.FutureUnit,
		FutureEvents:     FormatEvents(settings.FutureEvents),
		TimeColor:        settings.Appearance.TimeColor,
		TintDynamic:      settings.Appearance.TintDynamic,
		MusicDir:         settings.Music.Dir,
		MusicShuffle:     settings.Music.Shuffle,
		ActiveTask:       settings.ActiveTask,
	}
}

// Apply validates the form and writes it over settings. Settings are left
// untouched when any field is invalid.
func (form Form) Apply(settings model.Settings) (model.Settings, error) {
	minutes, err := stage.ParseMinutes(form.CountdownMinutes)
	if err != nil {
		return settings, fmt.Errorf("countdown: %w", err)
	}
	timeColor := strings.TrimSpace(form.TimeColor)
	if _, err := imaging.ParseHex(timeColor); err != nil {
		return settings, ErrInvalidColor
	}
	mainWallpaper, err := form.MainWallpaper.spec()
	if err != nil {
		return settings, fmt.Errorf("main wallpaper: %w", err)
	}
	panelWallpaper, err := form.PanelWallpaper.spec()
	if err != nil {
		return settings, fmt.Errorf("panel wallpaper: %w", err)
	}
	events, err := ParseEvents(form.FutureEvents)
	if err != nil {
		return settings, err
	}

	settings.MainWallpaper = mainWallpaper
	settings.PanelWallpaper = panelWallpaper
	settings.Timer.CountdownSeconds = minutes * 60
	settings.Timer.Beep = form.Beep
	settings.Timer.SoundFile = strings.TrimSpace(form.SoundFile)
	settings.Panel.ShowFuture = form.ShowFuture
	settings.Panel.ShowNotes = form.ShowNotes
	settings.Panel.NotesPath = strings.TrimSpace(form.NotesPath)
	settings.Panel.FutureChoice = strings.TrimSpace(form.FutureChoice)
	if settings.Panel.FutureChoice == "" {
		settings.Panel.FutureChoice = model.FutureChoiceNearest
	}
	if form.FutureUnit != "" {
		settings.FutureUnit = form.FutureUnit
	}
	settings.FutureEvents = events
	settings.Appearance.TimeColor = strings.ToLower(timeColor)
	settings.Appearance.TintDynamic = form.TintDynamic
	settings.Music.Dir = strings.TrimSpace(form.MusicDir)
	settings.Music.Shuffle = form.MusicShuffle
	if task := strings.TrimSpace(form.ActiveTask); task != "" {
		settings.ActiveTask = task
		if _, ok := settings.Tasks[task]; !ok {
			tasks := maps.Clone(settings.Tasks)
			if tasks == nil {
				tasks = map[string]model.Task{}
			}
			tasks[task] = model.Task{}
			settings.Tasks = tasks
		}
	}
	return settings, nil
}

// ParseEvents reads one "YYYY-MM-DD title" event per non-empty line.
func ParseEvents(text string) ([]model.FutureEvent, error) {
	var events []model.FutureEvent
	for number, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		date, title, _ := strings.Cut(line, " ")
		if _, err := time.Parse(future.DateLayout, date); err != nil {
			return nil, fmt.Errorf("line %d: %w", number+1, ErrInvalidEvent)
		}
		events = append(events, model.FutureEvent{Title: strings.TrimSpace(title), Date: date})
	}
	return events, nil
}

// FormatEvents writes events in the ParseEvents format.
func FormatEvents(events []model.FutureEvent) string {
	lines := make([]string, 0, len(events))
	for _, event := range events {
		lines = append(lines, strings.TrimSpace(event.Date+" "+event.Title))
	}
	return strings.Join(lines, "\n")
}

func wallpaperForm(spec model.WallpaperSpec) WallpaperForm {
	return WallpaperForm{
		Source:    spec.Source,
		File:      spec.File,
		Dir:       spec.Dir,
		Fit:       float64(model.ClampFitPercent(spec.FitPercent)),
		Alignment: spec.Alignment,
		OffsetX:   strconv.Itoa(spec.OffsetX),
		OffsetY:   strconv.Itoa(spec.OffsetY),
	}
}

func (form WallpaperForm) spec() (model.WallpaperSpec, error) {
	offsetX, err := parseOffset(form.OffsetX)
	if err != nil {
		return model.WallpaperSpec{}, err
	}
	offsetY, err := parseOffset(form.OffsetY)
	if err != nil {
		return model.WallpaperSpec{}, err
	}
	spec := model.WallpaperSpec{
		Source:     form.Source,
		File:       strings.TrimSpace(form.File),
		Dir:        strings.TrimSpace(form.Dir),
		FitPercent: model.ClampFitPercent(int(form.Fit)),
		Alignment:  form.Alignment,
		OffsetX:    offsetX,
		OffsetY:    offsetY,
	}
	if spec.Source == "" {
		spec.Source = model.SourceNone
	}
	if spec.Alignment == "" {
		spec.Alignment = model.AlignCenter
	}
	return spec, nil
}

func parseOffset(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrInvalidOffset
	}
	return parsed, nil
}
