package model

import "time"

// TimerMode selects between counting down to a target and counting up.
type TimerMode string

const (
	TimerModeCountdown TimerMode = "countdown"
	TimerModeCountUp   TimerMode = "countup"
)

// SourceKind defines where a wallpaper image comes from.
type SourceKind string

const (
	SourceNone      SourceKind = "none"
	SourceFile      SourceKind = "file"
	SourceDirectory SourceKind = "directory"
)

// Alignment defines the vertical placement of a wallpaper image.
type Alignment string

const (
	AlignTop    Alignment = "top"
	AlignCenter Alignment = "center"
	AlignBottom Alignment = "bottom"
)

// FutureUnit selects how the distance to a future event is rendered.
type FutureUnit string

const (
	FutureUnitMixed   FutureUnit = "mixed"
	FutureUnitMonths  FutureUnit = "months"
	FutureUnitDays    FutureUnit = "days"
	FutureUnitHours   FutureUnit = "hours"
	FutureUnitMinutes FutureUnit = "minutes"
	FutureUnitSeconds FutureUnit = "seconds"
)

// FutureChoiceNearest picks the closest upcoming event.
const FutureChoiceNearest = "nearest"

// WallpaperSpec describes the wallpaper of one display surface.
type WallpaperSpec struct {
	Source     SourceKind
	File       string
	Dir        string
	FitPercent int
	Alignment  Alignment
	OffsetX    int
	OffsetY    int
}

// TimerDefaults holds the persisted timer settings.
type TimerDefaults struct {
	Mode             TimerMode
	CountdownSeconds int
	Beep             bool
	SoundFile        string
}

// PanelSettings holds the floating panel configuration and its persisted state.
type PanelSettings struct {
	Geometry     PanelGeometry
	FontBase     int
	ShowFuture   bool
	ShowNotes    bool
	NotesDraft   string
	NotesPath    string
	FutureChoice string
}

// Appearance holds the text color settings shared by both surfaces.
type Appearance struct {
	TimeColor   string
	TintDynamic bool
}

// MusicSettings configures the background playlist.
type MusicSettings struct {
	Dir     string
	Shuffle bool
}

// FutureEvent is a dated event shown as a countdown line.
type FutureEvent struct {
	Title string
	Date  string
}

// Task accumulates focused time.
type Task struct {
	Total  int
	Target int
}

// Session is a completed focus session.
type Session struct {
	Task    string
	Seconds int
	Start   time.Time
	End     time.Time
}

// Settings is the whole typed configuration document.
type Settings struct {
	Timer          TimerDefaults
	MainWallpaper  WallpaperSpec
	PanelWallpaper WallpaperSpec
	Panel          PanelSettings
	Appearance     Appearance
	Music          MusicSettings
	FutureEvents   []FutureEvent
	FutureUnit     FutureUnit
	Tasks          map[string]Task
	ActiveTask     string
	Sessions       []Session
	ColorCache     map[string]string
}

const (
	DefaultFitPercent       = 92
	DefaultCountdownSeconds = 25 * 60
	DefaultFontBase         = 72
	DefaultTask             = "Default"
)

// DefaultPanelSize is the floating panel size used when nothing is stored.
var DefaultPanelSize = Size{Width: 560, Height: 260}

// DefaultWallpaper returns an empty wallpaper spec with default sizing.
func DefaultWallpaper() WallpaperSpec {
	return WallpaperSpec{
		Source:     SourceNone,
		FitPercent: DefaultFitPercent,
		Alignment:  AlignCenter,
	}
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		Timer: TimerDefaults{
			Mode:             TimerModeCountdown,
			CountdownSeconds: DefaultCountdownSeconds,
			Beep:             true,
		},
		MainWallpaper:  DefaultWallpaper(),
		PanelWallpaper: DefaultWallpaper(),
		Panel: PanelSettings{
			Geometry:     PanelGeometry{Size: DefaultPanelSize},
			FontBase:     DefaultFontBase,
			ShowFuture:   true,
			ShowNotes:    true,
			FutureChoice: FutureChoiceNearest,
		},
		Appearance: Appearance{
			TimeColor:   "#000000",
			TintDynamic: true,
		},
		Music:      MusicSettings{Shuffle: true},
		FutureUnit: FutureUnitMixed,
		Tasks:      map[string]Task{DefaultTask: {}},
		ActiveTask: DefaultTask,
		ColorCache: map[string]string{},
	}
}

// ClampFitPercent bounds a stored fit percent to the usable range.
func ClampFitPercent(value int) int {
	if value < 10 {
		return 10
	}
	if value > 100 {
		return 100
	}
	return value
}
