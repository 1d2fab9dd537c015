// Package stage implements the main timer window: presets, a custom duration
// entry, start/pause/stop controls and its own wallpaper.
package stage

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timer"
	"focustimer/internal/imaging"
	"focustimer/internal/typography"
)

const (
	MinMinutes = 1
	MaxMinutes = 600
)

// Presets are the one-click countdown lengths in minutes.
var Presets = []int{25, 35}

var (
	ErrMinutesNotNumber = errors.New("minutes must be a whole number")
	ErrMinutesRange     = fmt.Errorf("minutes must be between %d and %d", MinMinutes, MaxMinutes)
	ErrTimerBusy        = errors.New("stop the timer before changing its length")
)

// ParseMinutes validates a custom countdown length.
func ParseMinutes(text string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrMinutesNotNumber
	}
	if minutes < MinMinutes || minutes > MaxMinutes {
		return 0, ErrMinutesRange
	}
	return minutes, nil
}

// Timer is the part of the timer engine driven by the stage.
type Timer interface {
	Snapshot() timer.State
	Configure(mode model.TimerMode, targetSeconds int) error
	Start(mode model.TimerMode, targetSeconds int) error
	TogglePause() error
	Stop() error
	Reset()
}

// Compositor renders wallpaper scenes.
type Compositor interface {
	Render(width, height int, spec model.WallpaperSpec) imaging.Scene
}

// Store is the slice of the Config Store used by the stage.
type Store interface {
	MainWallpaper() model.WallpaperSpec
	Appearance() model.Appearance
	ActiveTask() string
	SaveTimerTarget(mode model.TimerMode, countdownSeconds int) error
}

// View is the window the controller drives.
type View interface {
	SetTime(text string)
	SetFontSize(size int)
	SetScene(scene imaging.Scene)
	SetForeground(foreground color.NRGBA)
	SetStatus(status timer.Status)
	SetTask(name string)
	SetError(message string)
}

// Controller holds the main stage behaviour. Methods run on the UI goroutine.
type Controller struct {
	view       View
	timer      Timer
	compositor Compositor
	store      Store

	mode             model.TimerMode
	countdownSeconds int

	text       string
	size       model.Size
	fontSize   int
	fitted     model.Size
	composited model.Size
}

// NewController creates a stage controller starting from the stored timer defaults.
func NewController(view View, engine Timer, compositor Compositor, store Store, defaults model.TimerDefaults) *Controller {
	countdown := defaults.CountdownSeconds
	if countdown <= 0 {
		countdown = model.DefaultCountdownSeconds
	}
	mode := defaults.Mode
	if mode != model.TimerModeCountUp {
		mode = model.TimerModeCountdown
	}
	return &Controller{
		view:             view,
		timer:            engine,
		compositor:       compositor,
		store:            store,
		mode:             mode,
		countdownSeconds: countdown,
		text:             typography.PlaceholderText,
	}
}

// Mode returns the selected timer mode.
func (controller *Controller) Mode() model.TimerMode {
	return controller.mode
}

// CountdownSeconds returns the selected countdown length.
func (controller *Controller) CountdownSeconds() int {
	return controller.countdownSeconds
}

// FontSize returns the last fitted font size.
func (controller *Controller) FontSize() int {
	return controller.fontSize
}

// Init pushes the initial state to the view and configures the engine.
func (controller *Controller) Init() {
	controller.view.SetTask(controller.store.ActiveTask())
	controller.apply()
}

// SetDefaults adopts timer defaults changed in preferences. A running or
// paused timer keeps its current length.
func (controller *Controller) SetDefaults(defaults model.TimerDefaults) {
	if defaults.CountdownSeconds > 0 {
		controller.countdownSeconds = defaults.CountdownSeconds
	}
	status := controller.timer.Snapshot().Status
	if status == timer.StatusRunning || status == timer.StatusPaused {
		return
	}
	controller.apply()
}

// Preset selects a countdown length in minutes.
func (controller *Controller) Preset(minutes int) {
	if minutes < MinMinutes || minutes > MaxMinutes {
		controller.view.SetError(ErrMinutesRange.Error())
		return
	}
	controller.choose(model.TimerModeCountdown, minutes*60)
}

// Custom validates and selects a typed countdown length.
func (controller *Controller) Custom(text string) {
	minutes, err := ParseMinutes(text)
	if err != nil {
		controller.view.SetError(err.Error())
		return
	}
	controller.choose(model.TimerModeCountdown, minutes*60)
}

// SetMode switches between countdown and count-up.
func (controller *Controller) SetMode(mode model.TimerMode) {
	controller.choose(mode, controller.countdownSeconds)
}

// StartPause starts an idle or finished timer and toggles pause otherwise.
func (controller *Controller) StartPause() {
	var err error
	switch controller.timer.Snapshot().Status {
	case timer.StatusRunning, timer.StatusPaused:
		err = controller.timer.TogglePause()
	case timer.StatusFinished:
		controller.timer.Reset()
		err = controller.timer.Start(controller.mode, controller.target())
	default:
		err = controller.timer.Start(controller.mode, controller.target())
	}
	if err != nil {
		log.Printf("stage: start/pause: %v", err)
	}
	controller.view.SetStatus(controller.timer.Snapshot().Status)
}

// Stop ends the running session.
func (controller *Controller) Stop() {
	if err := controller.timer.Stop(); err != nil && !errors.Is(err, timer.ErrInvalidTransition) {
		log.Printf("stage: stop: %v", err)
	}
	controller.view.SetStatus(controller.timer.Snapshot().Status)
}

// Reset returns the timer to its configured start value.
func (controller *Controller) Reset() {
	controller.timer.Reset()
	controller.view.SetStatus(controller.timer.Snapshot().Status)
}

// Changed reports an engine transition so the controls follow it.
func (controller *Controller) Changed(status timer.Status) {
	controller.view.SetStatus(status)
}

// OnTick receives the formatted timer value. A width change left unfitted by
// Geometry is fitted here, once the resize has settled.
func (controller *Controller) OnTick(text string) {
	previous := controller.text
	controller.text = text
	controller.view.SetTime(text)
	if utf8.RuneCountInString(previous) != utf8.RuneCountInString(text) || controller.fitted != controller.size {
		controller.refit()
	}
}

// Geometry reacts to a size change of the time area. Only height changes
// refit immediately.
func (controller *Controller) Geometry(size model.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	heightChanged := size.Height != controller.size.Height
	controller.size = size
	if heightChanged {
		controller.refit()
	}
	if size != controller.composited {
		controller.recomposite()
	}
}

// Refresh re-renders the wallpaper after a settings change.
func (controller *Controller) Refresh() {
	controller.composited = model.Size{}
	controller.view.SetTask(controller.store.ActiveTask())
	if controller.size.Width > 0 && controller.size.Height > 0 {
		controller.recomposite()
	}
}

func (controller *Controller) choose(mode model.TimerMode, countdownSeconds int) {
	status := controller.timer.Snapshot().Status
	if status == timer.StatusRunning || status == timer.StatusPaused {
		controller.view.SetError(ErrTimerBusy.Error())
		return
	}
	controller.mode = mode
	controller.countdownSeconds = countdownSeconds
	controller.view.SetError("")
	controller.apply()
	if err := controller.store.SaveTimerTarget(mode, countdownSeconds); err != nil {
		log.Printf("stage: save timer target: %v", err)
		controller.view.SetError("Could not save settings: " + err.Error())
	}
}

func (controller *Controller) apply() {
	if err := controller.timer.Configure(controller.mode, controller.target()); err != nil {
		log.Printf("stage: configure: %v", err)
	}
	controller.view.SetStatus(controller.timer.Snapshot().Status)
}

func (controller *Controller) target() int {
	if controller.mode == model.TimerModeCountUp {
		return 0
	}
	return controller.countdownSeconds
}

func (controller *Controller) refit() {
	if controller.size.Width <= 0 || controller.size.Height <= 0 {
		return
	}
	controller.fitted = controller.size
	size := typography.FitFontSize(controller.size.Width, controller.size.Height, controller.text)
	if size == controller.fontSize {
		return
	}
	controller.fontSize = size
	controller.view.SetFontSize(size)
}

func (controller *Controller) recomposite() {
	scene := controller.compositor.Render(controller.size.Width, controller.size.Height, controller.store.MainWallpaper())
	controller.composited = controller.size
	controller.view.SetScene(scene)
	controller.view.SetForeground(imaging.TextColor(controller.store.Appearance(), scene.Background))
}
