// Package panel implements the floating always-on-top timer panel: its
// lifecycle, drag and resize interaction, redraw throttling and notes.
//
// Controller holds the behaviour and talks to the window through Surface.
// All methods must be called on the UI goroutine.
package panel

import (
	"errors"
	"image/color"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"focustimer/internal/core/future"
	"focustimer/internal/core/model"
	"focustimer/internal/imaging"
	"focustimer/internal/storage"
	"focustimer/internal/typography"
)

const (
	defaultWheelStep = 20
	warnNoNotesPath  = "No notes file is configured. Choose one in Preferences."
)

// DefaultMinSize is the smallest panel size reachable by resizing.
var DefaultMinSize = model.Size{Width: 280, Height: 160}

// Surface is the window the controller drives.
type Surface interface {
	Show(position model.Point, size model.Size)
	Hide()
	// Move places the window and reports whether it actually moved.
	Move(position model.Point) bool
	Resize(size model.Size)
	SetTime(text string)
	SetFontSize(size int)
	SetForeground(foreground color.NRGBA)
	SetScene(scene imaging.Scene)
	SetInfo(text string, visible bool)
	SetNotes(text string, visible bool)
	Warn(message string)
}

// Compositor renders wallpaper scenes.
type Compositor interface {
	Render(width, height int, spec model.WallpaperSpec) imaging.Scene
}

// Store is the slice of the Config Store used by the panel.
type Store interface {
	PanelSettings() model.PanelSettings
	PanelWallpaper() model.WallpaperSpec
	Appearance() model.Appearance
	FutureEvents() ([]model.FutureEvent, model.FutureUnit)
	SavePanelGeometry(geometry model.PanelGeometry) error
	SaveNotesDraft(text string) error
	AppendNote(text string, at time.Time) error
}

// Config contains runtime options for Controller.
type Config struct {
	MinSize   model.Size
	WheelStep int
	Screen    func() model.Size
	Now       func() time.Time
	// OnVisibility is called after the panel opens or closes.
	OnVisibility func(open bool)
}

// Controller is the floating panel state machine: Closed -> Open -> Closed.
type Controller struct {
	surface    Surface
	compositor Compositor
	store      Store
	config     Config

	open     bool
	settings model.PanelSettings
	position model.Point
	size     model.Size

	text       string
	fontSize   int
	lastHeight int
	composited model.Size
	composites int

	dragging   bool
	dragOffset model.Point
	gripping   bool

	notes        string
	draft        string
	suppressEcho bool
}

// NewController creates a closed panel controller.
func NewController(surface Surface, compositor Compositor, store Store, config Config) *Controller {
	if config.MinSize.Width <= 0 || config.MinSize.Height <= 0 {
		config.MinSize = DefaultMinSize
	}
	if config.WheelStep <= 0 {
		config.WheelStep = defaultWheelStep
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Screen == nil {
		config.Screen = func() model.Size { return model.Size{Width: 1920, Height: 1080} }
	}
	settings := store.PanelSettings()
	return &Controller{
		surface:    surface,
		compositor: compositor,
		store:      store,
		config:     config,
		settings:   settings,
		text:       typography.PlaceholderText,
		draft:      settings.NotesDraft,
	}
}

// IsOpen reports whether the panel is shown.
func (controller *Controller) IsOpen() bool {
	return controller.open
}

// Position returns the current panel position.
func (controller *Controller) Position() model.Point {
	return controller.position
}

// Size returns the current panel size.
func (controller *Controller) Size() model.Size {
	return controller.size
}

// FontSize returns the last fitted font size.
func (controller *Controller) FontSize() int {
	return controller.fontSize
}

// Composites returns how many wallpaper composites ran since creation.
func (controller *Controller) Composites() int {
	return controller.composites
}

// Draft returns the in-memory notes draft.
func (controller *Controller) Draft() string {
	return controller.draft
}

// Notes returns the current content of the edit region.
func (controller *Controller) Notes() string {
	return controller.notes
}

// Open shows the panel at its stored position, or centered, with its stored
// size. The label starts at the stored font base until the first fit.
// Opening an open panel does nothing.
func (controller *Controller) Open() {
	if controller.open {
		return
	}
	controller.settings = controller.store.PanelSettings()
	controller.size = controller.clamp(controller.settings.Geometry.Size)
	if position := controller.settings.Geometry.Position; position != nil {
		controller.position = *position
	} else {
		controller.position = model.Centered(controller.config.Screen(), controller.size)
	}

	controller.open = true
	controller.composited = model.Size{}
	controller.lastHeight = 0
	controller.fontSize = 0
	controller.notes = controller.draft
	if base := controller.settings.FontBase; base > 0 {
		controller.fontSize = typography.Clamp(base)
		controller.surface.SetFontSize(controller.fontSize)
	}

	controller.surface.Show(controller.position, controller.size)
	controller.surface.SetTime(controller.text)
	controller.refreshInfo()
	controller.surface.SetNotes(controller.notes, controller.settings.ShowNotes)
	controller.Geometry(controller.size)
	controller.notifyVisibility()
}

// Close persists the geometry and hides the panel. Closing a closed panel
// does nothing.
func (controller *Controller) Close() {
	if !controller.open {
		return
	}
	controller.open = false
	controller.dragging = false
	controller.gripping = false

	controller.persistGeometry()
	if controller.draft != controller.settings.NotesDraft {
		if err := controller.store.SaveNotesDraft(controller.draft); err != nil {
			log.Printf("panel: save notes draft: %v", err)
		}
		controller.settings.NotesDraft = controller.draft
	}
	controller.surface.Hide()
	controller.notifyVisibility()
}

func (controller *Controller) notifyVisibility() {
	if controller.config.OnVisibility != nil {
		controller.config.OnVisibility(controller.open)
	}
}

// Toggle opens a closed panel and closes an open one.
func (controller *Controller) Toggle() {
	if controller.open {
		controller.Close()
		return
	}
	controller.Open()
}

// DoubleTap closes the panel.
func (controller *Controller) DoubleTap() {
	controller.Close()
}

// PointerDown starts a drag at a panel-local pointer position.
func (controller *Controller) PointerDown(local model.Point) {
	if !controller.open {
		return
	}
	controller.dragging = true
	controller.dragOffset = local
}

// PointerMove tracks the pointer 1:1: position += local - offset. When the
// window system cannot move the window, local positions stay relative to the
// old origin and the offset follows the pointer instead.
func (controller *Controller) PointerMove(local model.Point) {
	if !controller.open || !controller.dragging {
		return
	}
	controller.position = controller.position.Add(local.Sub(controller.dragOffset))
	if !controller.surface.Move(controller.position) {
		controller.dragOffset = local
	}
}

// PointerUp ends a drag and persists the final position.
func (controller *Controller) PointerUp() {
	if !controller.open || !controller.dragging {
		return
	}
	controller.dragging = false
	controller.persistGeometry()
	controller.refit()
}

// Wheel resizes the panel by WheelStep in width and half of it in height per
// notch while the modifier is held.
func (controller *Controller) Wheel(notches int, modifier bool) {
	if !controller.open || !modifier || notches == 0 {
		return
	}
	step := controller.config.WheelStep
	next := model.Size{
		Width:  controller.size.Width + step*notches,
		Height: controller.size.Height + step/2*notches,
	}
	controller.resize(next)
	controller.persistGeometry()
	controller.refit()
}

// GripDrag resizes the panel by a corner-grip delta.
func (controller *Controller) GripDrag(dx, dy int) {
	if !controller.open {
		return
	}
	controller.gripping = true
	controller.resize(model.Size{
		Width:  controller.size.Width + dx,
		Height: controller.size.Height + dy,
	})
}

// GripRelease persists the size reached by the corner grip and refits the font.
func (controller *Controller) GripRelease() {
	if !controller.open || !controller.gripping {
		return
	}
	controller.gripping = false
	controller.persistGeometry()
	controller.refit()
}

// Geometry reacts to a viewport size change. The font is refitted when the
// height changes; the wallpaper is recomposited only for a size not yet
// composited.
func (controller *Controller) Geometry(size model.Size) {
	if !controller.open || size.Width <= 0 || size.Height <= 0 {
		return
	}
	controller.size = size
	if size.Height != controller.lastHeight {
		controller.lastHeight = size.Height
		controller.refit()
	}
	if size != controller.composited {
		controller.recomposite()
	}
}

// Refresh re-reads the panel settings and forces a recomposite.
func (controller *Controller) Refresh() {
	controller.settings = controller.store.PanelSettings()
	if !controller.open {
		return
	}
	controller.composited = model.Size{}
	controller.recomposite()
	controller.refreshInfo()
	controller.surface.SetNotes(controller.notes, controller.settings.ShowNotes)
}

// OnTick receives the formatted timer value.
func (controller *Controller) OnTick(text string) {
	previous := controller.text
	controller.text = text
	if !controller.open {
		return
	}
	controller.surface.SetTime(text)
	if utf8.RuneCountInString(previous) != utf8.RuneCountInString(text) {
		controller.refit()
	}
	controller.refreshInfo()
}

// NotesEdited mirrors the edit region into the in-memory draft.
func (controller *Controller) NotesEdited(text string) {
	if controller.suppressEcho {
		return
	}
	controller.notes = text
	controller.draft = text
}

// SaveNotes appends the edit region to the notes file and clears the region.
// The draft keeps the saved text. Without a notes file, or when the write
// fails, the region is left as is and a warning is shown.
func (controller *Controller) SaveNotes() {
	text := strings.TrimSpace(controller.notes)
	controller.draft = text

	draftErr := controller.store.SaveNotesDraft(text)
	if draftErr == nil {
		controller.settings.NotesDraft = text
	}

	err := controller.store.AppendNote(text, controller.config.Now())
	switch {
	case errors.Is(err, storage.ErrNoNotesPath):
		controller.surface.Warn(warnNoNotesPath)
		return
	case err != nil:
		log.Printf("panel: append note: %v", err)
		controller.surface.Warn("Could not write notes: " + err.Error())
		return
	case draftErr != nil:
		log.Printf("panel: save notes draft: %v", draftErr)
		controller.surface.Warn("Could not save settings: " + draftErr.Error())
	}

	controller.notes = ""
	controller.suppressEcho = true
	controller.surface.SetNotes("", controller.settings.ShowNotes)
	controller.suppressEcho = false
}

func (controller *Controller) resize(size model.Size) {
	size = controller.clamp(size)
	if size == controller.size {
		return
	}
	controller.surface.Resize(size)
	controller.Geometry(size)
}

func (controller *Controller) clamp(size model.Size) model.Size {
	if size.Width <= 0 || size.Height <= 0 {
		size = model.DefaultPanelSize
	}
	return model.Size{
		Width:  max(controller.config.MinSize.Width, size.Width),
		Height: max(controller.config.MinSize.Height, size.Height),
	}
}

func (controller *Controller) refit() {
	size := typography.FitFontSize(controller.size.Width, controller.size.Height, controller.text)
	if size == controller.fontSize {
		return
	}
	controller.fontSize = size
	controller.surface.SetFontSize(size)
}

func (controller *Controller) recomposite() {
	scene := controller.compositor.Render(controller.size.Width, controller.size.Height, controller.store.PanelWallpaper())
	controller.composited = controller.size
	controller.composites++
	controller.surface.SetScene(scene)
	controller.surface.SetForeground(imaging.TextColor(controller.store.Appearance(), scene.Background))
}

func (controller *Controller) refreshInfo() {
	if !controller.settings.ShowFuture {
		controller.surface.SetInfo("", false)
		return
	}
	events, unit := controller.store.FutureEvents()
	line := future.Line(events, controller.settings.FutureChoice, unit, controller.config.Now())
	controller.surface.SetInfo(line, line != "")
}

func (controller *Controller) persistGeometry() {
	position := controller.position
	geometry := model.PanelGeometry{Position: &position, Size: controller.size}
	controller.settings.Geometry = geometry
	if err := controller.store.SavePanelGeometry(geometry); err != nil {
		log.Printf("panel: save geometry: %v", err)
		controller.surface.Warn("Could not save panel position: " + err.Error())
	}
}
