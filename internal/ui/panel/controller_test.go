package panel

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"focustimer/internal/core/model"
	"focustimer/internal/imaging"
	"focustimer/internal/storage"
	"focustimer/internal/typography"
)

type fakeSurface struct {
	shown      bool
	position   model.Point
	size       model.Size
	moves      int
	resizes    []model.Size
	time       string
	fontSizes  []int
	scenes     int
	info       string
	infoShown  bool
	notes      string
	notesShown bool
	warnings   []string
	onNotes    func(string)
	// pinned surfaces ignore Move, like window systems without placement
	pinned bool
}

func (surface *fakeSurface) Show(position model.Point, size model.Size) {
	surface.shown = true
	surface.position = position
	surface.size = size
}

func (surface *fakeSurface) Hide() { surface.shown = false }
func (surface *fakeSurface) Move(position model.Point) bool {
	surface.moves++
	if surface.pinned {
		return false
	}
	surface.position = position
	return true
}
func (surface *fakeSurface) Resize(size model.Size) {
	surface.size = size
	surface.resizes = append(surface.resizes, size)
}
func (surface *fakeSurface) SetTime(text string) { surface.time = text }
func (surface *fakeSurface) SetFontSize(size int) {
	surface.fontSizes = append(surface.fontSizes, size)
}
func (surface *fakeSurface) SetForeground(color.NRGBA) {}
func (surface *fakeSurface) SetScene(imaging.Scene)    { surface.scenes++ }
func (surface *fakeSurface) SetInfo(text string, visible bool) {
	surface.info, surface.infoShown = text, visible
}
func (surface *fakeSurface) SetNotes(text string, visible bool) {
	surface.notes, surface.notesShown = text, visible
	// a real entry echoes programmatic changes back
	if surface.onNotes != nil {
		surface.onNotes(text)
	}
}
func (surface *fakeSurface) Warn(message string) {
	surface.warnings = append(surface.warnings, message)
}

type countingCompositor struct {
	sizes []model.Size
}

func (compositor *countingCompositor) Render(width, height int, spec model.WallpaperSpec) imaging.Scene {
	size := model.Size{Width: width, Height: height}
	compositor.sizes = append(compositor.sizes, size)
	return imaging.Scene{Size: size, Background: imaging.FallbackColor}
}

type fakeStore struct {
	panel      model.PanelSettings
	geometries []model.PanelGeometry
	drafts     []string
	appended   []string
	appendErr  error
	events     []model.FutureEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{panel: model.DefaultSettings().Panel}
}

func (store *fakeStore) PanelSettings() model.PanelSettings  { return store.panel }
func (store *fakeStore) PanelWallpaper() model.WallpaperSpec { return model.DefaultWallpaper() }
func (store *fakeStore) Appearance() model.Appearance        { return model.DefaultSettings().Appearance }
func (store *fakeStore) FutureEvents() ([]model.FutureEvent, model.FutureUnit) {
	return store.events, model.FutureUnitDays
}

func (store *fakeStore) SavePanelGeometry(geometry model.PanelGeometry) error {
	store.geometries = append(store.geometries, geometry)
	store.panel.Geometry = geometry
	return nil
}

func (store *fakeStore) SaveNotesDraft(text string) error {
	store.drafts = append(store.drafts, text)
	store.panel.NotesDraft = text
	return nil
}

func (store *fakeStore) AppendNote(text string, _ time.Time) error {
	if store.appendErr != nil {
		return store.appendErr
	}
	if store.panel.NotesPath == "" {
		return storage.ErrNoNotesPath
	}
	store.appended = append(store.appended, text)
	return nil
}

func newTestController(store *fakeStore) (*Controller, *fakeSurface, *countingCompositor) {
	surface := &fakeSurface{}
	compositor := &countingCompositor{}
	controller := NewController(surface, compositor, store, Config{
		Screen: func() model.Size { return model.Size{Width: 1600, Height: 900} },
		Now:    func() time.Time { return time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC) },
	})
	surface.onNotes = controller.NotesEdited
	return controller, surface, compositor
}

func TestOpenCentersWithoutStoredPosition(t *testing.T) {
	controller, surface, compositor := newTestController(newFakeStore())
	controller.Open()
	controller.Open()

	if !surface.shown || surface.position != (model.Point{X: 520, Y: 320}) {
		t.Fatalf("expected centered panel, got %+v", surface.position)
	}
	if surface.time != "00:00:00" {
		t.Fatalf("expected placeholder time, got %q", surface.time)
	}
	if len(compositor.sizes) != 1 {
		t.Fatalf("open must composite once, got %d", len(compositor.sizes))
	}
	if controller.FontSize() != 56 {
		t.Fatalf("expected font 56 for 560x260, got %d", controller.FontSize())
	}
}

func TestOpenRestoresStoredGeometry(t *testing.T) {
	store := newFakeStore()
	store.panel.Geometry = model.PanelGeometry{Position: &model.Point{X: 10, Y: 20}, Size: model.Size{Width: 100, Height: 50}}
	controller, surface, _ := newTestController(store)
	controller.Open()
	if surface.position != (model.Point{X: 10, Y: 20}) {
		t.Fatalf("unexpected position %+v", surface.position)
	}
	if surface.size != DefaultMinSize {
		t.Fatalf("stored size below minimum must clamp, got %+v", surface.size)
	}
}

func TestToggleAndDoubleTap(t *testing.T) {
	store := newFakeStore()
	controller, surface, _ := newTestController(store)
	controller.Toggle()
	if !controller.IsOpen() || !surface.shown {
		t.Fatalf("toggle must open")
	}
	controller.DoubleTap()
	if controller.IsOpen() || surface.shown {
		t.Fatalf("double tap must close")
	}
	controller.Close()
	if len(store.geometries) != 1 {
		t.Fatalf("geometry must be persisted once on close, got %d", len(store.geometries))
	}
}

func TestMoveOnlyEventsNeverRecomposite(t *testing.T) {
	controller, surface, compositor := newTestController(newFakeStore())
	controller.Open()
	before := len(compositor.sizes)

	controller.PointerDown(model.Point{X: 30, Y: 40})
	for i := 1; i <= 50; i++ {
		controller.PointerMove(model.Point{X: 30 + i%3, Y: 40 - i%2})
		controller.Geometry(controller.Size())
	}
	controller.PointerUp()

	if got := len(compositor.sizes) - before; got != 0 {
		t.Fatalf("move-only events caused %d recomposites", got)
	}
	if surface.moves != 50 {
		t.Fatalf("expected 50 moves, got %d", surface.moves)
	}
}

func TestOneRecompositePerDistinctSize(t *testing.T) {
	controller, _, compositor := newTestController(newFakeStore())
	controller.Open()
	compositor.sizes = nil

	sizes := []model.Size{
		{Width: 600, Height: 260}, {Width: 600, Height: 260}, {Width: 600, Height: 260},
		{Width: 600, Height: 300}, {Width: 600, Height: 300},
		{Width: 640, Height: 300},
	}
	for _, size := range sizes {
		controller.Geometry(size)
	}
	if len(compositor.sizes) != 3 {
		t.Fatalf("expected 3 recomposites, got %v", compositor.sizes)
	}
}

func TestDragTracksPointer(t *testing.T) {
	store := newFakeStore()
	store.panel.Geometry.Position = &model.Point{X: 100, Y: 100}
	controller, surface, _ := newTestController(store)
	controller.Open()

	controller.PointerDown(model.Point{X: 10, Y: 10})
	controller.PointerMove(model.Point{X: 25, Y: 5})
	controller.PointerMove(model.Point{X: 12, Y: 13})
	if surface.position != (model.Point{X: 117, Y: 98}) {
		t.Fatalf("unexpected position %+v", surface.position)
	}
	if len(store.geometries) != 0 {
		t.Fatalf("intermediate moves must not persist")
	}
	controller.PointerUp()
	if len(store.geometries) != 1 || *store.geometries[0].Position != (model.Point{X: 117, Y: 98}) {
		t.Fatalf("release must persist final position, got %+v", store.geometries)
	}
	controller.PointerMove(model.Point{X: 50, Y: 50})
	if surface.position != (model.Point{X: 117, Y: 98}) {
		t.Fatalf("moves after release must be ignored")
	}
}

func TestDragOnPinnedWindowCountsEachDeltaOnce(t *testing.T) {
	store := newFakeStore()
	store.panel.Geometry.Position = &model.Point{X: 100, Y: 100}
	controller, surface, _ := newTestController(store)
	surface.pinned = true
	controller.Open()

	controller.PointerDown(model.Point{X: 10, Y: 10})
	controller.PointerMove(model.Point{X: 25, Y: 5})
	controller.PointerMove(model.Point{X: 30, Y: 0})
	if controller.Position() != (model.Point{X: 120, Y: 90}) {
		t.Fatalf("unexpected position %+v", controller.Position())
	}
	controller.PointerUp()
	if got := *store.geometries[len(store.geometries)-1].Position; got != (model.Point{X: 120, Y: 90}) {
		t.Fatalf("release persisted %+v", got)
	}
}

func TestWheelResizeClampsToMinimum(t *testing.T) {
	store := newFakeStore()
	controller, surface, _ := newTestController(store)
	controller.Open()

	controller.Wheel(1, false)
	if len(surface.resizes) != 0 {
		t.Fatalf("wheel without modifier must not resize")
	}
	controller.Wheel(1, true)
	if controller.Size() != (model.Size{Width: 580, Height: 270}) {
		t.Fatalf("unexpected grow %+v", controller.Size())
	}
	for i := 0; i < 100; i++ {
		controller.Wheel(-1, true)
		size := controller.Size()
		if size.Width < 280 || size.Height < 160 {
			t.Fatalf("panel shrank below minimum: %+v", size)
		}
	}
	if controller.Size() != DefaultMinSize {
		t.Fatalf("expected minimum size, got %+v", controller.Size())
	}
	last := store.geometries[len(store.geometries)-1]
	if last.Size != DefaultMinSize {
		t.Fatalf("resize must persist, got %+v", last)
	}
}

func TestGripResizePersistsOnRelease(t *testing.T) {
	store := newFakeStore()
	controller, _, compositor := newTestController(store)
	controller.Open()
	compositor.sizes = nil

	controller.GripDrag(10, 0)
	controller.GripDrag(10, 20)
	if len(store.geometries) != 0 {
		t.Fatalf("grip drag must not persist before release")
	}
	controller.GripRelease()
	if controller.Size() != (model.Size{Width: 580, Height: 280}) || len(store.geometries) != 1 {
		t.Fatalf("unexpected grip result %+v %d", controller.Size(), len(store.geometries))
	}
	if len(compositor.sizes) != 2 {
		t.Fatalf("expected one recomposite per size, got %v", compositor.sizes)
	}
}

func TestFinishedResizeRefitsFont(t *testing.T) {
	store := newFakeStore()
	controller, _, _ := newTestController(store)
	controller.Open()
	start := controller.Size()

	controller.GripDrag(-200, 0)
	controller.GripRelease()
	want := typography.FitFontSize(start.Width-200, start.Height, typography.PlaceholderText)
	if controller.FontSize() != want {
		t.Fatalf("grip release: expected %d, got %d", want, controller.FontSize())
	}

	controller.GripDrag(240, -200)
	controller.GripRelease()
	if controller.Size().Height != DefaultMinSize.Height {
		t.Fatalf("expected minimum height, got %+v", controller.Size())
	}
	controller.Wheel(-1, true)
	size := controller.Size()
	want = typography.FitFontSize(size.Width, size.Height, typography.PlaceholderText)
	if size.Height != DefaultMinSize.Height || controller.FontSize() != want {
		t.Fatalf("wheel at minimum height: size %+v font %d want %d", size, controller.FontSize(), want)
	}
}

func TestOpenSeedsFontBaseBeforeFit(t *testing.T) {
	store := newFakeStore()
	store.panel.FontBase = 90
	controller, surface, _ := newTestController(store)
	controller.Open()

	if len(surface.fontSizes) != 2 || surface.fontSizes[0] != 90 {
		t.Fatalf("expected base then fitted size, got %v", surface.fontSizes)
	}
	if controller.FontSize() != 56 {
		t.Fatalf("expected fitted 56, got %d", controller.FontSize())
	}
}

func TestFontRefitsOnHeightAndTextLength(t *testing.T) {
	controller, surface, _ := newTestController(newFakeStore())
	controller.Open()
	fits := len(surface.fontSizes)

	controller.Geometry(model.Size{Width: 2000, Height: 260})
	if len(surface.fontSizes) != fits {
		t.Fatalf("width-only change must not refit")
	}
	controller.Geometry(model.Size{Width: 600, Height: 200})
	if controller.FontSize() != 60 {
		t.Fatalf("expected 60, got %d", controller.FontSize())
	}
	controller.OnTick("00:00:01")
	if len(surface.fontSizes) != fits+1 || surface.time != "00:00:01" {
		t.Fatalf("same-length tick must only update the label")
	}
	controller.OnTick("100:00:00")
	if controller.FontSize() != 53 {
		t.Fatalf("longer text must refit to 53, got %d", controller.FontSize())
	}
}

func TestFutureLineToggle(t *testing.T) {
	store := newFakeStore()
	store.events = []model.FutureEvent{{Title: "Launch", Date: "2026-10-21"}}
	controller, surface, _ := newTestController(store)
	controller.Open()
	if !surface.infoShown || surface.info != "Launch · 2 days left" {
		t.Fatalf("unexpected info %q %v", surface.info, surface.infoShown)
	}

	controller.Close()
	store.panel.ShowFuture = false
	controller.Open()
	if surface.infoShown {
		t.Fatalf("future line must be hidden when disabled")
	}
}

func TestSaveNotesWithPathClearsRegionKeepsDraft(t *testing.T) {
	store := newFakeStore()
	store.panel.NotesPath = "/tmp/notes.txt"
	controller, surface, _ := newTestController(store)
	controller.Open()

	controller.NotesEdited("ship the release")
	controller.SaveNotes()

	if surface.notes != "" || controller.Notes() != "" {
		t.Fatalf("edit region must be cleared, got %q", surface.notes)
	}
	if controller.Draft() != "ship the release" {
		t.Fatalf("draft must keep the saved text, got %q", controller.Draft())
	}
	if len(store.appended) != 1 || store.appended[0] != "ship the release" {
		t.Fatalf("unexpected appended notes %v", store.appended)
	}
	if len(surface.warnings) != 0 {
		t.Fatalf("unexpected warnings %v", surface.warnings)
	}

	controller.Close()
	controller.Open()
	if surface.notes != "ship the release" {
		t.Fatalf("reopen must restore the draft, got %q", surface.notes)
	}
}

func TestSaveNotesWithoutPathWarns(t *testing.T) {
	store := newFakeStore()
	controller, surface, _ := newTestController(store)
	controller.Open()

	controller.NotesEdited("remember this")
	controller.SaveNotes()

	if controller.Notes() != "remember this" {
		t.Fatalf("edit region must be unchanged, got %q", controller.Notes())
	}
	if len(surface.warnings) != 1 {
		t.Fatalf("expected one warning, got %v", surface.warnings)
	}
}

func TestSaveNotesWriteFailureWarnsOnce(t *testing.T) {
	store := newFakeStore()
	store.panel.NotesPath = "/tmp/notes.txt"
	store.appendErr = errors.New("read-only file system")
	controller, surface, _ := newTestController(store)
	controller.Open()

	controller.NotesEdited("draft")
	controller.SaveNotes()
	if controller.Notes() != "draft" || len(surface.warnings) != 1 {
		t.Fatalf("expected kept region and one warning, got %q %v", controller.Notes(), surface.warnings)
	}
}

func TestSaveNotesAgainstRealStore(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "settings.yaml"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	notesPath := filepath.Join(dir, "notes.txt")
	if err := store.Update(func(settings *model.Settings) { settings.Panel.NotesPath = notesPath }); err != nil {
		t.Fatalf("update: %v", err)
	}

	surface := &fakeSurface{}
	controller := NewController(surface, &countingCompositor{}, store, Config{
		Now: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local) },
	})
	surface.onNotes = controller.NotesEdited
	controller.Open()
	controller.NotesEdited("first")
	controller.SaveNotes()

	data, err := os.ReadFile(notesPath)
	if err != nil {
		t.Fatalf("read notes: %v", err)
	}
	if !strings.HasPrefix(string(data), "[2026-01-02 03:04:05]\nfirst\n") {
		t.Fatalf("unexpected notes file %q", data)
	}
	if store.PanelSettings().NotesDraft != "first" {
		t.Fatalf("draft not persisted")
	}
}

func TestVisibilityCallback(t *testing.T) {
	var seen []bool
	controller := NewController(&fakeSurface{}, &countingCompositor{}, newFakeStore(), Config{
		OnVisibility: func(open bool) { seen = append(seen, open) },
	})
	controller.Open()
	controller.DoubleTap()
	controller.DoubleTap()
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("expected open then close, got %v", seen)
	}
}
