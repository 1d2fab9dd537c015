package panel

import (
	"image/color"

	"focustimer/internal/core/model"
	"focustimer/internal/imaging"
	"focustimer/internal/platform"
	"focustimer/internal/typography"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	infoTextSize = 12
	edgePadding  = 8
	gripSide     = 16
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the fyne Surface of the floating panel: an undecorated window
// stacking the flattened wallpaper, the time label, the future line and the
// notes region.
type Window struct {
	app        fyne.App
	window     fyne.Window
	controller *Controller

	background *canvas.Image
	timeLabel  *canvas.Text
	infoLabel  *canvas.Text
	notes      *widget.Entry
	saveButton *widget.Button
	notesRow   *fyne.Container
	handle     *dragHandle
	grip       *resizeGrip

	reported model.Size
}

// NewWindow creates the hidden panel window.
func NewWindow(app fyne.App) *Window {
	window := app.NewWindow("Focus Timer")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewImageFromImage(nil)
	background.FillMode = canvas.ImageFillStretch
	background.ScaleMode = canvas.ImageScaleFastest

	timeLabel := canvas.NewText(typography.PlaceholderText, color.NRGBA{A: 255})
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true}

	infoLabel := canvas.NewText("", color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	infoLabel.Alignment = fyne.TextAlignLeading
	infoLabel.TextSize = infoTextSize

	notes := widget.NewMultiLineEntry()
	notes.Wrapping = fyne.TextWrapWord
	notes.SetMinRowsVisible(2)
	notes.SetPlaceHolder("Notes")

	surface := &Window{
		app:        app,
		window:     window,
		background: background,
		timeLabel:  timeLabel,
		infoLabel:  infoLabel,
		notes:      notes,
	}
	surface.saveButton = widget.NewButton("Save", func() {
		if surface.controller != nil {
			surface.controller.SaveNotes()
		}
	})
	surface.notesRow = container.NewBorder(nil, nil, nil, surface.saveButton, notes)
	surface.handle = newDragHandle(surface)
	surface.grip = newResizeGrip(surface)

	notes.OnChanged = func(text string) {
		if surface.controller != nil {
			surface.controller.NotesEdited(text)
		}
	}

	content := container.New(&panelLayout{surface: surface}, infoLabel, timeLabel, surface.notesRow, surface.grip)
	window.SetContent(container.NewStack(background, surface.handle, content))
	window.SetCloseIntercept(func() {
		if surface.controller != nil {
			surface.controller.Close()
			return
		}
		window.Hide()
	})
	return surface
}

// Bind attaches the controller that receives the window's input.
func (surface *Window) Bind(controller *Controller) {
	surface.controller = controller
}

// ScreenSize returns the primary screen size in canvas units.
func (surface *Window) ScreenSize() model.Size {
	screen := platform.ScreenSize()
	scale := surface.window.Canvas().Scale()
	if scale <= 0 {
		return screen
	}
	return model.Size{Width: int(float32(screen.Width) / scale), Height: int(float32(screen.Height) / scale)}
}

// Show implements Surface.
func (surface *Window) Show(position model.Point, size model.Size) {
	surface.reported = size
	surface.window.Resize(fyne.NewSize(float32(size.Width), float32(size.Height)))
	surface.window.Show()
	if !platform.PlaceWindow(surface.window, position, true) {
		surface.window.CenterOnScreen()
	}
}

// Hide implements Surface.
func (surface *Window) Hide() {
	surface.window.Hide()
}

// Move implements Surface.
func (surface *Window) Move(position model.Point) bool {
	return platform.PlaceWindow(surface.window, position, true)
}

// Resize implements Surface.
func (surface *Window) Resize(size model.Size) {
	surface.reported = size
	surface.window.Resize(fyne.NewSize(float32(size.Width), float32(size.Height)))
}

// SetTime implements Surface.
func (surface *Window) SetTime(text string) {
	surface.timeLabel.Text = text
	surface.timeLabel.Refresh()
}

// SetFontSize implements Surface.
func (surface *Window) SetFontSize(size int) {
	surface.timeLabel.TextSize = float32(size)
	surface.timeLabel.Refresh()
}

// SetForeground implements Surface.
func (surface *Window) SetForeground(foreground color.NRGBA) {
	surface.timeLabel.Color = foreground
	surface.infoLabel.Color = foreground
	surface.timeLabel.Refresh()
	surface.infoLabel.Refresh()
}

// SetScene implements Surface. The background stages are flattened into one
// image placed beneath every other object.
func (surface *Window) SetScene(scene imaging.Scene) {
	surface.background.Image = imaging.Flatten(scene)
	surface.background.Refresh()
}

// SetInfo implements Surface.
func (surface *Window) SetInfo(text string, visible bool) {
	surface.infoLabel.Text = text
	if visible {
		surface.infoLabel.Show()
	} else {
		surface.infoLabel.Hide()
	}
	surface.infoLabel.Refresh()
}

// SetNotes implements Surface.
func (surface *Window) SetNotes(text string, visible bool) {
	if surface.notes.Text != text {
		surface.notes.SetText(text)
	}
	if visible {
		surface.notesRow.Show()
	} else {
		surface.notesRow.Hide()
	}
}

// Warn implements Surface.
func (surface *Window) Warn(message string) {
	dialog.ShowInformation("Focus Timer", message, surface.window)
}

func (surface *Window) layoutChanged(size fyne.Size) {
	current := model.Size{Width: int(size.Width), Height: int(size.Height)}
	if current == surface.reported || surface.controller == nil {
		return
	}
	surface.reported = current
	fyne.Do(func() {
		surface.controller.Geometry(current)
	})
}

type panelLayout struct {
	surface *Window
}

func (layout *panelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	info := objects[0]
	timeLabel := objects[1]
	notesRow := objects[2]
	grip := objects[3]

	top := float32(edgePadding)
	if info.Visible() {
		infoSize := info.MinSize()
		info.Move(fyne.NewPos(edgePadding, edgePadding))
		info.Resize(fyne.NewSize(size.Width-edgePadding*2, infoSize.Height))
		top += infoSize.Height
	}

	bottom := size.Height - edgePadding
	if notesRow.Visible() {
		rowSize := notesRow.MinSize()
		bottom -= rowSize.Height
		notesRow.Move(fyne.NewPos(edgePadding, bottom))
		notesRow.Resize(fyne.NewSize(size.Width-edgePadding*2-gripSide, rowSize.Height))
	}

	labelHeight := bottom - top
	if labelHeight < 0 {
		labelHeight = 0
	}
	timeLabel.Move(fyne.NewPos(0, top))
	timeLabel.Resize(fyne.NewSize(size.Width, labelHeight))

	grip.Move(fyne.NewPos(size.Width-gripSide, size.Height-gripSide))
	grip.Resize(fyne.NewSize(gripSide, gripSide))

	layout.surface.layoutChanged(size)
}

func (layout *panelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(float32(DefaultMinSize.Width), float32(DefaultMinSize.Height))
}

// dragHandle covers the panel below its controls and turns pointer input
// into drag, double-tap and wheel gestures.
type dragHandle struct {
	widget.BaseWidget
	surface *Window
}

func newDragHandle(surface *Window) *dragHandle {
	handle := &dragHandle{surface: surface}
	handle.ExtendBaseWidget(handle)
	return handle
}

func (handle *dragHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (handle *dragHandle) MouseDown(event *desktop.MouseEvent) {
	if handle.surface.controller != nil && event.Button == desktop.MouseButtonPrimary {
		handle.surface.controller.PointerDown(toPoint(event.Position))
	}
}

func (handle *dragHandle) MouseUp(*desktop.MouseEvent) {
	if handle.surface.controller != nil {
		handle.surface.controller.PointerUp()
	}
}

func (handle *dragHandle) Dragged(event *fyne.DragEvent) {
	if handle.surface.controller != nil {
		handle.surface.controller.PointerMove(toPoint(event.Position))
	}
}

func (handle *dragHandle) DragEnd() {
	if handle.surface.controller != nil {
		handle.surface.controller.PointerUp()
	}
}

func (handle *dragHandle) DoubleTapped(*fyne.PointEvent) {
	if handle.surface.controller != nil {
		handle.surface.controller.DoubleTap()
	}
}

func (handle *dragHandle) Scrolled(event *fyne.ScrollEvent) {
	if handle.surface.controller == nil || event.Scrolled.DY == 0 {
		return
	}
	notches := 1
	if event.Scrolled.DY < 0 {
		notches = -1
	}
	handle.surface.controller.Wheel(notches, resizeModifierHeld(handle.surface.app))
}

// resizeGrip is the bottom-right corner handle.
type resizeGrip struct {
	widget.BaseWidget
	surface *Window
}

func newResizeGrip(surface *Window) *resizeGrip {
	grip := &resizeGrip{surface: surface}
	grip.ExtendBaseWidget(grip)
	return grip
}

func (grip *resizeGrip) CreateRenderer() fyne.WidgetRenderer {
	mark := canvas.NewLinearGradient(color.Transparent, color.NRGBA{A: 0x66}, 135)
	return widget.NewSimpleRenderer(mark)
}

func (grip *resizeGrip) Cursor() desktop.Cursor {
	return desktop.VResizeCursor
}

func (grip *resizeGrip) Dragged(event *fyne.DragEvent) {
	if grip.surface.controller != nil {
		grip.surface.controller.GripDrag(int(event.Dragged.DX), int(event.Dragged.DY))
	}
}

func (grip *resizeGrip) DragEnd() {
	if grip.surface.controller != nil {
		grip.surface.controller.GripRelease()
	}
}

func resizeModifierHeld(app fyne.App) bool {
	driver, ok := app.Driver().(desktop.Driver)
	if !ok {
		return false
	}
	modifiers := driver.CurrentKeyModifiers()
	return modifiers&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0
}

func toPoint(position fyne.Position) model.Point {
	return model.Point{X: int(position.X), Y: int(position.Y)}
}
