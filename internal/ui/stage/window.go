package stage

import (
	"fmt"
	"image/color"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timer"
	"focustimer/internal/imaging"
	"focustimer/internal/typography"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var modeLabels = map[model.TimerMode]string{
	model.TimerModeCountdown: "Countdown",
	model.TimerModeCountUp:   "Count up",
}

// Callbacks defines stage actions handled outside the stage.
type Callbacks struct {
	OnTogglePanel func()
	OnPreferences func()
}

// Window is the fyne View of the main stage.
type Window struct {
	window     fyne.Window
	controller *Controller
	callbacks  Callbacks

	background *canvas.Image
	timeLabel  *canvas.Text
	taskLabel  *widget.Label
	errorLabel *canvas.Text
	custom     *widget.Entry
	mode       *widget.Select
	startPause *widget.Button
	stop       *widget.Button

	reported model.Size
}

// NewWindow creates the hidden main stage window.
func NewWindow(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Focus Timer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	stage := &Window{window: window, callbacks: callbacks}

	stage.background = canvas.NewImageFromImage(nil)
	stage.background.FillMode = canvas.ImageFillStretch

	stage.timeLabel = canvas.NewText(typography.PlaceholderText, theme.Color(theme.ColorNameForeground))
	stage.timeLabel.Alignment = fyne.TextAlignCenter
	stage.timeLabel.TextStyle = fyne.TextStyle{Bold: true}

	stage.taskLabel = widget.NewLabel("")
	stage.errorLabel = canvas.NewText("", theme.Color(theme.ColorNameError))
	stage.errorLabel.TextSize = theme.CaptionTextSize()

	presets := container.NewHBox()
	for _, minutes := range Presets {
		presets.Add(widget.NewButton(fmt.Sprintf("%d min", minutes), func() {
			stage.withController(func(controller *Controller) { controller.Preset(minutes) })
		}))
	}

	stage.custom = widget.NewEntry()
	stage.custom.SetPlaceHolder("minutes")
	stage.custom.OnSubmitted = func(text string) {
		stage.withController(func(controller *Controller) { controller.Custom(text) })
	}
	setCustom := widget.NewButton("Set", func() {
		stage.withController(func(controller *Controller) { controller.Custom(stage.custom.Text) })
	})

	stage.mode = widget.NewSelect([]string{modeLabels[model.TimerModeCountdown], modeLabels[model.TimerModeCountUp]}, func(selected string) {
		for mode, label := range modeLabels {
			if label == selected {
				stage.withController(func(controller *Controller) {
					if controller.Mode() != mode {
						controller.SetMode(mode)
					}
				})
			}
		}
	})

	stage.startPause = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		stage.withController((*Controller).StartPause)
	})
	stage.stop = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), func() {
		stage.withController((*Controller).Stop)
	})
	reset := widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		stage.withController((*Controller).Reset)
	})
	panelButton := widget.NewButton("Floating panel", func() {
		if stage.callbacks.OnTogglePanel != nil {
			stage.callbacks.OnTogglePanel()
		}
	})
	preferences := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if stage.callbacks.OnPreferences != nil {
			stage.callbacks.OnPreferences()
		}
	})

	header := container.NewBorder(nil, nil, nil, container.NewHBox(panelButton, preferences), stage.taskLabel)
	lengthRow := container.NewBorder(nil, nil, container.NewHBox(stage.mode, presets), setCustom, stage.custom)
	controls := container.NewVBox(
		lengthRow,
		stage.errorLabel,
		container.NewHBox(layout.NewSpacer(), stage.startPause, stage.stop, reset, layout.NewSpacer()),
	)
	timeArea := container.New(&timeLayout{stage: stage}, stage.background, stage.timeLabel)

	window.SetContent(container.NewBorder(header, controls, nil, nil, timeArea))
	window.Resize(fyne.NewSize(640, 420))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	return stage
}

// Bind attaches the controller that receives the window's input.
func (stage *Window) Bind(controller *Controller) {
	stage.controller = controller
	stage.mode.SetSelected(modeLabels[controller.Mode()])
	stage.custom.SetText(fmt.Sprintf("%d", controller.CountdownSeconds()/60))
}

// Show displays the stage window.
func (stage *Window) Show() {
	stage.window.Show()
	stage.window.RequestFocus()
}

// Window returns the underlying fyne window for dialogs.
func (stage *Window) Window() fyne.Window {
	return stage.window
}

// SetTime implements View.
func (stage *Window) SetTime(text string) {
	stage.timeLabel.Text = text
	stage.timeLabel.Refresh()
}

// SetFontSize implements View.
func (stage *Window) SetFontSize(size int) {
	stage.timeLabel.TextSize = float32(size)
	stage.timeLabel.Refresh()
}

// SetScene implements View.
func (stage *Window) SetScene(scene imaging.Scene) {
	stage.background.Image = imaging.Flatten(scene)
	stage.background.Refresh()
}

// SetForeground implements View.
func (stage *Window) SetForeground(foreground color.NRGBA) {
	stage.timeLabel.Color = foreground
	stage.timeLabel.Refresh()
}

// SetStatus implements View.
func (stage *Window) SetStatus(status timer.Status) {
	switch status {
	case timer.StatusRunning:
		stage.startPause.SetText("Pause")
		stage.startPause.SetIcon(theme.MediaPauseIcon())
		stage.stop.Enable()
	case timer.StatusPaused:
		stage.startPause.SetText("Resume")
		stage.startPause.SetIcon(theme.MediaPlayIcon())
		stage.stop.Enable()
	default:
		stage.startPause.SetText("Start")
		stage.startPause.SetIcon(theme.MediaPlayIcon())
		stage.stop.Disable()
	}
}

// SetTask implements View.
func (stage *Window) SetTask(name string) {
	stage.taskLabel.SetText("Task: " + name)
}

// SetError implements View.
func (stage *Window) SetError(message string) {
	stage.errorLabel.Text = message
	stage.errorLabel.Refresh()
}

func (stage *Window) withController(action func(*Controller)) {
	if stage.controller != nil {
		action(stage.controller)
	}
}

func (stage *Window) layoutChanged(size fyne.Size) {
	current := model.Size{Width: int(size.Width), Height: int(size.Height)}
	if current == stage.reported || stage.controller == nil {
		return
	}
	stage.reported = current
	fyne.Do(func() {
		stage.controller.Geometry(current)
	})
}

type timeLayout struct {
	stage *Window
}

func (layout *timeLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, object := range objects {
		object.Move(fyne.NewPos(0, 0))
		object.Resize(size)
	}
	layout.stage.layoutChanged(size)
}

func (layout *timeLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(200, 80)
}
