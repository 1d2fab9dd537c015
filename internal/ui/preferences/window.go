package preferences

import (
	"fmt"

	"focustimer/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var (
	sourceOptions    = []string{string(model.SourceNone), string(model.SourceFile), string(model.SourceDirectory)}
	alignmentOptions = []string{string(model.AlignTop), string(model.AlignCenter), string(model.AlignBottom)}
	unitOptions      = []string{
		string(model.FutureUnitMixed), string(model.FutureUnitMonths), string(model.FutureUnitDays),
		string(model.FutureUnitHours), string(model.FutureUnitMinutes), string(model.FutureUnitSeconds),
	}
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings model.Settings
	onSave   func(model.Settings) error
	onCancel func()

	mainWallpaper  *wallpaperEditor
	panelWallpaper *wallpaperEditor

	countdown *widget.Entry
	beep      *widget.Check
	soundFile *widget.Entry
	task      *widget.Entry

	showFuture   *widget.Check
	showNotes    *widget.Check
	notesPath    *widget.Entry
	futureChoice *widget.Entry
	futureUnit   *widget.Select
	futureEvents *widget.Entry

	timeColor   *widget.Entry
	tintDynamic *widget.Check

	musicDir     *widget.Entry
	musicShuffle *widget.Check

	errorLabel *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error) *Window {
	window := app.NewWindow("Focus Timer Settings")

	prefs := &Window{
		window:         window,
		settings:       settings,
		onSave:         onSave,
		mainWallpaper:  newWallpaperEditor(),
		panelWallpaper: newWallpaperEditor(),
		countdown:      widget.NewEntry(),
		beep:           widget.NewCheck("Ring when a countdown ends", nil),
		soundFile:      widget.NewEntry(),
		task:           widget.NewEntry(),
		showFuture:     widget.NewCheck("Show future event line", nil),
		showNotes:      widget.NewCheck("Show notes", nil),
		notesPath:      widget.NewEntry(),
		futureChoice:   widget.NewEntry(),
		futureUnit:     widget.NewSelect(unitOptions, nil),
		futureEvents:   widget.NewMultiLineEntry(),
		timeColor:      widget.NewEntry(),
		tintDynamic:    widget.NewCheck("Pick text color from the wallpaper", nil),
		musicDir:       widget.NewEntry(),
		musicShuffle:   widget.NewCheck("Shuffle", nil),
		errorLabel:     widget.NewLabel(""),
	}
	prefs.soundFile.SetPlaceHolder("built-in bell")
	prefs.notesPath.SetPlaceHolder("/path/to/notes.txt")
	prefs.futureChoice.SetPlaceHolder(model.FutureChoiceNearest)
	prefs.futureEvents.SetPlaceHolder("2026-12-24 Holidays")
	prefs.futureEvents.SetMinRowsVisible(4)
	prefs.errorLabel.Importance = widget.DangerImportance
	prefs.errorLabel.Hide()

	timerTab := widget.NewForm(
		widget.NewFormItem("Countdown (min)", prefs.countdown),
		widget.NewFormItem("Task", prefs.task),
		widget.NewFormItem("", prefs.beep),
		widget.NewFormItem("Sound file", prefs.soundFile),
		widget.NewFormItem("Time color", prefs.timeColor),
		widget.NewFormItem("", prefs.tintDynamic),
	)
	panelTab := widget.NewForm(
		widget.NewFormItem("", prefs.showFuture),
		widget.NewFormItem("Event", prefs.futureChoice),
		widget.NewFormItem("Unit", prefs.futureUnit),
		widget.NewFormItem("Events", prefs.futureEvents),
		widget.NewFormItem("", prefs.showNotes),
		widget.NewFormItem("Notes file", prefs.notesPath),
	)
	musicTab := widget.NewForm(
		widget.NewFormItem("Folder", prefs.musicDir),
		widget.NewFormItem("", prefs.musicShuffle),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Timer", timerTab),
		container.NewTabItem("Stage wallpaper", prefs.mainWallpaper.form()),
		container.NewTabItem("Panel wallpaper", prefs.panelWallpaper.form()),
		container.NewTabItem("Panel", panelTab),
		container.NewTabItem("Music", musicTab),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, container.NewVBox(prefs.errorLabel, buttons), nil, nil, tabs))
	window.Resize(fyne.NewSize(520, 480))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	form := FormFromSettings(settings)

	prefs.mainWallpaper.set(form.MainWallpaper)
	prefs.panelWallpaper.set(form.PanelWallpaper)
	prefs.countdown.SetText(form.CountdownMinutes)
	prefs.beep.SetChecked(form.Beep)
	prefs.soundFile.SetText(form.SoundFile)
	prefs.task.SetText(form.ActiveTask)
	prefs.showFuture.SetChecked(form.ShowFuture)
	prefs.showNotes.SetChecked(form.ShowNotes)
	prefs.notesPath.SetText(form.NotesPath)
	prefs.futureChoice.SetText(form.FutureChoice)
	prefs.futureUnit.SetSelected(string(form.FutureUnit))
	prefs.futureEvents.SetText(form.FutureEvents)
	prefs.timeColor.SetText(form.TimeColor)
	prefs.tintDynamic.SetChecked(form.TintDynamic)
	prefs.musicDir.SetText(form.MusicDir)
	prefs.musicShuffle.SetChecked(form.MusicShuffle)
	prefs.showError(nil)
}

// Form returns the values currently entered.
func (prefs *Window) Form() Form {
	return Form{
		MainWallpaper:    prefs.mainWallpaper.get(),
		PanelWallpaper:   prefs.panelWallpaper.get(),
		CountdownMinutes: prefs.countdown.Text,
		Beep:             prefs.beep.Checked,
		SoundFile:        prefs.soundFile.Text,
		ShowFuture:       prefs.showFuture.Checked,
		ShowNotes:        prefs.showNotes.Checked,
		NotesPath:        prefs.notesPath.Text,
		FutureChoice:     prefs.futureChoice.Text,
		FutureUnit:       model.FutureUnit(prefs.futureUnit.Selected),
		FutureEvents:     prefs.futureEvents.Text,
		TimeColor:        prefs.timeColor.Text,
		TintDynamic:      prefs.tintDynamic.Checked,
		MusicDir:         prefs.musicDir.Text,
		MusicShuffle:     prefs.musicShuffle.Checked,
		ActiveTask:       prefs.task.Text,
	}
}

func (prefs *Window) handleSave() {
	settings, err := prefs.Form().Apply(prefs.settings)
	if err != nil {
		prefs.showError(err)
		return
	}
	prefs.showError(nil)

	prefs.settings = settings
	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			dialog.ShowError(fmt.Errorf("save settings: %w", err), prefs.window)
			return
		}
	}
	prefs.window.Hide()
}

func (prefs *Window) showError(err error) {
	if err == nil {
		prefs.errorLabel.SetText("")
		prefs.errorLabel.Hide()
		return
	}
	prefs.errorLabel.SetText(err.Error())
	prefs.errorLabel.Show()
}

type wallpaperEditor struct {
	source    *widget.Select
	file      *widget.Entry
	dir       *widget.Entry
	fit       *widget.Slider
	fitLabel  *widget.Label
	alignment *widget.Select
	offsetX   *widget.Entry
	offsetY   *widget.Entry
}

func newWallpaperEditor() *wallpaperEditor {
	editor := &wallpaperEditor{
		source:    widget.NewSelect(sourceOptions, nil),
		file:      widget.NewEntry(),
		dir:       widget.NewEntry(),
		fit:       widget.NewSlider(10, 100),
		fitLabel:  widget.NewLabel(""),
		alignment: widget.NewSelect(alignmentOptions, nil),
		offsetX:   widget.NewEntry(),
		offsetY:   widget.NewEntry(),
	}
	editor.fit.Step = 1
	editor.fit.OnChanged = func(value float64) {
		editor.fitLabel.SetText(fmt.Sprintf("%d%%", int(value)))
	}
	editor.file.SetPlaceHolder("/path/to/image.png")
	editor.dir.SetPlaceHolder("/path/to/folder")
	return editor
}

func (editor *wallpaperEditor) form() fyne.CanvasObject {
	return widget.NewForm(
		widget.NewFormItem("Source", editor.source),
		widget.NewFormItem("Image", editor.file),
		widget.NewFormItem("Folder", editor.dir),
		widget.NewFormItem("Fit", container.NewBorder(nil, nil, nil, editor.fitLabel, editor.fit)),
		widget.NewFormItem("Alignment", editor.alignment),
		widget.NewFormItem("Offset X", editor.offsetX),
		widget.NewFormItem("Offset Y", editor.offsetY),
	)
}

func (editor *wallpaperEditor) set(form WallpaperForm) {
	editor.source.SetSelected(string(form.Source))
	editor.file.SetText(form.File)
	editor.dir.SetText(form.Dir)
	editor.fit.SetValue(form.Fit)
	editor.fitLabel.SetText(fmt.Sprintf("%d%%", int(form.Fit)))
	editor.alignment.SetSelected(string(form.Alignment))
	editor.offsetX.SetText(form.OffsetX)
	editor.offsetY.SetText(form.OffsetY)
}

func (editor *wallpaperEditor) get() WallpaperForm {
	return WallpaperForm{
		Source:    model.SourceKind(editor.source.Selected),
		File:      editor.file.Text,
		Dir:       editor.dir.Text,
		Fit:       editor.fit.Value,
		Alignment: model.Alignment(editor.alignment.Selected),
		OffsetX:   editor.offsetX.Text,
		OffsetY:   editor.offsetY.Text,
	}
}
