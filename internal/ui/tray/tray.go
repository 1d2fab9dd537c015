package tray

import (
	"fmt"

	"focustimer/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowStage   func()
	OnTogglePanel func()
	OnStartPause  func()
	OnStop        func()
	OnMusicToggle func()
	OnMusicNext   func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app       desktop.App
	callbacks Callbacks

	statusItem     *fyne.MenuItem
	panelItem      *fyne.MenuItem
	startPauseItem *fyne.MenuItem
	stopItem       *fyne.MenuItem
	musicItem      *fyne.MenuItem
	nextItem       *fyne.MenuItem

	statusLabel string
	status      timer.Status
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    timer.StatusIdle,
	}

	manager.statusItem = fyne.NewMenuItem("00:00:00", nil)
	manager.statusItem.Disabled = true
	manager.panelItem = fyne.NewMenuItem("Show floating panel", func() { call(manager.callbacks.OnTogglePanel) })
	manager.startPauseItem = fyne.NewMenuItem("Start", func() { call(manager.callbacks.OnStartPause) })
	manager.stopItem = fyne.NewMenuItem("Stop", func() { call(manager.callbacks.OnStop) })
	manager.stopItem.Disabled = true
	manager.musicItem = fyne.NewMenuItem("Play music", func() { call(manager.callbacks.OnMusicToggle) })
	manager.nextItem = fyne.NewMenuItem("Next track", func() { call(manager.callbacks.OnMusicNext) })
	manager.nextItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetTimerStatus updates the timer controls.
func (manager *Manager) SetTimerStatus(status timer.Status) {
	manager.status = status
	switch status {
	case timer.StatusRunning:
		manager.startPauseItem.Label = "Pause"
	case timer.StatusPaused:
		manager.startPauseItem.Label = "Resume"
	default:
		manager.startPauseItem.Label = "Start"
	}
	manager.stopItem.Disabled = status != timer.StatusRunning && status != timer.StatusPaused
	manager.refreshStatus()
}

// SetPanelOpen updates the panel toggle label.
func (manager *Manager) SetPanelOpen(open bool) {
	if open {
		manager.panelItem.Label = "Hide floating panel"
	} else {
		manager.panelItem.Label = "Show floating panel"
	}
	manager.refreshMenu()
}

// SetMusic updates the music controls.
func (manager *Manager) SetMusic(running, paused bool) {
	switch {
	case running && !paused:
		manager.musicItem.Label = "Pause music"
	case running:
		manager.musicItem.Label = "Resume music"
	default:
		manager.musicItem.Label = "Play music"
	}
	manager.nextItem.Disabled = !running
	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("Focus Timer",
		manager.statusItem,
		fyne.NewMenuItem("Open timer", func() { call(manager.callbacks.OnShowStage) }),
		manager.panelItem,
		fyne.NewMenuItemSeparator(),
		manager.startPauseItem,
		manager.stopItem,
		fyne.NewMenuItemSeparator(),
		manager.musicItem,
		manager.nextItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	)
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.status == timer.StatusPaused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

func call(callback func()) {
	if callback != nil {
		callback()
	}
}
