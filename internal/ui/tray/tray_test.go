package tray

import (
	"testing"

	"focustimer/internal/core/timer"

	"fyne.io/fyne/v2"
)

func findItem(menu *fyne.Menu, label string) *fyne.MenuItem {
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	return nil
}

func TestTimerControlsFollowStatus(t *testing.T) {
	manager := New(nil, Callbacks{})
	manager.SetStatus("00:24:10")

	manager.SetTimerStatus(timer.StatusRunning)
	menu := manager.Menu()
	if findItem(menu, "Pause") == nil || findItem(menu, "Stop").Disabled {
		t.Fatalf("running timer must offer pause and stop")
	}

	manager.SetTimerStatus(timer.StatusPaused)
	menu = manager.Menu()
	if findItem(menu, "Resume") == nil || findItem(menu, "00:24:10 (paused)") == nil {
		t.Fatalf("paused timer must offer resume and show the paused status")
	}

	manager.SetTimerStatus(timer.StatusFinished)
	if !findItem(manager.Menu(), "Stop").Disabled {
		t.Fatalf("stop must be disabled once finished")
	}
}

func TestMenuActionsInvokeCallbacks(t *testing.T) {
	var toggled, next int
	manager := New(nil, Callbacks{
		OnTogglePanel: func() { toggled++ },
		OnMusicNext:   func() { next++ },
	})

	findItem(manager.Menu(), "Show floating panel").Action()
	manager.SetPanelOpen(true)
	findItem(manager.Menu(), "Hide floating panel").Action()
	if toggled != 2 {
		t.Fatalf("expected 2 panel toggles, got %d", toggled)
	}

	if !findItem(manager.Menu(), "Next track").Disabled {
		t.Fatalf("next must be disabled without music")
	}
	manager.SetMusic(true, false)
	item := findItem(manager.Menu(), "Next track")
	if item.Disabled || findItem(manager.Menu(), "Pause music") == nil {
		t.Fatalf("music controls must follow the player")
	}
	item.Action()
	findItem(manager.Menu(), "Quit").Action()
	if next != 1 {
		t.Fatalf("expected one next, got %d", next)
	}
}
