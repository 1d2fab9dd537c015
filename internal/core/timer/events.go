package timer

import (
	"fmt"
	"time"

	"focustimer/internal/core/model"
)

// Status is the lifecycle position of the engine.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// State is a consistent snapshot of the engine.
type State struct {
	Mode    model.TimerMode
	Status  Status
	Target  int
	Elapsed int
}

// Remaining returns the seconds left of a countdown.
func (state State) Remaining() int {
	if state.Mode != model.TimerModeCountdown {
		return 0
	}
	return max(0, state.Target-state.Elapsed)
}

// Display returns the value shown on the display sinks.
func (state State) Display() int {
	if state.Mode == model.TimerModeCountdown {
		return state.Remaining()
	}
	return state.Elapsed
}

// EventType defines the type of engine event.
type EventType string

const (
	EventStarted  EventType = "started"
	EventPaused   EventType = "paused"
	EventResumed  EventType = "resumed"
	EventFinished EventType = "finished"
	EventReset    EventType = "reset"
)

// Event represents an engine transition for observers.
type Event struct {
	Type  EventType
	State State
	At    time.Time
}

// Format renders seconds as HH:MM:SS.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
