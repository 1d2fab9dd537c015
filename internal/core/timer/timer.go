// Package timer contains the focus timer state machine. A background loop
// computes tick values and hands them to display sinks through a Poster, so
// sinks are always invoked on the UI-owning context.
package timer

import (
	"errors"
	"log"
	"sync"
	"time"

	"focustimer/internal/core/model"
)

var (
	// ErrInvalidTransition reports a command that is not valid in the current status.
	ErrInvalidTransition = errors.New("invalid timer transition")
	// ErrMissingTarget reports a countdown started without a positive duration.
	ErrMissingTarget = errors.New("countdown needs a positive duration")
)

// Sink receives formatted timer values.
type Sink interface {
	OnTick(text string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string)

// OnTick calls fn.
func (fn SinkFunc) OnTick(text string) {
	fn(text)
}

// Poster schedules a command on the UI-owning context.
type Poster interface {
	Post(cmd func()) bool
}

// Alarm is notified when a session finishes.
type Alarm interface {
	Ring()
}

// SessionRecorder stores completed sessions.
type SessionRecorder interface {
	RecordSession(seconds int, end time.Time) error
}

// Config contains runtime options for Engine.
type Config struct {
	TickInterval time.Duration
	PollInterval time.Duration
}

type sinkEntry struct {
	id   int
	sink Sink
}

// Engine is the Idle -> Running <-> Paused -> Finished state machine.
type Engine struct {
	mu       sync.Mutex
	options  Config
	poster   Poster
	alarm    Alarm
	recorder SessionRecorder
	onError  func(error)
	state    State
	sinks    []sinkEntry
	nextSink int
	events   []chan Event
	stopCh   chan struct{}
	carry    time.Duration
	// seq numbers deliveries in capture order; shown is the last one applied.
	seq   uint64
	shown uint64
}

// New creates an idle engine. A nil poster delivers ticks on the ticking goroutine.
func New(defaults model.TimerDefaults, poster Poster, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.PollInterval <= 0 {
		options.PollInterval = 100 * time.Millisecond
	}
	mode := defaults.Mode
	if mode == "" {
		mode = model.TimerModeCountdown
	}
	target := 0
	if mode == model.TimerModeCountdown {
		target = defaults.CountdownSeconds
	}
	return &Engine{
		options: options,
		poster:  poster,
		state:   State{Mode: mode, Status: StatusIdle, Target: target},
	}
}

// SetAlarm injects the alarm rung on finish.
func (engine *Engine) SetAlarm(alarm Alarm) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.alarm = alarm
}

// SetRecorder injects the session store.
func (engine *Engine) SetRecorder(recorder SessionRecorder, onError func(error)) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.recorder = recorder
	engine.onError = onError
}

// AddSink registers a display sink and returns a function that removes it.
func (engine *Engine) AddSink(sink Sink) func() {
	engine.mu.Lock()
	engine.nextSink++
	id := engine.nextSink
	engine.sinks = append(engine.sinks, sinkEntry{id: id, sink: sink})
	engine.mu.Unlock()

	return func() {
		engine.mu.Lock()
		defer engine.mu.Unlock()
		for index, entry := range engine.sinks {
			if entry.id == id {
				engine.sinks = append(engine.sinks[:index], engine.sinks[index+1:]...)
				return
			}
		}
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Snapshot returns the current state.
func (engine *Engine) Snapshot() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Text returns the currently displayed value.
func (engine *Engine) Text() string {
	return Format(engine.Snapshot().Display())
}

// Configure changes mode and target while the engine is not counting.
func (engine *Engine) Configure(mode model.TimerMode, targetSeconds int) error {
	engine.mu.Lock()
	if engine.state.Status == StatusRunning || engine.state.Status == StatusPaused {
		engine.mu.Unlock()
		return ErrInvalidTransition
	}
	if mode == model.TimerModeCountUp {
		targetSeconds = 0
	}
	engine.state = State{Mode: mode, Status: StatusIdle, Target: targetSeconds}
	snapshot := engine.state
	seq := engine.nextSeqLocked()
	engine.mu.Unlock()

	engine.deliver(Format(snapshot.Display()), seq)
	return nil
}

// Start begins counting. Countdown needs a positive target.
func (engine *Engine) Start(mode model.TimerMode, targetSeconds int) error {
	engine.mu.Lock()
	if engine.state.Status != StatusIdle {
		engine.mu.Unlock()
		return ErrInvalidTransition
	}
	if mode == model.TimerModeCountdown && targetSeconds <= 0 {
		engine.mu.Unlock()
		return ErrMissingTarget
	}
	if mode != model.TimerModeCountdown {
		mode = model.TimerModeCountUp
		targetSeconds = 0
	}
	engine.state = State{Mode: mode, Status: StatusRunning, Target: targetSeconds}
	engine.carry = 0
	stop := make(chan struct{})
	engine.stopCh = stop
	snapshot := engine.state
	seq := engine.nextSeqLocked()
	engine.mu.Unlock()

	engine.emit(Event{Type: EventStarted, State: snapshot, At: time.Now()})
	engine.deliver(Format(snapshot.Display()), seq)

	go engine.run(stop)
	return nil
}

// Pause freezes a running engine. The loop keeps polling.
func (engine *Engine) Pause() error {
	return engine.transition(StatusRunning, StatusPaused, EventPaused)
}

// Resume continues a paused engine.
func (engine *Engine) Resume() error {
	return engine.transition(StatusPaused, StatusRunning, EventResumed)
}

// TogglePause switches between Running and Paused.
func (engine *Engine) TogglePause() error {
	if engine.Snapshot().Status == StatusPaused {
		return engine.Resume()
	}
	return engine.Pause()
}

// Stop ends a running or paused session and records it.
func (engine *Engine) Stop() error {
	engine.mu.Lock()
	if engine.state.Status != StatusRunning && engine.state.Status != StatusPaused {
		engine.mu.Unlock()
		return ErrInvalidTransition
	}
	snapshot := engine.finishLocked()
	seq := engine.nextSeqLocked()
	engine.mu.Unlock()

	engine.deliver(Format(0), seq)
	engine.complete(snapshot)
	return nil
}

// Reset returns to Idle keeping mode and target.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	engine.stopLoopLocked()
	engine.state.Status = StatusIdle
	engine.state.Elapsed = 0
	snapshot := engine.state
	seq := engine.nextSeqLocked()
	engine.mu.Unlock()

	engine.emit(Event{Type: EventReset, State: snapshot, At: time.Now()})
	engine.deliver(Format(snapshot.Display()), seq)
}

// Shutdown stops the loop and closes observers.
func (engine *Engine) Shutdown() {
	engine.mu.Lock()
	engine.stopLoopLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) transition(from, to Status, eventType EventType) error {
	engine.mu.Lock()
	if engine.state.Status != from {
		engine.mu.Unlock()
		return ErrInvalidTransition
	}
	engine.state.Status = to
	snapshot := engine.state
	engine.mu.Unlock()

	engine.emit(Event{Type: eventType, State: snapshot, At: time.Now()})
	return nil
}

func (engine *Engine) run(stop <-chan struct{}) {
	ticker := time.NewTicker(engine.options.PollInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			engine.advance(delta)
		}
	}
}

// advance accumulates running time and ticks once per full TickInterval.
// Paused time is discarded.
func (engine *Engine) advance(delta time.Duration) {
	engine.mu.Lock()
	if engine.state.Status != StatusRunning {
		engine.mu.Unlock()
		return
	}
	engine.carry += delta
	due := 0
	for engine.carry >= engine.options.TickInterval {
		engine.carry -= engine.options.TickInterval
		due++
	}
	engine.mu.Unlock()

	for ; due > 0; due-- {
		engine.tick()
	}
}

func (engine *Engine) tick() {
	engine.mu.Lock()
	if engine.state.Status != StatusRunning {
		engine.mu.Unlock()
		return
	}
	engine.state.Elapsed++
	snapshot := engine.state
	finished := snapshot.Mode == model.TimerModeCountdown && snapshot.Elapsed >= snapshot.Target
	if finished {
		snapshot = engine.finishLocked()
	}
	seq := engine.nextSeqLocked()
	engine.mu.Unlock()

	engine.deliver(Format(snapshot.Display()), seq)
	if finished {
		engine.complete(snapshot)
	}
}

func (engine *Engine) finishLocked() State {
	engine.stopLoopLocked()
	engine.state.Status = StatusFinished
	if engine.state.Mode == model.TimerModeCountdown && engine.state.Elapsed > engine.state.Target {
		engine.state.Elapsed = engine.state.Target
	}
	return engine.state
}

func (engine *Engine) stopLoopLocked() {
	if engine.stopCh != nil {
		close(engine.stopCh)
		engine.stopCh = nil
	}
}

// complete runs the finish side effects: alarm, session record, event.
func (engine *Engine) complete(snapshot State) {
	engine.mu.Lock()
	alarm := engine.alarm
	recorder := engine.recorder
	onError := engine.onError
	engine.mu.Unlock()

	at := time.Now()
	if alarm != nil {
		alarm.Ring()
	}
	if recorder != nil && snapshot.Elapsed > 0 {
		engine.post(func() {
			if err := recorder.RecordSession(snapshot.Elapsed, at); err != nil {
				log.Printf("timer: record session: %v", err)
				if onError != nil {
					onError(err)
				}
			}
		})
	}
	engine.emit(Event{Type: EventFinished, State: snapshot, At: at})
}

func (engine *Engine) nextSeqLocked() uint64 {
	engine.seq++
	return engine.seq
}

// deliver posts text to the sinks. A delivery captured before one that was
// already applied is dropped, so a late tick never overwrites a stop or reset.
func (engine *Engine) deliver(text string, seq uint64) {
	engine.mu.Lock()
	sinks := make([]Sink, 0, len(engine.sinks))
	for _, entry := range engine.sinks {
		sinks = append(sinks, entry.sink)
	}
	engine.mu.Unlock()

	engine.post(func() {
		engine.mu.Lock()
		if seq <= engine.shown {
			engine.mu.Unlock()
			return
		}
		engine.shown = seq
		engine.mu.Unlock()
		for _, sink := range sinks {
			sink.OnTick(text)
		}
	})
}

func (engine *Engine) post(cmd func()) {
	if engine.poster == nil {
		cmd()
		return
	}
	if !engine.poster.Post(cmd) {
		log.Printf("timer: ui queue full, update dropped")
	}
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	events := append([]chan Event(nil), engine.events...)
	engine.mu.Unlock()

	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
