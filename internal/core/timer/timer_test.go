package timer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"focustimer/internal/core/model"
)

type recordingSink struct {
	mu    sync.Mutex
	texts []string
}

func (sink *recordingSink) OnTick(text string) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.texts = append(sink.texts, text)
}

func (sink *recordingSink) values() []string {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]string(nil), sink.texts...)
}

type countingAlarm struct {
	rings int
}

func (alarm *countingAlarm) Ring() {
	alarm.rings++
}

type fakeRecorder struct {
	seconds []int
	err     error
}

func (recorder *fakeRecorder) RecordSession(seconds int, _ time.Time) error {
	recorder.seconds = append(recorder.seconds, seconds)
	return recorder.err
}

type queuePoster struct {
	pending []func()
}

func (poster *queuePoster) Post(cmd func()) bool {
	poster.pending = append(poster.pending, cmd)
	return true
}

func (poster *queuePoster) drain() {
	pending := poster.pending
	poster.pending = nil
	for _, cmd := range pending {
		cmd()
	}
}

// manual returns an engine whose loop never fires so tests drive tick directly.
func manual(poster Poster) *Engine {
	defaults := model.TimerDefaults{Mode: model.TimerModeCountdown, CountdownSeconds: 1500}
	return New(defaults, poster, Config{TickInterval: time.Hour, PollInterval: time.Hour})
}

func countEvents(ch <-chan Event, eventType EventType) int {
	count := 0
	for {
		select {
		case event := <-ch:
			if event.Type == eventType {
				count++
			}
		default:
			return count
		}
	}
}

func TestCountdownFinishesOnce(t *testing.T) {
	engine := manual(nil)
	alarm := &countingAlarm{}
	recorder := &fakeRecorder{}
	engine.SetAlarm(alarm)
	engine.SetRecorder(recorder, nil)
	events := engine.Subscribe(4096)
	sink := &recordingSink{}
	engine.AddSink(sink)

	if err := engine.Start(model.TimerModeCountdown, 1500); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 1600; i++ {
		engine.tick()
	}

	state := engine.Snapshot()
	if state.Status != StatusFinished || state.Elapsed != 1500 {
		t.Fatalf("expected finished at 1500, got %+v", state)
	}
	if got := countEvents(events, EventFinished); got != 1 {
		t.Fatalf("expected one finished event, got %d", got)
	}
	if alarm.rings != 1 {
		t.Fatalf("expected one alarm, got %d", alarm.rings)
	}
	if len(recorder.seconds) != 1 || recorder.seconds[0] != 1500 {
		t.Fatalf("unexpected sessions %v", recorder.seconds)
	}

	texts := sink.values()
	// initial value plus one per tick
	if len(texts) != 1501 {
		t.Fatalf("expected 1501 deliveries, got %d", len(texts))
	}
	if texts[0] != "00:25:00" || texts[1] != "00:24:59" || texts[len(texts)-1] != "00:00:00" {
		t.Fatalf("unexpected texts %q %q %q", texts[0], texts[1], texts[len(texts)-1])
	}
}

func TestPausedTicksAreIgnored(t *testing.T) {
	engine := manual(nil)
	if err := engine.Start(model.TimerModeCountUp, 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	engine.tick()
	if err := engine.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	for i := 0; i < 10; i++ {
		engine.tick()
	}
	engine.advance(5 * time.Hour)
	if got := engine.Snapshot().Elapsed; got != 1 {
		t.Fatalf("paused engine advanced to %d", got)
	}
	if err := engine.TogglePause(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	engine.tick()
	if got := engine.Text(); got != "00:00:02" {
		t.Fatalf("expected 00:00:02, got %s", got)
	}
}

func TestAdvanceAccumulatesPolls(t *testing.T) {
	engine := New(model.TimerDefaults{Mode: model.TimerModeCountUp}, nil, Config{TickInterval: time.Second, PollInterval: time.Hour})
	if err := engine.Start(model.TimerModeCountUp, 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 25; i++ {
		engine.advance(100 * time.Millisecond)
	}
	if got := engine.Snapshot().Elapsed; got != 2 {
		t.Fatalf("expected 2 ticks from 2.5s of polls, got %d", got)
	}
	engine.advance(3 * time.Second)
	if got := engine.Snapshot().Elapsed; got != 5 {
		t.Fatalf("expected catch-up to 5, got %d", got)
	}
	engine.Shutdown()
}

func TestStopRecordsSession(t *testing.T) {
	engine := manual(nil)
	recorder := &fakeRecorder{err: errors.New("disk full")}
	var reported error
	engine.SetRecorder(recorder, func(err error) { reported = err })

	if err := engine.Start(model.TimerModeCountUp, 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 42; i++ {
		engine.tick()
	}
	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if engine.Snapshot().Status != StatusFinished {
		t.Fatalf("expected finished status")
	}
	if len(recorder.seconds) != 1 || recorder.seconds[0] != 42 {
		t.Fatalf("unexpected sessions %v", recorder.seconds)
	}
	if reported == nil {
		t.Fatalf("expected persistence error to be reported")
	}
	if err := engine.Stop(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on second stop, got %v", err)
	}
}

func TestZeroSecondSessionIsNotRecorded(t *testing.T) {
	engine := manual(nil)
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder, nil)
	if err := engine.Start(model.TimerModeCountUp, 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if len(recorder.seconds) != 0 {
		t.Fatalf("expected no session, got %v", recorder.seconds)
	}
}

func TestTransitions(t *testing.T) {
	engine := manual(nil)
	if err := engine.Start(model.TimerModeCountdown, 0); !errors.Is(err, ErrMissingTarget) {
		t.Fatalf("expected missing target, got %v", err)
	}
	if err := engine.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected pause from idle to fail, got %v", err)
	}
	if err := engine.Start(model.TimerModeCountdown, 60); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Start(model.TimerModeCountdown, 60); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second start to fail, got %v", err)
	}
	if err := engine.Configure(model.TimerModeCountUp, 0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected configure while running to fail, got %v", err)
	}
	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := engine.Start(model.TimerModeCountdown, 60); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("finished engine must be reset before starting, got %v", err)
	}
	engine.Reset()
	state := engine.Snapshot()
	if state.Status != StatusIdle || state.Target != 60 || state.Elapsed != 0 {
		t.Fatalf("unexpected state after reset %+v", state)
	}
	if err := engine.Configure(model.TimerModeCountdown, 2100); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if got := engine.Text(); got != "00:35:00" {
		t.Fatalf("expected 00:35:00, got %s", got)
	}
}

func TestSinksReceiveEveryTickThroughPoster(t *testing.T) {
	poster := &queuePoster{}
	engine := manual(poster)
	first := &recordingSink{}
	second := &recordingSink{}
	engine.AddSink(first)
	remove := engine.AddSink(second)

	if err := engine.Start(model.TimerModeCountdown, 3); err != nil {
		t.Fatalf("start: %v", err)
	}
	engine.tick()
	if len(first.values()) != 0 {
		t.Fatalf("sinks must only run when the poster drains")
	}
	poster.drain()
	remove()
	engine.tick()
	poster.drain()

	want := []string{"00:00:03", "00:00:02", "00:00:01"}
	got := first.values()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(second.values()) != 2 {
		t.Fatalf("removed sink got %v", second.values())
	}
}

func TestStaleTickNeverOverwritesStop(t *testing.T) {
	poster := &queuePoster{}
	engine := manual(poster)
	sink := &recordingSink{}
	engine.AddSink(sink)

	if err := engine.Start(model.TimerModeCountdown, 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	engine.tick()
	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if len(poster.pending) != 3 {
		t.Fatalf("expected 3 pending deliveries, got %d", len(poster.pending))
	}
	// the stop delivery is applied before the tick captured ahead of it
	start, tick, stop := poster.pending[0], poster.pending[1], poster.pending[2]
	poster.pending = nil
	start()
	stop()
	tick()

	got := sink.values()
	if len(got) != 2 || got[len(got)-1] != "00:00:00" {
		t.Fatalf("stopped display must stay at zero, got %v", got)
	}
}

func TestFormat(t *testing.T) {
	cases := map[int]string{0: "00:00:00", -5: "00:00:00", 59: "00:00:59", 3661: "01:01:01", 360000: "100:00:00"}
	for seconds, want := range cases {
		if got := Format(seconds); got != want {
			t.Fatalf("Format(%d) = %s, want %s", seconds, got, want)
		}
	}
}
