package dispatch

import (
	"context"
	"testing"
	"time"
)

func TestDrainRunsInOrder(t *testing.T) {
	queue := New(8)
	var order []int
	for i := 0; i < 5; i++ {
		value := i
		if !queue.Post(func() { order = append(order, value) }) {
			t.Fatalf("post %d dropped", i)
		}
	}
	if len(order) != 0 {
		t.Fatalf("commands must not run before drain")
	}
	if got := queue.Drain(); got != 5 {
		t.Fatalf("expected 5 commands, got %d", got)
	}
	for i, value := range order {
		if value != i {
			t.Fatalf("out of order: %v", order)
		}
	}
}

func TestPostDropsWhenFull(t *testing.T) {
	queue := New(1)
	queue.timeout = 10 * time.Millisecond
	if !queue.Post(func() {}) {
		t.Fatalf("first post dropped")
	}
	started := time.Now()
	if queue.Post(func() {}) {
		t.Fatalf("expected drop on full queue")
	}
	if time.Since(started) < queue.timeout {
		t.Fatalf("drop happened before the timeout")
	}
	if queue.Pending() != 1 {
		t.Fatalf("expected one pending command, got %d", queue.Pending())
	}
}

func TestRunStopsWithContext(t *testing.T) {
	queue := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	ran := make(chan struct{}, 1)

	go func() {
		queue.Run(ctx, nil)
		close(done)
	}()
	queue.Post(func() { ran <- struct{}{} })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatalf("command not applied")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
