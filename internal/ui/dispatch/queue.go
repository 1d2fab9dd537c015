// Package dispatch carries commands from worker goroutines to the UI
// goroutine over a bounded channel.
package dispatch

import (
	"context"
	"log"
	"time"
)

const (
	// DefaultCapacity is the channel buffer used by New when capacity <= 0.
	DefaultCapacity = 256
	// EnqueueTimeout bounds how long Post waits on a full queue before dropping.
	EnqueueTimeout = 150 * time.Millisecond
)

// Queue is a bounded worker -> UI command channel.
type Queue struct {
	cmdCh   chan func()
	timeout time.Duration
}

// New creates a queue holding at most capacity pending commands.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		cmdCh:   make(chan func(), capacity),
		timeout: EnqueueTimeout,
	}
}

// Post enqueues cmd. When the queue stays full for EnqueueTimeout the command
// is dropped and Post returns false.
func (queue *Queue) Post(cmd func()) bool {
	if cmd == nil {
		return true
	}
	select {
	case queue.cmdCh <- cmd:
		return true
	default:
	}

	timer := time.NewTimer(queue.timeout)
	defer timer.Stop()
	select {
	case queue.cmdCh <- cmd:
		return true
	case <-timer.C:
		log.Printf("dispatch: queue full, dropping command")
		return false
	}
}

// Pending returns the number of queued commands.
func (queue *Queue) Pending() int {
	return len(queue.cmdCh)
}

// Drain runs every queued command on the calling goroutine and returns how
// many ran.
func (queue *Queue) Drain() int {
	count := 0
	for {
		select {
		case cmd := <-queue.cmdCh:
			cmd()
			count++
		default:
			return count
		}
	}
}

// Run pumps commands into apply until ctx is done. In the app apply is
// fyne.DoAndWait so commands execute on the UI goroutine in FIFO order.
func (queue *Queue) Run(ctx context.Context, apply func(func())) {
	if apply == nil {
		apply = func(cmd func()) { cmd() }
	}
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-queue.cmdCh:
			apply(cmd)
		}
	}
}
