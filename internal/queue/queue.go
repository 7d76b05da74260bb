// ============================================================================
// Event Queue - shared FIFO between producers and the processor
// ============================================================================
//
// Package: internal/queue
// File: queue.go
// Purpose: Thread-safe, unbounded FIFO of pending log events with a blocking
// dequeue and lifecycle-gated enqueue.
//
// Wait protocol:
//   The queue owns the pipeline's lifecycle tri-state
//   (Running -> Draining -> Stopped) together with a single condition
//   variable. Enqueue signals one waiter; BeginShutdown broadcasts so a
//   consumer sitting between its emptiness check and Wait registration
//   cannot miss the transition. The emptiness check and Wait happen under
//   the same mutex, which rules out lost wakeups.
//
// Drain semantics:
//   After BeginShutdown the queue rejects new events but DequeueBlocking
//   keeps returning queued ones until the list is empty; only then does the
//   consumer observe end-of-stream and the state move to Stopped.
//
// ============================================================================

package queue

import (
	"errors"
	"sync"

	"github.com/logfreq/logfreq/pkg/types"
)

var (
	// ErrDraining is returned by Enqueue once the lifecycle has left Running.
	// Producers treat it as the signal to stop submitting.
	ErrDraining = errors.New("queue is draining, no new events accepted")
	// ErrEmptyMessage rejects malformed events at the boundary so they never
	// reach the processor loop.
	ErrEmptyMessage = errors.New("event message is empty")
)

// node is one link of the internal singly-linked list.
type node struct {
	event types.LogEvent
	next  *node
}

// Queue is the shared FIFO. Invariant: length always equals the number of
// linked nodes, and head/tail are both nil iff length is 0. All mutation
// happens under mu.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	head     *node
	tail     *node
	length   int
	state    types.LifecycleState
}

// New returns an empty queue in the Running state.
func New() *Queue {
	q := &Queue{state: types.StateRunning}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends an event to the tail and wakes one blocked dequeuer.
// It never blocks. Returns ErrDraining once shutdown has begun and
// ErrEmptyMessage for events with no message.
func (q *Queue) Enqueue(event types.LogEvent) error {
	if event.Message == "" {
		return ErrEmptyMessage
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != types.StateRunning {
		return ErrDraining
	}

	n := &node{event: event}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.length++

	q.notEmpty.Signal()
	return nil
}

// DequeueBlocking removes and returns the head event in FIFO order. It
// blocks while the queue is empty and the state is still Running. Once the
// queue is empty and shutdown has begun it marks the lifecycle Stopped and
// reports end-of-stream with ok == false.
func (q *Queue) DequeueBlocking() (types.LogEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.length == 0 && q.state == types.StateRunning {
		q.notEmpty.Wait()
	}

	if q.length == 0 {
		q.state = types.StateStopped
		return types.LogEvent{}, false
	}

	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.length--

	return n.event, true
}

// BeginShutdown transitions Running -> Draining and broadcasts to every
// waiter. Safe to call more than once; the lifecycle never moves backwards.
func (q *Queue) BeginShutdown() {
	q.mu.Lock()
	if q.state == types.StateRunning {
		q.state = types.StateDraining
	}
	q.mu.Unlock()

	q.notEmpty.Broadcast()
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// State reports the current lifecycle state.
func (q *Queue) State() types.LifecycleState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}
