// Package types defines the core domain model shared across the logfreq pipeline.
package types

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ProducerID identifies the concurrent worker that created an event.
type ProducerID string

// NewProducerID returns a fresh random producer identifier.
func NewProducerID() ProducerID {
	return ProducerID(uuid.NewString())
}

// Short returns the first uuid group of the identifier, used in sink lines
// to keep records readable.
func (id ProducerID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Priority bounds for log events. Priority is informational only: it never
// affects processing order.
const (
	MinPriority = 1
	MaxPriority = 5
)

// LifecycleState is the pipeline-wide tri-state flag. Transitions are
// one-directional: Running -> Draining -> Stopped.
type LifecycleState string

const (
	// StateRunning accepts new events and processes queued ones.
	StateRunning LifecycleState = "running"
	// StateDraining rejects new events; already-queued events are still
	// processed to completion.
	StateDraining LifecycleState = "draining"
	// StateStopped means the queue is empty and the processor has exited.
	StateStopped LifecycleState = "stopped"
)

// LogEvent is a single structured log record. Immutable once enqueued:
// producers hand it to the queue by value and never touch it again.
type LogEvent struct {
	Message   string
	Timestamp time.Time
	Producer  ProducerID
	Priority  int
}

// NewLogEvent builds an event stamped with the current time. Priority is
// clamped into [MinPriority, MaxPriority].
func NewLogEvent(message string, producer ProducerID, priority int) LogEvent {
	if priority < MinPriority {
		priority = MinPriority
	}
	if priority > MaxPriority {
		priority = MaxPriority
	}
	return LogEvent{
		Message:   message,
		Timestamp: time.Now(),
		Producer:  producer,
		Priority:  priority,
	}
}

// WordCount is one entry of a word-frequency snapshot.
type WordCount struct {
	Word  string
	Count uint64
}

// WordCounts sorts by count descending, ties broken by lexical order of the
// word, so snapshots are deterministic.
type WordCounts []WordCount

func (w WordCounts) Len() int { return len(w) }

func (w WordCounts) Less(i, j int) bool {
	if w[i].Count != w[j].Count {
		return w[i].Count > w[j].Count
	}
	return w[i].Word < w[j].Word
}

func (w WordCounts) Swap(i, j int) { w[i], w[j] = w[j], w[i] }

// Sort orders the slice in place.
func (w WordCounts) Sort() { sort.Sort(w) }
