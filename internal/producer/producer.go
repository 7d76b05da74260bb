// ============================================================================
// Producer - concurrent event emitter
// ============================================================================
//
// Package: internal/producer
// File: producer.go
// Purpose: Builds LogEvent values and submits them to the shared queue.
// Each producer runs on its own goroutine; the controller fans them out and
// joins them.
//
// ============================================================================

package producer

import (
	"errors"
	"log/slog"

	"github.com/logfreq/logfreq/internal/metrics"
	"github.com/logfreq/logfreq/internal/queue"
	"github.com/logfreq/logfreq/pkg/types"
)

var log = slog.Default()

// Producer emits a fixed batch of events, cycling through its message pool.
// It stops early if the queue begins draining.
type Producer struct {
	id        types.ProducerID
	queue     *queue.Queue
	messages  []string
	count     int
	collector *metrics.Collector
}

// New builds a producer with a fresh identity. count is the number of events
// to emit; messages must be non-empty.
func New(q *queue.Queue, messages []string, count int, collector *metrics.Collector) *Producer {
	return &Producer{
		id:        types.NewProducerID(),
		queue:     q,
		messages:  messages,
		count:     count,
		collector: collector,
	}
}

// ID returns the producer's identity.
func (p *Producer) ID() types.ProducerID {
	return p.id
}

// Run emits the batch and returns the number of events the queue accepted.
// A draining queue stops the run; a malformed message is skipped. Retry or
// drop on rejection is the producer's decision, and this producer drops.
func (p *Producer) Run() int {
	accepted := 0
	for i := 0; i < p.count; i++ {
		message := p.messages[i%len(p.messages)]
		priority := types.MinPriority + i%types.MaxPriority

		event := types.NewLogEvent(message, p.id, priority)
		if err := p.queue.Enqueue(event); err != nil {
			if errors.Is(err, queue.ErrDraining) {
				p.collector.RecordRejected()
				log.Info("Queue draining, producer stopping",
					"producer", p.id.Short(),
					"emitted", accepted)
				return accepted
			}
			p.collector.RecordRejected()
			log.Warn("Event rejected",
				"producer", p.id.Short(),
				"error", err)
			continue
		}
		p.collector.RecordEnqueue()
		accepted++
	}
	return accepted
}
