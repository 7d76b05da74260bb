// ============================================================================
// Processor - single background consumer
// ============================================================================
//
// Package: internal/processor
// File: processor.go
// Purpose: Drains the event queue, tokenizes each message, updates the word
// frequency table, and appends a formatted record to the sink.
//
// Loop contract:
//   - Exactly one processor goroutine runs per pipeline.
//   - Sink failures are logged and the loop continues: losing the ability to
//     persist one record must not halt word-frequency accounting.
//   - On end-of-stream the loop exits and never touches the queue again.
//
// ============================================================================

package processor

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/logfreq/logfreq/internal/metrics"
	"github.com/logfreq/logfreq/internal/queue"
	"github.com/logfreq/logfreq/internal/sink"
	"github.com/logfreq/logfreq/internal/tokenizer"
	"github.com/logfreq/logfreq/internal/wordfreq"
	"github.com/logfreq/logfreq/pkg/types"
)

var log = slog.Default()

// Processor is the single consumer of the event queue.
type Processor struct {
	queue     *queue.Queue
	table     *wordfreq.Table
	sink      *sink.Sink
	delims    string
	collector *metrics.Collector
	processed atomic.Uint64
	done      chan struct{}
}

// New builds a processor. The collector must not be nil; the controller
// always provides one.
func New(q *queue.Queue, table *wordfreq.Table, s *sink.Sink, delims string, collector *metrics.Collector) *Processor {
	if delims == "" {
		delims = tokenizer.DefaultDelimiters
	}
	return &Processor{
		queue:     q,
		table:     table,
		sink:      s,
		delims:    delims,
		collector: collector,
		done:      make(chan struct{}),
	}
}

// Run consumes events until the queue reports end-of-stream. It is meant to
// run on its own goroutine; Done unblocks when it returns.
func (p *Processor) Run() {
	defer close(p.done)

	for {
		event, ok := p.queue.DequeueBlocking()
		if !ok {
			log.Info("Processor stopped", "events", p.processed.Load())
			return
		}

		start := time.Now()
		tokens := p.process(event)

		if err := p.sink.Append(FormatLine(event, tokens)); err != nil {
			// One lost record must not unwind the loop.
			p.collector.RecordSinkFailure()
			log.Error("Failed to append record to sink",
				"producer", event.Producer.Short(),
				"error", err)
		}

		p.processed.Add(1)
		p.collector.RecordProcessed(time.Since(start).Seconds())
	}
}

// process tokenizes the message and updates the frequency table, returning
// the tokens in message order.
func (p *Processor) process(event types.LogEvent) []string {
	var tokens []string
	tok := tokenizer.New(event.Message, p.delims)
	for {
		word, ok := tok.Next()
		if !ok {
			return tokens
		}
		p.table.Increment(word)
		tokens = append(tokens, word)
	}
}

// Done is closed once the run loop has exited.
func (p *Processor) Done() <-chan struct{} {
	return p.done
}

// Processed reports how many events the loop has consumed.
func (p *Processor) Processed() uint64 {
	return p.processed.Load()
}

// FormatLine renders one sink record:
//
//	[<ISO-8601 timestamp>] producer=<id> priority=<1-5> | <token1> <token2> ...
func FormatLine(event types.LogEvent, tokens []string) string {
	return fmt.Sprintf("[%s] producer=%s priority=%d | %s",
		event.Timestamp.Format(time.RFC3339),
		event.Producer.Short(),
		event.Priority,
		strings.Join(tokens, " "))
}
