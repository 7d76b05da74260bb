// ============================================================================
// Lifecycle Controller - pipeline coordinator
// ============================================================================
//
// Package: internal/controller
// File: controller.go
// Purpose: Wires the queue, processor, producers, frequency table, and sink
// together and drives the drain-to-completion shutdown.
//
// Control flow:
//   Start            - write the sink banner, launch the processor, then fan
//                      out N producers (processor first, so nothing queued is
//                      left waiting for a consumer)
//   ProducersJoin    - wait for every producer to finish emitting
//   BeginShutdown    - Running -> Draining, broadcast to the queue's waiter
//   AwaitProcessorStop - block until the processor has observed end-of-stream
//   Stop             - the four steps above plus closing the sink
//
// Only after AwaitProcessorStop returns is the final frequency snapshot
// stable and the sink safe to close.
//
// ============================================================================

package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/logfreq/logfreq/internal/metrics"
	"github.com/logfreq/logfreq/internal/processor"
	"github.com/logfreq/logfreq/internal/producer"
	"github.com/logfreq/logfreq/internal/queue"
	"github.com/logfreq/logfreq/internal/sink"
	"github.com/logfreq/logfreq/internal/tokenizer"
	"github.com/logfreq/logfreq/internal/wordfreq"
	"github.com/logfreq/logfreq/pkg/types"
)

var log = slog.Default()

// Config holds the pipeline wiring parameters.
type Config struct {
	Producers           int           // number of concurrent producers
	EventsPerProducer   int           // batch size each producer emits
	Messages            []string      // message pool producers cycle through
	Delimiters          string        // tokenizer delimiter set
	SinkPath            string        // append-only sink destination
	DepthSampleInterval time.Duration // queue depth gauge sampling period
}

// Controller coordinates the pipeline lifecycle.
type Controller struct {
	mu        sync.Mutex
	queue     *queue.Queue
	table     *wordfreq.Table
	sink      *sink.Sink
	proc      *processor.Processor
	producers []*producer.Producer
	collector *metrics.Collector
	config    Config

	producerWg sync.WaitGroup
	sampleWg   sync.WaitGroup
	stopSample chan struct{}
	sampleOnce sync.Once

	started   bool
	stopped   bool
	startTime time.Time
	accepted  int
}

// New builds the pipeline. The sink is opened here so a bad path fails fast.
// A nil collector gets a freshly registered one.
func New(config Config, collector *metrics.Collector) (*Controller, error) {
	if config.Producers < 1 {
		return nil, errors.New("at least one producer is required")
	}
	if config.EventsPerProducer < 0 {
		return nil, errors.New("events per producer must not be negative")
	}
	if len(config.Messages) == 0 {
		return nil, errors.New("message pool is empty")
	}
	if config.Delimiters == "" {
		config.Delimiters = tokenizer.DefaultDelimiters
	}
	if config.DepthSampleInterval <= 0 {
		config.DepthSampleInterval = 250 * time.Millisecond
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}

	s, err := sink.Open(config.SinkPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sink: %w", err)
	}

	q := queue.New()
	table := wordfreq.NewTable()

	c := &Controller{
		queue:      q,
		table:      table,
		sink:       s,
		proc:       processor.New(q, table, s, config.Delimiters, collector),
		collector:  collector,
		config:     config,
		stopSample: make(chan struct{}),
	}
	for i := 0; i < config.Producers; i++ {
		c.producers = append(c.producers, producer.New(q, config.Messages, config.EventsPerProducer, collector))
	}
	return c, nil
}

// Start writes the banner, launches the processor, and fans out the
// producers. It returns once everything is running.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("controller already started")
	}
	c.started = true
	c.startTime = time.Now()
	c.mu.Unlock()

	if err := c.sink.WriteBanner(time.Now()); err != nil {
		// Nothing has launched yet; a later Stop must not wait on it.
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		return fmt.Errorf("failed to write banner: %w", err)
	}

	// Processor before producers: the queue must have its consumer before
	// the first event lands.
	go c.proc.Run()

	c.sampleWg.Add(1)
	go c.sampleDepthLoop()

	for _, p := range c.producers {
		c.producerWg.Add(1)
		go func(p *producer.Producer) {
			defer c.producerWg.Done()
			n := p.Run()

			c.mu.Lock()
			c.accepted += n
			c.mu.Unlock()
		}(p)
	}

	log.Info("Pipeline started",
		"producers", c.config.Producers,
		"events_per_producer", c.config.EventsPerProducer)
	return nil
}

// ProducersJoin blocks until every producer has finished emitting.
func (c *Controller) ProducersJoin() {
	c.producerWg.Wait()
}

// BeginShutdown transitions the lifecycle Running -> Draining and wakes the
// queue's waiting consumer. Idempotent.
func (c *Controller) BeginShutdown() {
	c.queue.BeginShutdown()
	log.Info("Shutdown begun, draining queue", "pending", c.queue.Len())
}

// AwaitProcessorStop blocks until the processor has observed end-of-stream
// and exited. Only after this returns is the final frequency snapshot
// stable.
func (c *Controller) AwaitProcessorStop() {
	<-c.proc.Done()

	c.sampleOnce.Do(func() { close(c.stopSample) })
	c.sampleWg.Wait()
}

// Stop runs the full orderly shutdown: join producers, begin the drain, wait
// for the processor, close the sink. Safe to call once the controller has
// started; repeated calls are no-ops.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.mu.Unlock()

	c.ProducersJoin()
	c.BeginShutdown()
	c.AwaitProcessorStop()

	if err := c.sink.Close(); err != nil {
		log.Error("Failed to close sink", "error", err)
	}

	log.Info("Pipeline stopped",
		"duration", time.Since(c.startTime),
		"accepted", c.Accepted(),
		"processed", c.proc.Processed())
}

// sampleDepthLoop feeds the queue depth gauge until shutdown completes.
func (c *Controller) sampleDepthLoop() {
	defer c.sampleWg.Done()
	ticker := time.NewTicker(c.config.DepthSampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopSample:
			c.collector.SetQueueDepth(c.queue.Len())
			return
		case <-ticker.C:
			c.collector.SetQueueDepth(c.queue.Len())
		}
	}
}

// Report returns the top-N entries of the frequency snapshot; topN <= 0
// returns everything.
func (c *Controller) Report(topN int) types.WordCounts {
	snap := c.table.Snapshot()
	if topN > 0 && len(snap) > topN {
		snap = snap[:topN]
	}
	return snap
}

// Accepted reports how many events the queue accepted across all producers.
func (c *Controller) Accepted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accepted
}

// Processed reports how many events the processor has consumed.
func (c *Controller) Processed() uint64 {
	return c.proc.Processed()
}

// Status returns a point-in-time view of the pipeline for display.
func (c *Controller) Status() map[string]interface{} {
	c.mu.Lock()
	startTime := c.startTime
	accepted := c.accepted
	c.mu.Unlock()

	return map[string]interface{}{
		"uptime":         time.Since(startTime).String(),
		"state":          string(c.queue.State()),
		"queue_depth":    c.queue.Len(),
		"accepted":       accepted,
		"processed":      c.proc.Processed(),
		"distinct_words": c.table.Len(),
		"total_tokens":   c.table.TotalTokens(),
	}
}
