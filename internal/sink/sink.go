// ============================================================================
// Log Sink - serialized durable line writer
// ============================================================================
//
// Package: internal/sink
// File: sink.go
// Purpose: Appends one formatted line per event to an append-only text
// destination and flushes before returning, so no write is silently held
// past the call.
//
// The write path is serialized by the sink's own lock rather than caller
// discipline: the contract holds even if multiple writers ever share one
// sink.
//
// ============================================================================

package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ErrClosed is returned by Append after Close. A closed sink is never
// reusable.
var ErrClosed = errors.New("sink is closed")

// File is the slice of *os.File the sink needs. Tests substitute failing
// implementations.
type File interface {
	io.Writer
	Sync() error
	Close() error
}

// Sink appends lines to a durable destination, one flush per append.
type Sink struct {
	mu     sync.Mutex
	file   File
	closed bool
}

// Open creates or opens the file at path in append mode and wraps it in a
// Sink.
func Open(path string) (*Sink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open sink: %w", err)
	}
	return NewSink(file), nil
}

// NewSink wraps an already-open destination.
func NewSink(file File) *Sink {
	return &Sink{file: file}
}

// WriteBanner writes the one-time startup banner line.
func (s *Sink) WriteBanner(now time.Time) error {
	return s.Append(fmt.Sprintf("=== Logger Started at %s ===", now.Format(time.RFC3339)))
}

// Append writes line plus a trailing newline, then flushes. Partial or
// failed writes surface as an error; they are never swallowed.
func (s *Sink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := io.WriteString(s.file, line+"\n"); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Close releases the underlying destination. Subsequent appends return
// ErrClosed.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
