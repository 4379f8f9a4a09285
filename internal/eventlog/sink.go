// Package eventlog provides the append-only integration log the pipeline
// reports to. Sinks are best-effort: a failing write must never gate the
// pipeline, so none of the implementations return errors.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level classifies an event line.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Sink receives one event per significant pipeline action.
type Sink interface {
	Event(level Level, msg string)
}

// FileSink appends events to a single flat file, one line per event in the
// form "[<RFC3339 timestamp>] <LEVEL>: <message>".
type FileSink struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileSink creates a sink writing to path, creating parent directories if
// needed.
func NewFileSink(path string) *FileSink {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return &FileSink{path: path, now: time.Now}
}

// Event appends one line. Open and write errors are swallowed.
func (s *FileSink) Event(level Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close() //nolint:errcheck

	fmt.Fprintf(f, "[%s] %s: %s\n", s.now().Format(time.RFC3339), level, msg)
}

// ZapSink forwards events to the global zap logger.
type ZapSink struct{}

// Event implements Sink.
func (ZapSink) Event(level Level, msg string) {
	if level == LevelError {
		zap.L().Error(msg)
		return
	}
	zap.L().Info(msg)
}

// MultiSink fans one event out to several sinks.
type MultiSink []Sink

// Event implements Sink.
func (m MultiSink) Event(level Level, msg string) {
	for _, s := range m {
		s.Event(level, msg)
	}
}

// Nop discards all events.
type Nop struct{}

// Event implements Sink.
func (Nop) Event(Level, string) {}
