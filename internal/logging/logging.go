// Package logging provides structured JSON line logging: one JSON object per
// line on stdout, with ts/level/component/event fields.
package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger emits JSON log lines for a single component.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	component string
}

// New creates a Logger for the named component writing to stdout.
func New(component string) *Logger {
	return &Logger{out: os.Stdout, component: component}
}

// NewWithWriter creates a Logger writing to w. Used by tests.
func NewWithWriter(component string, w io.Writer) *Logger {
	return &Logger{out: w, component: component}
}

// Info logs an event at info level with optional extra fields.
func (l *Logger) Info(event string, fields map[string]any) {
	l.write("info", event, fields)
}

// Warn logs an event at warn level with optional extra fields.
func (l *Logger) Warn(event string, fields map[string]any) {
	l.write("warn", event, fields)
}

// Error logs an event at error level, attaching the error message.
func (l *Logger) Error(event string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.write("error", event, fields)
}

func (l *Logger) write(level, event string, fields map[string]any) {
	entry := map[string]any{
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level,
		"component": l.component,
		"event":     event,
	}
	for k, v := range fields {
		if _, reserved := entry[k]; !reserved {
			entry[k] = v
		}
	}

	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(b, '\n'))
}
