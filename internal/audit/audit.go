// Package audit records what a run did with each source.
// Events are appended to a JSON Lines (JSONL) file.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType classifies an event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventVerified EventType = "verified"
	EventFailed   EventType = "failed"
	EventRendered EventType = "rendered"
	EventRunEnd   EventType = "run_end"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Source    string    `json:"source,omitempty"`
	URL       string    `json:"url,omitempty"`
	Count     int       `json:"count,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Logger appends events to a JSONL file. It is safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	path string
}

// NewLogger creates an audit logger writing to path.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Log appends an event to the audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, source, url, details string, count int) error {
	return l.Log(Event{
		Type:    eventType,
		Source:  source,
		URL:     url,
		Count:   count,
		Details: details,
	})
}

// Events reads all events in the order they were written.
func (l *Logger) Events() ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}
