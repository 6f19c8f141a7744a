// Package activitylog keeps a bounded in-memory feed of agent
// activity for the dashboard. Entries are not persisted; a restart
// starts the feed empty.
package activitylog

import (
	"strings"
	"sync"
	"time"
)

const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// DefaultCapacity bounds the feed; the oldest entries are evicted
// once it is full.
const DefaultCapacity = 600

type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Action    string         `json:"action"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// Log is a fixed-capacity ring buffer of activity entries, safe for
// concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	head    int
	size    int
}

func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{entries: make([]Entry, capacity)}
}

// Add appends an entry, evicting the oldest when full. The level is
// lowercased; unknown levels are kept as given.
func (l *Log) Add(level, action, message string, details map[string]any) {
	e := Entry{
		Timestamp: time.Now().UTC(),
		Level:     strings.ToLower(level),
		Action:    action,
		Message:   message,
		Details:   details,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := (l.head + l.size) % len(l.entries)
	l.entries[idx] = e
	if l.size < len(l.entries) {
		l.size++
	} else {
		l.head = (l.head + 1) % len(l.entries)
	}
}

// List returns up to limit entries, newest first. The limit is
// clamped to [1, capacity].
func (l *Log) List(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit < 1 {
		limit = 1
	}
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	if limit > l.size {
		limit = l.size
	}

	out := make([]Entry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (l.head + l.size - 1 - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}

// Len reports the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
