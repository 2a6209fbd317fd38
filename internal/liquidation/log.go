package liquidation

import (
	"sync"
	"time"
)

// Severity classifies a run log entry for display.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Error   Severity = "error"
)

// Entry is one line of the run log. IDs are unique and increasing within a run.
type Entry struct {
	ID       uint64
	Time     time.Time
	Message  string
	Severity Severity
}

// Log is an append-only, concurrency-safe sequence of entries.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	next    uint64
	now     func() time.Time
	observe func(Entry)
}

func newLog(now func() time.Time, observe func(Entry)) *Log {
	return &Log{now: now, observe: observe}
}

// Append records message and forwards it to the observer.
func (l *Log) Append(sev Severity, message string) Entry {
	l.mu.Lock()
	l.next++
	e := Entry{ID: l.next, Time: l.now(), Message: message, Severity: sev}
	l.entries = append(l.entries, e)
	observe := l.observe
	l.mu.Unlock()

	if observe != nil {
		observe(e)
	}
	return e
}

// Entries returns a copy of the log so far.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
