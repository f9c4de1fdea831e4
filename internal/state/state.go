// Package state provides thread-safe bookkeeping of viewer activations.
package state

import (
	"sync"
	"time"
)

// EventType represents how an activation ended.
type EventType string

const (
	EventRendered  EventType = "RENDERED"
	EventFailed    EventType = "FAILED"
	EventDiscarded EventType = "DISCARDED"
)

// Event records one finished activation.
type Event struct {
	Type       EventType     `json:"type"`
	Timestamp  time.Time     `json:"timestamp"`
	Generation uint64        `json:"generation"`
	RequestID  string        `json:"request_id,omitempty"`
	Points     int           `json:"points"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// Manager tracks in-flight requests and the outcome of finished ones.
type Manager struct {
	mu sync.RWMutex

	// Pending requests
	inFlight int
	issued   uint64

	// Last finished activation
	lastFinish   time.Time
	lastDuration time.Duration
	lastError    error
	lastPoints   int

	// Totals
	rendered  int
	failed    int
	discarded int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Begin marks a request of the given generation as pending.
func (m *Manager) Begin(generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inFlight++
	if generation > m.issued {
		m.issued = generation
	}
}

// Finish records the outcome of a pending request.
func (m *Manager) Finish(e Event, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight > 0 {
		m.inFlight--
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	switch e.Type {
	case EventRendered:
		m.rendered++
		m.lastPoints = e.Points
		m.lastError = nil
	case EventFailed:
		m.failed++
		m.lastError = err
		if err != nil && e.Error == "" {
			e.Error = err.Error()
		}
	case EventDiscarded:
		// Stale responses don't change what is on screen.
		m.discarded++
		m.addEvent(e)
		return
	}

	m.lastFinish = e.Timestamp
	m.lastDuration = e.Duration
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot is a point-in-time view of the manager.
type Snapshot struct {
	InFlight     int
	Issued       uint64
	LastFinish   time.Time
	LastDuration time.Duration
	LastError    error
	LastPoints   int
	Rendered     int
	Failed       int
	Discarded    int
	Events       []Event
}

// Pending reports whether any request is outstanding.
func (s Snapshot) Pending() bool { return s.InFlight > 0 }

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		InFlight:     m.inFlight,
		Issued:       m.issued,
		LastFinish:   m.lastFinish,
		LastDuration: m.lastDuration,
		LastError:    m.lastError,
		LastPoints:   m.lastPoints,
		Rendered:     m.rendered,
		Failed:       m.failed,
		Discarded:    m.discarded,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Pending reports whether any request is outstanding.
func (m *Manager) Pending() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inFlight > 0
}
