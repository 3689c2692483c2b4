package activity

import (
	"sync"
	"time"
)

type EventType string

const (
	EventUnloadRequested  EventType = "unload_requested"
	EventOffloadRequested EventType = "offload_requested"
	EventOptimizeApplied  EventType = "optimize_applied"
	EventTTLUnload        EventType = "ttl_unload"
	EventDefragmentation  EventType = "defragmentation"
	EventTransfer         EventType = "transfer"
	EventRebalance        EventType = "rebalance"
	EventPlacement        EventType = "placement"
)

type Event struct {
	At      time.Time `json:"at"`
	Type    EventType `json:"type"`
	Machine string    `json:"machine,omitempty"`
	Model   string    `json:"model,omitempty"`
	Note    string    `json:"note,omitempty"`
}

// Log is a fixed-size ring of recent scheduler actions, newest first on read.
type Log struct {
	mu   sync.RWMutex
	buf  []Event
	next int
	full bool
}

func New(size int) *Log {
	if size <= 0 {
		size = 200
	}
	return &Log{
		buf: make([]Event, size),
	}
}

func (l *Log) Add(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf[l.next] = e
	l.next++
	if l.next >= len(l.buf) {
		l.next = 0
		l.full = true
	}
}

func (l *Log) List() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.full && l.next == 0 {
		return nil
	}

	var out []Event
	if l.full {
		out = make([]Event, 0, len(l.buf))
		out = append(out, l.buf[l.next:]...)
		out = append(out, l.buf[:l.next]...)
	} else {
		out = append([]Event(nil), l.buf[:l.next]...)
	}
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
