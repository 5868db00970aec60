package server

import (
	"sync"
	"time"
)

// Event is a single message on the dashboard event stream.
type Event struct {
	Type    string    `json:"type"` // "snapshot", "heartbeat", "paired", "revoked"
	Time    time.Time `json:"time"`
	Uptime  string    `json:"uptime,omitempty"`
	Devices int       `json:"devices,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Hub broadcasts server events to WebSocket subscribers and emits a
// heartbeat on a fixed interval.
type Hub struct {
	refreshMs int
	startedAt time.Time

	deviceCount func() int

	subMu       sync.Mutex
	subscribers []chan Event

	stopCh chan struct{}
}

// NewHub creates a Hub that heartbeats every refreshMs milliseconds.
// deviceCount is polled on each heartbeat; nil is treated as zero devices.
func NewHub(refreshMs int, deviceCount func() int) *Hub {
	if deviceCount == nil {
		deviceCount = func() int { return 0 }
	}
	return &Hub{
		refreshMs:   refreshMs,
		startedAt:   time.Now(),
		deviceCount: deviceCount,
		stopCh:      make(chan struct{}),
	}
}

func (h *Hub) Start() { go h.loop() }

func (h *Hub) Stop() { close(h.stopCh) }

// Snapshot returns the current server state as an event, used as the first
// message on a fresh WebSocket connection.
func (h *Hub) Snapshot() Event {
	return Event{
		Type:    "snapshot",
		Time:    time.Now(),
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Devices: h.deviceCount(),
	}
}

// Publish broadcasts an arbitrary event to all subscribers.
func (h *Hub) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	h.notify(e)
}

// Subscribe returns a channel that receives every event from now on.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 8)
	h.subMu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for i, sub := range h.subscribers {
		if sub == ch {
			h.subscribers = append(h.subscribers[:i], h.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (h *Hub) loop() {
	ticker := time.NewTicker(time.Duration(h.refreshMs) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			h.notify(Event{
				Type:    "heartbeat",
				Time:    time.Now(),
				Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
				Devices: h.deviceCount(),
			})
		}
	}
}

// notify delivers without blocking; slow subscribers drop events.
func (h *Hub) notify(e Event) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}
