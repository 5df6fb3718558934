package ws

import (
	"context"
	"sync"

	"talent-bridge/internal/logger"
)

const (
	eventBuffer = 1024
	joinBuffer  = 128
)

type event struct {
	projectID int64
	payload   []byte
}

// Hub routes run events to subscribers. Only the Run goroutine mutates the
// subscriber set; the mutex guards reads from other goroutines.
type Hub struct {
	subs   map[*Client]struct{}
	events chan event
	join   chan *Client
	leave  chan *Client
	mu     sync.RWMutex
	log    logger.Logger

	// done is closed once Run has returned.
	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		subs:   make(map[*Client]struct{}),
		events: make(chan event, eventBuffer),
		join:   make(chan *Client, joinBuffer),
		leave:  make(chan *Client, joinBuffer),
		log:    log,
		done:   make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.subs {
				h.drop(c)
			}
			h.mu.Unlock()
			h.closePending()
			return

		case c := <-h.join:
			if c == nil {
				continue
			}
			h.mu.Lock()
			h.subs[c] = struct{}{}
			total := len(h.subs)
			h.mu.Unlock()
			h.log.Debug("ws subscriber joined", map[string]interface{}{"subscribers": total, "projects": c.projectList()})

		case c := <-h.leave:
			if c == nil {
				continue
			}
			h.mu.Lock()
			h.drop(c)
			total := len(h.subs)
			h.mu.Unlock()
			h.log.Debug("ws subscriber left", map[string]interface{}{"subscribers": total})

		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev event) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.subs))
	for c := range h.subs {
		if c.wants(ev.projectID) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	var slow int
	for _, c := range targets {
		select {
		case c.send <- ev.payload:
		default:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()
			slow++
		}
	}
	if slow > 0 {
		h.log.Warn("ws dropped slow subscribers", map[string]interface{}{"dropped": slow, "project_id": ev.projectID})
	}
}

// closePending closes clients still queued to join when Run stops.
func (h *Hub) closePending() {
	for {
		select {
		case c := <-h.join:
			if c != nil {
				close(c.send)
			}
		default:
			return
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(c *Client) {
	if _, ok := h.subs[c]; !ok {
		return
	}
	delete(h.subs, c)
	close(c.send)
}

// Register subscribes c. Once the hub has stopped, c is closed instead.
func (h *Hub) Register(c *Client) {
	if h == nil || c == nil {
		return
	}
	select {
	case <-h.done:
		close(c.send)
	case h.join <- c:
	}
}

// Unregister never blocks after the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	if h == nil || c == nil {
		return
	}
	select {
	case <-h.done:
	case h.leave <- c:
	}
}

// Publish queues payload for subscribers of projectID and for unfiltered
// subscribers. A full queue drops the event.
func (h *Hub) Publish(projectID int64, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.events <- event{projectID: projectID, payload: payload}:
	default:
		h.log.Warn("ws event dropped", map[string]interface{}{"reason": "buffer_full", "project_id": projectID})
	}
}

// Broadcast reaches every subscriber regardless of filter.
func (h *Hub) Broadcast(payload []byte) {
	h.Publish(0, payload)
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
