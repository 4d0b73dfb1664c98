// Package livereload pushes reload notifications to browsers over Server-Sent Events.
package livereload

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/ports"
)

const (
	clientBuffer      = 8
	heartbeatInterval = 30 * time.Second
)

var _ ports.Reloader = (*Hub)(nil)

// Message is the payload of one reload event.
type Message struct {
	Generation uint64   `json:"generation"`
	Paths      []string `json:"paths,omitempty"`
}

// Hub tracks connected browsers and broadcasts reloads to them.
// Slow clients whose buffer is full are dropped rather than waited on.
type Hub struct {
	metrics ports.Metrics
	logger  ports.Logger

	mu         sync.Mutex
	nextID     int
	clients    map[int]*client
	generation uint64
	closed     bool
}

type client struct {
	ch   chan Message
	done chan struct{}
}

// NewHub returns an empty Hub. metrics may be nil.
func NewHub(metrics ports.Metrics, log ports.Logger) *Hub {
	return &Hub{
		metrics: metrics,
		logger:  log,
		clients: make(map[int]*client),
	}
}

// Generation returns the sequence number of the last broadcast.
func (h *Hub) Generation() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generation
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP streams reload events to one client until it disconnects or the hub shuts down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, c, current, ok := h.register()
	if !ok {
		http.Error(w, "live reload shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(": connected\n\n") || !send(event(Message{Generation: current})) {
		return
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-c.done:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case msg := <-c.ch:
			if !send(event(msg)) {
				return
			}
		}
	}
}

// Reload broadcasts the next generation to every client.
func (h *Hub) Reload(paths []string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.generation++
	msg := Message{Generation: h.generation, Paths: paths}

	var dropped []int
	for id, c := range h.clients {
		select {
		case c.ch <- msg:
		default:
			dropped = append(dropped, id)
		}
	}
	h.mu.Unlock()

	for _, id := range dropped {
		h.remove(id)
	}
	if len(dropped) > 0 && h.logger != nil {
		h.logger.Warn(fmt.Sprintf("dropped %d slow live reload client(s)", len(dropped)))
	}
	if h.metrics != nil {
		h.metrics.IncReload()
	}
}

// Shutdown disconnects every client and ignores later broadcasts.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.done)
		delete(h.clients, id)
	}
	h.reportClientsLocked()
}

func (h *Hub) register() (int, *client, uint64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, nil, 0, false
	}
	id := h.nextID
	h.nextID++
	c := &client{ch: make(chan Message, clientBuffer), done: make(chan struct{})}
	h.clients[id] = c
	h.reportClientsLocked()
	return id, c, h.generation, true
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.done)
	h.reportClientsLocked()
}

func (h *Hub) reportClientsLocked() {
	if h.metrics != nil {
		h.metrics.SetClients(len(h.clients))
	}
}

func event(msg Message) string {
	data, err := json.Marshal(msg)
	if err != nil {
		return ""
	}
	return "data: " + string(data) + "\n\n"
}
