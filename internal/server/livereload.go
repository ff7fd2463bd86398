package server

import (
	"bufio"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

const defaultHeartbeat = 30 * time.Second

// LiveReloadHub manages SSE clients for generation broadcasts.
type LiveReloadHub struct {
	mu        sync.RWMutex
	nextID    int
	clients   map[int]*lrClient
	closed    bool
	lastHash  string
	heartbeat time.Duration
	logger    *slog.Logger
}

type lrClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

// NewLiveReloadHub creates an empty hub.
func NewLiveReloadHub(logger *slog.Logger) *LiveReloadHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveReloadHub{clients: map[int]*lrClient{}, heartbeat: defaultHeartbeat, logger: logger}
}

// Clients returns the number of connected clients.
func (h *LiveReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP implements the SSE endpoint.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := &lrClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	current := h.lastHash
	h.mu.Unlock()
	defer h.removeClient(client.id)

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			h.logger.Debug("livereload write", logfields.Error(err))
			return false
		}
		if err := bw.Flush(); err != nil {
			h.logger.Debug("livereload flush", logfields.Error(err))
			return false
		}
		flusher.Flush()
		return true
	}

	first := ": connected\n\n"
	if current != "" {
		first += event(current)
	}
	if !send(first) {
		return
	}

	hb := time.NewTicker(h.heartbeat)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case hash := <-client.ch:
			if !send(event(hash)) {
				return
			}
		}
	}
}

func event(hash string) string {
	return "data: {\"hash\":" + strconv.Quote(hash) + "}\n\n"
}

func (h *LiveReloadHub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// Broadcast sends hash to all clients. Clients whose buffers are full are
// dropped; they reconnect and pick up the latest hash on connect.
func (h *LiveReloadHub) Broadcast(hash string) {
	h.mu.Lock()
	if h.closed || hash == "" || hash == h.lastHash {
		h.mu.Unlock()
		return
	}
	h.lastHash = hash
	snapshot := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- hash:
		case <-c.done:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	h.logger.Debug("livereload broadcast",
		slog.String("hash", hash),
		slog.Int("clients", len(snapshot)),
		slog.Int("dropped", dropped))
}

// Shutdown closes all clients and prevents future broadcasts.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*lrClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
}
