// Package feed streams session snapshots to spectators over WebSocket.
// Each frame is one msgpack-encoded jezzball.Snapshot.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
)

const (
	defaultRate  = time.Second / 15
	sendBuffer   = 4
	writeTimeout = 2 * time.Second
)

// Snapshotter is anything that can produce the current session state.
type Snapshotter interface {
	Snapshot() jezzball.Snapshot
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Hub upgrades spectator connections and broadcasts snapshots to them.
type Hub struct {
	source   Snapshotter
	rate     time.Duration
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithRate sets how often Run broadcasts.
func WithRate(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.rate = d
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHub creates a hub reading snapshots from source.
func NewHub(source Snapshotter, opts ...Option) *Hub {
	h := &Hub{
		source:   source,
		rate:     defaultRate,
		logger:   log.New(io.Discard),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handler returns a mux serving the feed at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %d\n", h.Clients())
	})
	return mux
}

// ServeHTTP upgrades the request and registers the spectator.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), addr: r.RemoteAddr}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("spectator connected", "remote", c.addr, "spectators", n)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards incoming frames and unregisters the client once the
// connection fails.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		//nolint:errcheck // A failed deadline surfaces as a write error
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.logger.Debug("write failed", "remote", c.addr, "error", err)
			return
		}
	}
	//nolint:errcheck // Best-effort close frame
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("spectator left", "remote", c.addr, "spectators", n)
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Encode serializes a snapshot into one feed frame.
func Encode(snap jezzball.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("feed: cannot encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses one feed frame.
func Decode(data []byte) (jezzball.Snapshot, error) {
	var snap jezzball.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("feed: cannot decode snapshot: %w", err)
	}
	return snap, nil
}

// Broadcast sends one snapshot to every spectator. Spectators whose
// buffer is full skip this frame.
func (h *Hub) Broadcast(snap jezzball.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("dropping frame for slow spectator", "remote", c.addr, "tick", snap.Tick)
		}
	}
	return nil
}

// Run broadcasts the source's snapshot at the configured rate until ctx
// is done, then disconnects every spectator.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.rate)
	defer ticker.Stop()
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if h.Clients() == 0 {
				continue
			}
			if err := h.Broadcast(h.source.Snapshot()); err != nil {
				h.logger.Error("broadcast failed", "error", err)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
