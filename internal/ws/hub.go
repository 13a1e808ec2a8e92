// Package ws mirrors the strip to browser clients. A Hub is a strip
// driver: every Show is broadcast as an 8-bit RGB frame on /ws, and
// diagnostics pushed to it go out on /diag.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-ledsegs/internal/diagnostics"
	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
	"github.com/coreman2200/funtimes-ledsegs/internal/strip"
)

const writeWait = 200 * time.Millisecond

// client serialises writes; a websocket.Conn allows one writer at a time.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

type Hub struct {
	strip.Frame
	Brightness float64

	mu          sync.RWMutex
	frameID     uint64
	rgb         []byte
	startTime   time.Time
	status      map[string]any
	clients     map[*client]bool
	diagClients map[*client]bool
	up          websocket.Upgrader
	log         zerolog.Logger
}

func NewHub(n int, l zerolog.Logger) *Hub {
	return &Hub{
		Frame:       strip.NewFrame(n),
		Brightness:  1,
		rgb:         make([]byte, n*3),
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:         l.With().Str("component", "ws").Logger(),
	}
}

func (h *Hub) Begin() error { return nil }

// Show converts the staged frame and sends it to every /ws client.
func (h *Hub) Show() error {
	h.mu.Lock()
	for i, c := range h.Pixels() {
		p := rgb.NRGBA(c, h.Brightness)
		h.rgb[i*3+0] = p.R
		h.rgb[i*3+1] = p.G
		h.rgb[i*3+2] = p.B
	}
	h.frameID++
	id := h.frameID
	buf := append([]byte{}, h.rgb...)
	h.mu.Unlock()

	h.broadcastFrame(id, buf)
	return nil
}

// SetStatus replaces the extra fields served on /health. The hub keeps
// its own copy, so the caller may reuse st.
func (h *Hub) SetStatus(st map[string]any) {
	cp := make(map[string]any, len(st))
	for k, v := range st {
		cp[k] = v
	}
	h.mu.Lock()
	h.status = cp
	h.mu.Unlock()
}

// Mux serves /ws, /diag and /health.
func (h *Hub) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade frames")
		return
	}
	c := &client{conn: conn}
	// topology goes out before the client can see a frame
	c.mu.Lock()
	h.mu.Lock()
	h.clients[c] = true
	top, _ := json.Marshal(map[string]any{
		"count":    h.Len(),
		"frame_id": h.frameID,
	})
	h.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.TextMessage, top)
	c.mu.Unlock()
	go h.drain(c, h.clients)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade diag")
		return
	}
	c := &client{conn: conn}
	h.mu.Lock()
	h.diagClients[c] = true
	h.mu.Unlock()
	go h.drain(c, h.diagClients)
}

// drain discards client messages until the connection closes.
func (h *Hub) drain(c *client, set map[*client]bool) {
	defer func() {
		h.mu.Lock()
		delete(set, c)
		h.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := map[string]any{
		"frame_id":   h.frameID,
		"uptime_s":   time.Since(h.startTime).Seconds(),
		"count":      h.Len(),
		"brightness": h.Brightness,
		"clients":    len(h.clients),
	}
	for k, v := range h.status {
		resp[k] = v
	}
	h.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients returns the number of frame and diagnostic connections.
func (h *Hub) Clients() (frames, diags int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.diagClients)
}

func (h *Hub) FrameID() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frameID
}

// Push sends d to every /diag client.
func (h *Hub) Push(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		h.log.Warn().Err(err).Msg("encode diagnostic")
		return
	}
	for _, c := range h.snapshot(h.diagClients) {
		if err := c.write(b); err != nil {
			h.log.Debug().Err(err).Msg("write diag")
		}
	}
}

func (h *Hub) broadcastFrame(id uint64, buf []byte) {
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: buf})
	for _, c := range h.snapshot(h.clients) {
		if err := c.write(b); err != nil {
			h.log.Debug().Err(err).Msg("write frame")
		}
	}
}

func (h *Hub) snapshot(set map[*client]bool) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
