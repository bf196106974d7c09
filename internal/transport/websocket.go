// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	applog "spectro/internal/log"
)

// WebSocketTransport broadcasts rendered frames as JSON to connected
// WebSocket clients. Frames are queued on a buffered channel; when the
// queue is full the frame is dropped rather than stalling the caller.
type WebSocketTransport struct {
	addr      string
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan *Frame
	server    *http.Server
}

// NewWebSocketTransport starts an HTTP server on addr serving frame
// streams at /rows.
func NewWebSocketTransport(addr string) *WebSocketTransport {
	t := &WebSocketTransport{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local visualization tool, any origin may connect
			},
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan *Frame, 256),
	}
	t.start()
	return t
}

func (t *WebSocketTransport) start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/rows", t.handleWebSocket)

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	go func() {
		applog.Infof("WebSocketTransport: serving frames on %s/rows", t.addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			applog.Errorf("WebSocketTransport: server error: %v", err)
		}
	}()

	go t.handleBroadcasts()
}

func (t *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Errorf("WebSocketTransport: upgrade error: %v", err)
		return
	}

	t.clientsMu.Lock()
	t.clients[conn] = true
	total := len(t.clients)
	t.clientsMu.Unlock()
	applog.Infof("WebSocketTransport: client connected, total: %d", total)

	go func() {
		// Block until the client closes or errors, then deregister.
		if _, _, err := conn.ReadMessage(); err != nil {
			t.clientsMu.Lock()
			delete(t.clients, conn)
			total := len(t.clients)
			t.clientsMu.Unlock()
			conn.Close()
			applog.Infof("WebSocketTransport: client disconnected, total: %d", total)
		}
	}()
}

func (t *WebSocketTransport) handleBroadcasts() {
	for frame := range t.broadcast {
		t.clientsMu.Lock()
		for client := range t.clients {
			if err := client.WriteJSON(frame); err != nil {
				applog.Warnf("WebSocketTransport: dropping client: %v", err)
				client.Close()
				delete(t.clients, client)
			}
		}
		t.clientsMu.Unlock()
	}
}

// Publish queues a frame for broadcast, dropping it if the queue is
// full.
func (t *WebSocketTransport) Publish(frame *Frame) error {
	select {
	case t.broadcast <- frame:
	default:
		// Queue full; the next frame supersedes this one anyway.
	}
	return nil
}

// Close disconnects all clients and shuts down the server.
func (t *WebSocketTransport) Close() error {
	applog.Infof("WebSocketTransport: closing")

	t.clientsMu.Lock()
	for client := range t.clients {
		client.Close()
	}
	t.clients = make(map[*websocket.Conn]bool)
	t.clientsMu.Unlock()

	if t.server != nil {
		return t.server.Close()
	}
	return nil
}

var _ Transport = (*WebSocketTransport)(nil)
