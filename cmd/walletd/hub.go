package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

type signalClient struct {
	conn *websocket.Conn
	send chan []byte
}

// SignalHub fans provider signals out to websocket subscribers. Slow
// subscribers are dropped rather than allowed to stall the hub.
type SignalHub struct {
	mu       sync.RWMutex
	clients  map[*signalClient]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewSignalHub(logger *zap.Logger) *SignalHub {
	return &SignalHub{
		clients: make(map[*signalClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.Named("signalHub"),
	}
}

// Broadcast delivers one JSON-encoded signal to every subscriber. It is the
// signal.Handler installed by the daemon.
func (h *SignalHub) Broadcast(jsonEvent []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- jsonEvent:
		default:
			go h.closeClient(client)
		}
	}
}

// ServeWS upgrades the connection and subscribes it to signals.
func (h *SignalHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &signalClient{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(client)
	go h.readLoop(client)
}

func (h *SignalHub) writeLoop(client *signalClient) {
	defer h.closeClient(client)
	for payload := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readLoop discards inbound frames; it exists to notice closed connections.
func (h *SignalHub) readLoop(client *signalClient) {
	defer h.closeClient(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *SignalHub) closeClient(client *signalClient) {
	h.mu.Lock()
	_, known := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if known {
		close(client.send)
		_ = client.conn.Close()
	}
}

// Close tears every subscriber down.
func (h *SignalHub) Close() {
	h.mu.Lock()
	clients := make([]*signalClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.closeClient(client)
	}
}
