// Package realtime keeps the websocket connections of the users attached to this instance and pushes
// alerts to them.
package realtime

//go:generate go run go.uber.org/mock/mockgen -source=./hub.go -destination=./mocks/hub_mock.go -package=mocks

import (
	"context"
	"errors"
	"net/http"
	"rento/config"
	"rento/shared/constant"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const maxMessageSize = 512

var ErrHubClosed = errors.New("realtime hub closed")

type Hub interface {
	// Run owns the connection registry until ctx is cancelled.
	Run(ctx context.Context)
	// Serve upgrades the request and streams events to userID until the peer disconnects.
	Serve(w http.ResponseWriter, r *http.Request, userID string) error
	// Send queues payload for every local connection of userID.
	Send(ctx context.Context, userID string, payload []byte) error
	Connected(userID string) int
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

type envelope struct {
	userID  string
	payload []byte
}

type hubImpl struct {
	cfg        *config.Config
	upgrader   websocket.Upgrader
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan envelope
	done       chan struct{}
	mu         sync.RWMutex
}

func New(cfg *config.Config) Hub {
	h := &hubImpl{
		cfg:        cfg,
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan envelope),
		done:       make(chan struct{}),
	}

	h.upgrader = websocket.Upgrader{
		CheckOrigin: h.checkOrigin,
	}

	return h
}

func (h *hubImpl) checkOrigin(r *http.Request) bool {
	allowed := h.cfg.App.CORS.AllowedOrigins
	origin := r.Header.Get("Origin")

	return origin == "" || len(allowed) == 0 || slices.Contains(allowed, constant.Asterix) || slices.Contains(allowed, origin)
}

func (h *hubImpl) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, conns := range h.clients {
				for c := range conns {
					close(c.send)
				}

				delete(h.clients, userID)
			}
			h.mu.Unlock()

			log.Info().Msg("Realtime hub stopped")

			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}

			h.clients[c.userID][c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients[msg.userID] {
				select {
				case c.send <- msg.payload:
				default:
					// Slow consumer: drop the connection rather than block every other user.
					log.Warn().Str("user_id", c.userID).Msg("realtime send buffer full, closing connection")
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *hubImpl) remove(c *client) {
	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}

	if _, ok := conns[c]; !ok {
		return
	}

	delete(conns, c)
	close(c.send)

	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
}

func (h *hubImpl) Send(ctx context.Context, userID string, payload []byte) error {
	select {
	case h.broadcast <- envelope{userID: userID, payload: payload}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}

func (h *hubImpl) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

func (h *hubImpl) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, max(h.cfg.Realtime.SendBuffer, 1)),
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()

		return ErrHubClosed
	}

	go h.writePump(c)
	h.readPump(c)

	return nil
}

// readPump discards inbound frames. It exists to process control frames and to notice the peer leaving.
func (h *hubImpl) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}

		_ = c.conn.Close()
	}()

	pongWait := h.pingPeriod() * 2

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", c.userID).Msg("realtime connection closed unexpectedly")
			}

			return
		}
	}
}

func (h *hubImpl) writePump(c *client) {
	ticker := time.NewTicker(h.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	writeWait := time.Duration(max(h.cfg.Realtime.WriteWaitSeconds, 1)) * time.Second

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *hubImpl) pingPeriod() time.Duration {
	return time.Duration(max(h.cfg.Realtime.PingPeriodSeconds, 1)) * time.Second
}
