package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Browsers only send control frames; anything larger is a misbehaving peer
	maxMessageSize = 512

	sendBuffer = 16
)

// EventTypeConfig is the type of the event pushed after every change.
const EventTypeConfig = "config"

// Event is the JSON message sent to websocket clients.
type Event struct {
	Type   string                  `json:"type"`
	Config pixelconfig.PixelConfig `json:"config"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// hub fans configuration events out to the connected websocket clients.
type hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

type wsClient struct {
	hub        *hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

func newHub() *hub {
	return &hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
}

func (h *hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; drop it rather than block the others
					close(client.send)
					delete(h.clients, client)
				}
			}
		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

func (h *hub) stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// BroadcastConfig pushes cfg to every client. It never blocks the caller.
func (h *hub) BroadcastConfig(cfg pixelconfig.PixelConfig) {
	message, err := encodeEvent(cfg)
	if err != nil {
		logging.Error("Failed to encode config event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		logging.Warn("Websocket hub busy, dropping config event")
	}
}

func encodeEvent(cfg pixelconfig.PixelConfig) ([]byte, error) {
	return json.Marshal(Event{Type: EventTypeConfig, Config: cfg})
}

// handleWebSocket upgrades the request and sends the current configuration
// followed by one event per applied submission.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Failed to upgrade to websocket",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	logging.LogConnection(r.RemoteAddr, "websocket_opened")

	client := &wsClient{
		hub:        s.hub,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		remoteAddr: r.RemoteAddr,
	}

	if initial, err := encodeEvent(s.store.Get()); err == nil {
		client.send <- initial
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so that control frames are processed.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
		logging.LogConnection(c.remoteAddr, "websocket_closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn("Websocket read error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// writePump is the only writer on the connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
