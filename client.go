package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client is one connected transport session. The playerID, joined, alive and
// gone fields are guarded by the hub mutex.
type client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ping chan struct{}
	log  *zap.SugaredLogger

	playerID string
	joined   bool
	alive    bool
	gone     bool
}

func newClient(h *Hub, conn *websocket.Conn) *client {
	id := uuid.New()
	return &client{
		id:    id,
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, h.cfg.SendBuffer),
		ping:  make(chan struct{}, 1),
		log:   h.log.With("conn", id.String()),
		alive: true,
	}
}

// enqueue hands a serialized frame to the writer goroutine without blocking.
// A full buffer means the recipient cannot keep up; the frame is dropped for
// that recipient and logged, per the no-retry delivery model.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.log.Warnw("send buffer full, dropping frame", "player", c.playerID)
	}
}

// readPump reads frames until the transport fails or closes, then funnels the
// connection into the shared disconnect path. Pongs feed the liveness flag
// consumed by the heartbeat sweep.
func (c *client) readPump() {
	defer c.hub.drop(c, "transport closed")

	c.conn.SetReadLimit(c.hub.cfg.MaxFrameBytes)
	c.conn.SetPongHandler(func(string) error {
		c.hub.markAlive(c)
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warnw("read failed", "error", err)
			}
			return
		}
		c.handleFrame(data)
	}
}

// writePump drains the send buffer onto the socket and emits ping probes for
// the heartbeat sweep. It exits when the hub closes the send channel or a
// write fails; a failed write closes the socket, which surfaces in readPump
// and triggers the disconnect path.
func (c *client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warnw("write failed", "error", err)
				return
			}
		case <-c.ping:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
