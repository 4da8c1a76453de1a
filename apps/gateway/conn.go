package main

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Close code sent to a connection displaced by a newer one for the
	// same identity.
	closeSessionReplaced = 4001
)

var errSendBufferFull = errors.New("send buffer full")
var errConnClosed = errors.New("connection closed")

// newline separates event envelopes folded into one websocket frame.
var newline = []byte{'\n'}

// conn binds one websocket to one user identity and implements the push
// handle the registry hands out. Outbound events go through a buffered
// channel; a full buffer drops the event rather than blocking the router.
type conn struct {
	sessionID string
	userID    string
	ws        *websocket.Conn
	send      chan []byte
	closed    chan struct{}
	once      sync.Once
}

func newConn(userID string, ws *websocket.Conn) *conn {
	return &conn{
		sessionID: uuid.NewString(),
		userID:    userID,
		ws:        ws,
		send:      make(chan []byte, 256),
		closed:    make(chan struct{}),
	}
}

func (c *conn) SessionID() string { return c.sessionID }

// Send enqueues one event frame. No retry, no backpressure: a closed or slow
// connection is a miss and the caller's history fetch is the fallback.
func (c *conn) Send(ev model.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return errConnClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.closed:
		return errConnClosed
	default:
		return errSendBufferFull
	}
}

// Close terminates the connection exactly once. A close frame is attempted
// so displaced sessions see an explicit reason rather than a silent drop.
func (c *conn) Close(reason string) {
	c.once.Do(func() {
		close(c.closed)
		code := websocket.CloseNormalClosure
		if reason == "session replaced" {
			code = closeSessionReplaced
		}
		deadline := time.Now().Add(writeWait)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason), deadline)
		_ = c.ws.Close()
	})
}

// readPump pumps events from the websocket into the routing core.
func (c *conn) readPump(g *Gateway) {
	defer func() {
		g.detach(c)
		c.Close("read loop ended")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, closeSessionReplaced) {
				log.Printf("gateway: read error for %s: %v", c.userID, err)
			}
			return
		}
		g.handleEvent(c, frame)
	}
}

// writePump pumps queued frames to the websocket and keeps it alive with pings.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close("write loop ended")
	}()

	for {
		select {
		case <-c.closed:
			return
		case payload := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := c.ws.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(payload)

			// Fold queued events into the current frame, newline-delimited.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
