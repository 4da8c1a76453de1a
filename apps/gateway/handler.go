package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/auth"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/chat"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/registry"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/topic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Gateway wires websocket sessions into the routing core.
type Gateway struct {
	auth     *auth.Auth
	presence *registry.Presence
	topics   *topic.Router
	typing   *chat.TypingSignal
}

func NewGateway(a *auth.Auth, presence *registry.Presence, topics *topic.Router, typing *chat.TypingSignal) *Gateway {
	return &Gateway{auth: a, presence: presence, topics: topics, typing: typing}
}

// serveWs upgrades the request and attaches the connection under the
// authenticated identity. A prior connection for the same identity is closed
// after the swap: the most recent session wins.
func (g *Gateway) serveWs(w http.ResponseWriter, r *http.Request) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		// Query param fallback, standard for browser websocket clients.
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, err := g.auth.ValidateToken(auth.StripBearer(tokenString))
	if err != nil {
		log.Printf("gateway: rejected connect: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("gateway: upgrade failed: %v", err)
		return
	}

	c := newConn(claims.UserID, ws)
	prev := g.presence.Attach(context.Background(), c.userID, c)
	if prev != nil {
		prev.Close("session replaced")
	}
	log.Printf("gateway: %s connected (session %s)", c.userID, c.sessionID)

	// Optional initial topic subscription, so a client reconnecting with a
	// group open does not miss fan-out while it re-sends joinGroup.
	if topicID := r.URL.Query().Get("topic"); topicID != "" {
		g.topics.Join(topicID, c)
	}

	go c.writePump()
	go c.readPump(g)
}

// handleEvent dispatches one client frame. Typing notices relay to the named
// peer; join/leave mutate the connection's topic subscriptions. Anything else
// is ignored: all stateful operations go through the request/response surface.
func (g *Gateway) handleEvent(c *conn, frame []byte) {
	var envelope struct {
		Name model.EventName `json:"event"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		log.Printf("gateway: bad frame from %s: %v", c.userID, err)
		return
	}

	switch envelope.Name {
	case model.EventTyping, model.EventStopTyping:
		var payload model.TypingPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil || payload.ToUserID == "" {
			return
		}
		if envelope.Name == model.EventTyping {
			g.typing.Typing(c.userID, payload.ToUserID)
		} else {
			g.typing.StopTyping(c.userID, payload.ToUserID)
		}

	case model.EventJoinGroup, model.EventLeaveGroup:
		var payload model.TopicPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil || payload.GroupID == "" {
			return
		}
		if envelope.Name == model.EventJoinGroup {
			g.topics.Join(payload.GroupID, c)
		} else {
			g.topics.Leave(payload.GroupID, c)
		}

	default:
		log.Printf("gateway: ignoring %q event from %s", envelope.Name, c.userID)
	}
}

// detach tears down registry and topic state when a connection's read loop
// ends. The handle-equality guard in the registry means a displaced session
// disconnecting late cannot evict its successor.
func (g *Gateway) detach(c *conn) {
	g.topics.LeaveAll(c)
	if g.presence.Detach(context.Background(), c.userID, c) {
		log.Printf("gateway: %s disconnected (session %s)", c.userID, c.sessionID)
	}
}
