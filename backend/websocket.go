// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Spectators only ever send PINGs.
	maxMessageSize = 4 * 1024

	hubIdleTimeout = 5 * time.Minute
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Message is what spectators receive.
type Message struct {
	Type    string          `json:"type"`
	GameID  string          `json:"gameId,omitempty"`
	Status  string          `json:"status,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Hub fans one session's state out to its spectators.
type Hub struct {
	gameID string

	// Registered clients.
	clients map[*wsClient]bool

	// Outbound messages to every client.
	messages chan Message

	// Register requests from the clients.
	register chan *wsClient

	// Unregister requests from clients.
	unregister chan *wsClient

	// Closed when run returns.
	done chan struct{}

	// Sent to clients as they join.
	latest *Message

	hm  *HubManager
	log zerolog.Logger
}

func newHub(id string, hm *HubManager) *Hub {
	return &Hub{
		gameID:     id,
		clients:    make(map[*wsClient]bool),
		messages:   make(chan Message, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		hm:         hm,
		log:        hm.log.With().Str("gameId", id).Logger(),
	}
}

func (h *Hub) run() {
	idleTimer := time.NewTicker(hubIdleTimeout)
	defer idleTimer.Stop()
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if h.latest != nil {
				client.sendJSON(*h.latest)
			}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.messages:
			if msg.Type == MsgTypeState {
				h.latest = &msg
			}
			h.broadcast(msg)
		case <-idleTimer.C:
			if len(h.clients) == 0 {
				h.hm.removeHub(h)
				return
			}
		}
	}
}

// broadcast drops clients that can't keep up. Their read pump may still be
// queueing PONGs, so the send channel stays open; closing the connection
// ends both pumps.
func (h *Hub) broadcast(msg Message) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			client.conn.Close()
		}
	}
}

// join registers c, or reports false when the hub has already shut down.
func (h *Hub) join(c *wsClient) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *wsClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// HubManager owns one Hub per watched session.
type HubManager struct {
	hubs map[string]*Hub
	mu   sync.Mutex
	log  zerolog.Logger
}

func NewHubManager(logger zerolog.Logger) *HubManager {
	return &HubManager{
		hubs: make(map[string]*Hub),
		log:  logger.With().Str("component", "hub").Logger(),
	}
}

func (hm *HubManager) GetHub(id string) *Hub {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hub, ok := hm.hubs[id]; ok {
		return hub
	}
	hub := newHub(id, hm)
	hm.hubs[id] = hub
	go hub.run()
	return hub
}

// removeHub forgets h if it is still the registered hub for its game.
func (hm *HubManager) removeHub(h *Hub) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	if hm.hubs[h.gameID] == h {
		delete(hm.hubs, h.gameID)
	}
}

// Broadcast sends msg to the session's spectators, if it has any.
func (hm *HubManager) Broadcast(id string, msg Message) {
	hm.mu.Lock()
	hub, ok := hm.hubs[id]
	hm.mu.Unlock()
	if !ok {
		return
	}
	select {
	case hub.messages <- msg:
	case <-hub.done:
	default:
		hm.log.Warn().Str("gameId", id).Msg("hub queue full, dropping update")
	}
}

// HubCount returns the number of live hubs.
func (hm *HubManager) HubCount() int {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	return len(hm.hubs)
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

func (c *wsClient) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug().Err(err).Msg("spectator read")
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			c.sendJSON(Message{Type: MsgTypePong})
		default:
			c.sendJSON(Message{Type: MsgTypeError, Error: "spectators may only PING"})
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendJSON queues msg without blocking; a full queue drops it.
func (c *wsClient) sendJSON(msg Message) {
	select {
	case c.send <- msg:
	default:
	}
}

// stateMessage renders a session view for spectators.
func stateMessage(v SessionView) Message {
	payload, err := json.Marshal(v)
	if err != nil {
		return Message{Type: MsgTypeError, GameID: v.ID, Error: err.Error()}
	}
	return Message{Type: MsgTypeState, GameID: v.ID, Status: v.Status, Payload: payload}
}

// ServeWS upgrades the request and attaches the connection to the session's hub.
func ServeWS(hm *HubManager, sess *Session, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hm.log.Debug().Err(err).Msg("websocket upgrade")
		return
	}

	client := &wsClient{conn: conn, send: make(chan Message, 256)}
	client.send <- stateMessage(sess.Snapshot())
	for {
		hub := hm.GetHub(sess.ID)
		client.hub = hub
		if hub.join(client) {
			break
		}
	}

	go client.writePump()
	go client.readPump()
}
