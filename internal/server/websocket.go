package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsHub fans committed mutations out to every client watching a game.
// Subscribers get a full snapshot on connect and after every change, so
// no client ever needs to poll.
type wsHub struct {
	mu     sync.Mutex
	groups map[uint]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[uint]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(gameID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[gameID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(gameID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(gameID uint, payload any) {
	h.mu.Lock()
	group := h.groups[gameID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(gameID, conn)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	game, err := s.poker.Game(gameID)
	if err != nil || game == nil {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected game_id=%d remote=%s", gameID, r.RemoteAddr)
	s.ws.Add(gameID, conn)
	if snapshot, err := s.snapshot(gameID); err == nil {
		s.ws.Send(conn, snapshot)
	}
	go s.readWS(gameID, conn)
}

func (s *Server) readWS(gameID uint, conn *websocket.Conn) {
	defer s.ws.Remove(gameID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected game_id=%d error=%v", gameID, err)
			return
		}
	}
}

// broadcastGame pushes a fresh snapshot to everyone watching the game.
// Called after every successful mutation.
func (s *Server) broadcastGame(gameID uint) {
	if s.ws == nil {
		return
	}
	snapshot, err := s.snapshot(gameID)
	if err != nil {
		log.Printf("snapshot failed game_id=%d error=%v", gameID, err)
		return
	}
	s.ws.Broadcast(gameID, snapshot)
}
