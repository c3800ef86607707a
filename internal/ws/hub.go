package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"collective-chat-service/internal/models"
	"collective-chat-service/internal/observability"
)

// Hub maintains active websocket rooms for group and direct chats.
type Hub struct {
	groupRooms     map[int]map[*websocket.Conn]bool
	directRooms    map[int]map[*websocket.Conn]bool
	groupConnInfo  map[int]map[*websocket.Conn]ConnInfo
	directConnInfo map[int]map[*websocket.Conn]ConnInfo
	mu             sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		groupRooms:     make(map[int]map[*websocket.Conn]bool),
		directRooms:    make(map[int]map[*websocket.Conn]bool),
		groupConnInfo:  make(map[int]map[*websocket.Conn]ConnInfo),
		directConnInfo: make(map[int]map[*websocket.Conn]ConnInfo),
	}
}

// AddGroupClient registers a websocket connection to a group chat room.
func (h *Hub) AddGroupClient(chatID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groupRooms[chatID]; !ok {
		h.groupRooms[chatID] = make(map[*websocket.Conn]bool)
		h.groupConnInfo[chatID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.groupRooms[chatID][conn] = true
	h.groupConnInfo[chatID][conn] = info
}

// RemoveGroupClient removes a group chat websocket connection.
func (h *Hub) RemoveGroupClient(chatID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.groupRooms[chatID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.groupRooms, chatID)
		}
	}
	if infos, ok := h.groupConnInfo[chatID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.groupConnInfo, chatID)
		}
	}
}

// AddDirectClient registers a websocket connection to a direct chat room.
func (h *Hub) AddDirectClient(chatID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.directRooms[chatID]; !ok {
		h.directRooms[chatID] = make(map[*websocket.Conn]bool)
		h.directConnInfo[chatID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.directRooms[chatID][conn] = true
	h.directConnInfo[chatID][conn] = info
}

// RemoveDirectClient removes a direct chat websocket connection.
func (h *Hub) RemoveDirectClient(chatID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.directRooms[chatID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.directRooms, chatID)
		}
	}
	if infos, ok := h.directConnInfo[chatID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.directConnInfo, chatID)
		}
	}
}

// BroadcastGroupMessage sends a message to all clients in a group chat.
func (h *Hub) BroadcastGroupMessage(chatID int, msg models.GroupChatMessage) {
	event := models.GroupChatEvent{Type: "message", Message: &msg}
	payload, _ := json.Marshal(event)
	h.broadcast("group", chatID, payload)
}

// BroadcastDirectMessage sends a message to all clients in a direct chat.
func (h *Hub) BroadcastDirectMessage(chatID int, msg models.DirectMessage) {
	event := models.DirectChatEvent{Type: "message", Message: &msg}
	payload, _ := json.Marshal(event)
	h.broadcast("direct", chatID, payload)
}

func (h *Hub) broadcast(kind string, chatID int, payload []byte) {
	for _, conn := range h.roomConns(kind, chatID) {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.removeClient(kind, chatID, conn)
			h.publishWSError(kind, chatID, conn, err)
		}
	}
}

// roomConns snapshots a room's connections under the read lock so the
// broadcast write loop never iterates a map being mutated by Add/Remove.
func (h *Hub) roomConns(kind string, chatID int) []*websocket.Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var room map[*websocket.Conn]bool
	if kind == "group" {
		room = h.groupRooms[chatID]
	} else {
		room = h.directRooms[chatID]
	}
	conns := make([]*websocket.Conn, 0, len(room))
	for conn := range room {
		conns = append(conns, conn)
	}
	return conns
}

func (h *Hub) removeClient(kind string, chatID int, conn *websocket.Conn) {
	if kind == "group" {
		h.RemoveGroupClient(chatID, conn)
		return
	}
	h.RemoveDirectClient(chatID, conn)
}

func (h *Hub) publishWSError(kind string, chatID int, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(kind, chatID, conn)
	if !ok {
		return
	}

	_ = observability.PublishEvent(context.Background(), wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   wsEventPayload(kind, chatID, "ws_error", info, time.Since(info.ConnectedAt), err.Error()),
	})
	observability.IncWSEvent(kind, "ws_error")
}

func (h *Hub) getConnInfo(kind string, chatID int, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var infos map[*websocket.Conn]ConnInfo
	if kind == "group" {
		infos = h.groupConnInfo[chatID]
	} else {
		infos = h.directConnInfo[chatID]
	}
	info, ok := infos[conn]
	return info, ok
}

func wsRoutingKey(kind string) string {
	if kind == "group" {
		return "ws_events.group_chats"
	}
	return "ws_events.direct_chats"
}

func wsEventPayload(kind string, chatID int, event string, info ConnInfo, elapsed time.Duration, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        kind,
			"chat_id":     chatID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": elapsed.Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":    info.UserID,
			"device_id":  info.DeviceID,
			"ip":         info.IP,
			"request_id": info.RequestID,
			"trace_id":   info.TraceID,
		},
	}
}
