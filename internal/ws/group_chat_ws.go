package ws

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"collective-chat-service/internal/auth"
	"collective-chat-service/internal/observability"
	"collective-chat-service/internal/repositories"
)

// GroupChatWebSocketHandler handles group chat websocket connections.
type GroupChatWebSocketHandler struct {
	hub      *Hub
	chatRepo repositories.GroupChatRepository
	verifier *auth.TokenVerifier
}

// NewGroupChatWebSocketHandler constructs a GroupChatWebSocketHandler.
func NewGroupChatWebSocketHandler(hub *Hub, chatRepo repositories.GroupChatRepository, verifier *auth.TokenVerifier) *GroupChatWebSocketHandler {
	return &GroupChatWebSocketHandler{hub: hub, chatRepo: chatRepo, verifier: verifier}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client in the chat room.
func (h *GroupChatWebSocketHandler) Handle(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid chat id"})
		return
	}

	ctx, span := otel.Tracer("collective-chat-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := verifyWSToken(c, h.verifier)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	member, err := h.chatRepo.IsMember(c.Request.Context(), chatID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"message": "not a chat member"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddGroupClient(chatID, conn, info)
	runReadLoop(h.hub, "group", chatID, conn, info)
}

// verifyWSToken accepts the token either as an Authorization header or as a
// ?token= query parameter, since browser websocket clients cannot set
// headers.
func verifyWSToken(c *gin.Context, verifier *auth.TokenVerifier) (int, error) {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return 0, errors.New("invalid authorization header")
		}
		return verifier.Verify(parts[1])
	}

	token := c.Query("token")
	if token == "" {
		return 0, errors.New("missing token")
	}
	return verifier.Verify(token)
}

// runReadLoop keeps the connection registered until the peer goes away,
// emitting connect/disconnect/error events along the way.
func runReadLoop(hub *Hub, kind string, chatID int, conn *websocket.Conn, info ConnInfo) {
	routingKey := wsRoutingKey(kind)
	ctx := context.Background()

	observability.IncWSActive(kind)
	observability.IncWSEvent(kind, "ws_connect")
	_ = observability.PublishEvent(ctx, routingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(kind, chatID, "ws_connect", info, 0, ""),
	})

	go func() {
		var closeReason string
		defer func() {
			hub.removeClient(kind, chatID, conn)
			observability.DecWSActive(kind)
			observability.IncWSEvent(kind, "ws_disconnect")
			_ = observability.PublishEvent(ctx, routingKey, observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   wsEventPayload(kind, chatID, "ws_disconnect", info, time.Since(info.ConnectedAt), closeReason),
			})
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent(kind, "ws_error")
					_ = observability.PublishEvent(ctx, routingKey, observability.EventEnvelope{
						EventType: "ws_events",
						EventName: "ws_error",
						Payload:   wsEventPayload(kind, chatID, "ws_error", info, time.Since(info.ConnectedAt), closeReason),
					})
				}
				return
			}
		}
	}()
}
