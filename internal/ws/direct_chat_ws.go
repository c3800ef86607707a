package ws

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"collective-chat-service/internal/auth"
	"collective-chat-service/internal/observability"
	"collective-chat-service/internal/repositories"
)

// DirectChatWebSocketHandler handles direct chat websocket connections.
type DirectChatWebSocketHandler struct {
	hub      *Hub
	chatRepo repositories.DirectChatRepository
	verifier *auth.TokenVerifier
}

// NewDirectChatWebSocketHandler constructs a DirectChatWebSocketHandler.
func NewDirectChatWebSocketHandler(hub *Hub, chatRepo repositories.DirectChatRepository, verifier *auth.TokenVerifier) *DirectChatWebSocketHandler {
	return &DirectChatWebSocketHandler{hub: hub, chatRepo: chatRepo, verifier: verifier}
}

// Handle upgrades the connection and registers the client in the chat room.
func (h *DirectChatWebSocketHandler) Handle(c *gin.Context) {
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

	participant, err := h.chatRepo.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil || !participant {
		c.JSON(http.StatusForbidden, gin.H{"message": "not a chat participant"})
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
	h.hub.AddDirectClient(chatID, conn, info)
	runReadLoop(h.hub, "direct", chatID, conn, info)
}
