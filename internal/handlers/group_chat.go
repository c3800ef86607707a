package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"collective-chat-service/internal/repositories"
	"collective-chat-service/internal/telemetry"
	"collective-chat-service/internal/ws"
)

// GroupChatHandler manages group chat endpoints. Chats are created only by
// queue promotion; this handler reads them and relays messages.
type GroupChatHandler struct {
	chatRepo    repositories.GroupChatRepository
	messageRepo repositories.GroupMessageRepository
	hub         *ws.Hub
	audit       *telemetry.AuditEmitter
}

// NewGroupChatHandler constructs a GroupChatHandler.
func NewGroupChatHandler(chatRepo repositories.GroupChatRepository, messageRepo repositories.GroupMessageRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *GroupChatHandler {
	return &GroupChatHandler{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		hub:         hub,
		audit:       audit,
	}
}

// ListActiveChats handles GET /api/group-chats/active, the 10-second polling
// endpoint.
func (h *GroupChatHandler) ListActiveChats(c *gin.Context) {
	chats, err := h.chatRepo.ListActiveChats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load chats"})
		return
	}
	c.JSON(http.StatusOK, chats)
}

// GetMessages returns messages in the chat for members.
func (h *GroupChatHandler) GetMessages(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	member, err := h.chatRepo.IsMember(c.Request.Context(), chatID, userID)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "membership check failed"})
		return
	}
	if !member {
		h.emitAudit(c, "ERROR", "not allowed")
		c.JSON(http.StatusForbidden, gin.H{"message": "not a chat member"})
		return
	}

	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// PostMessage persists and broadcasts a group chat message.
func (h *GroupChatHandler) PostMessage(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	member, err := h.chatRepo.IsMember(c.Request.Context(), chatID, userID)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "membership check failed"})
		return
	}
	if !member {
		h.emitAudit(c, "ERROR", "not allowed")
		c.JSON(http.StatusForbidden, gin.H{"message": "not a chat member"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), chatID, userID, req.Content)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store message"})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastGroupMessage(chatID, msg)
	}
	h.emitAudit(c, "INFO", "Group chat message sent")
	c.JSON(http.StatusCreated, msg)
}

func (h *GroupChatHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

func parseChatID(c *gin.Context) (int, bool) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid chat id"})
		return 0, false
	}
	return chatID, true
}
