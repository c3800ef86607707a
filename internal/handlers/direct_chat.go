package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collective-chat-service/internal/repositories"
	"collective-chat-service/internal/telemetry"
	"collective-chat-service/internal/ws"
)

// DirectChatHandler manages 1:1 chat endpoints.
type DirectChatHandler struct {
	chatRepo    repositories.DirectChatRepository
	messageRepo repositories.DirectMessageRepository
	hub         *ws.Hub
	audit       *telemetry.AuditEmitter
}

// NewDirectChatHandler constructs a DirectChatHandler.
func NewDirectChatHandler(chatRepo repositories.DirectChatRepository, messageRepo repositories.DirectMessageRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *DirectChatHandler {
	return &DirectChatHandler{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		hub:         hub,
		audit:       audit,
	}
}

// StartChat handles POST /api/direct-chats: creates or returns the existing
// 1:1 chat with the recipient.
func (h *DirectChatHandler) StartChat(c *gin.Context) {
	var req struct {
		RecipientID int `json:"recipientId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.RecipientID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot chat with yourself"})
		return
	}

	chat, err := h.chatRepo.CreateOrGetChat(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create chat"})
		return
	}

	h.emitAudit(c, "INFO", "Direct chat started")
	c.JSON(http.StatusOK, chat)
}

// ListChats returns the direct chats visible to the caller.
func (h *DirectChatHandler) ListChats(c *gin.Context) {
	userID := c.GetInt("userID")
	chats, err := h.chatRepo.ListChats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load chats"})
		return
	}
	c.JSON(http.StatusOK, chats)
}

// GetMessages returns messages for a chat the caller participates in.
func (h *DirectChatHandler) GetMessages(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	participant, err := h.chatRepo.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to verify membership"})
		return
	}
	if !participant {
		c.JSON(http.StatusForbidden, gin.H{"message": "not a chat participant"})
		return
	}

	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// PostMessage stores a direct chat message and broadcasts it. Sending a
// message unhides the chat for both sides.
func (h *DirectChatHandler) PostMessage(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	chat, err := h.chatRepo.GetChat(c.Request.Context(), chatID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrDirectChatNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"message": "chat not found"})
		return
	}
	if chat.User1ID != userID && chat.User2ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "not a chat participant"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), chatID, userID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store message"})
		return
	}

	h.chatRepo.UnhideChatForUser(c.Request.Context(), chatID, chat.User1ID)
	h.chatRepo.UnhideChatForUser(c.Request.Context(), chatID, chat.User2ID)

	if h.hub != nil {
		h.hub.BroadcastDirectMessage(chatID, msg)
	}
	h.emitAudit(c, "INFO", "Direct chat message sent")
	c.JSON(http.StatusCreated, msg)
}

// HideChat handles DELETE /api/direct-chats/:chat_id/me: hides the chat for
// the caller only.
func (h *DirectChatHandler) HideChat(c *gin.Context) {
	chatID, ok := parseChatID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	chat, err := h.chatRepo.GetChat(c.Request.Context(), chatID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrDirectChatNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"message": "chat not found"})
		return
	}
	if chat.User1ID != userID && chat.User2ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "not a chat participant"})
		return
	}

	if err := h.chatRepo.HideChatForUser(c.Request.Context(), chatID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not hide chat"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DirectChatHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
