package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"collective-chat-service/internal/models"
	"collective-chat-service/internal/observability"
	"collective-chat-service/internal/queue"
	"collective-chat-service/internal/telemetry"
)

// QueueHandler manages group chat queue endpoints.
type QueueHandler struct {
	service queue.LifecycleService
	audit   *telemetry.AuditEmitter
}

// NewQueueHandler constructs a QueueHandler.
func NewQueueHandler(service queue.LifecycleService, audit *telemetry.AuditEmitter) *QueueHandler {
	return &QueueHandler{service: service, audit: audit}
}

// CreateQueue handles POST /api/group-chat-queues.
func (h *QueueHandler) CreateQueue(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Title       string           `json:"title" binding:"required"`
		Description string           `json:"description"`
		Intention   models.Intention `json:"intention" binding:"required"`
		MinPeople   int              `json:"minPeople" binding:"required"`
		MaxPeople   int              `json:"maxPeople" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), queue.CreateParams{
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Intention:   req.Intention,
		MinPeople:   req.MinPeople,
		MaxPeople:   req.MaxPeople,
	})
	if err != nil {
		h.emitAudit(c, "ERROR", "queue creation rejected")
		respondError(c, err)
		return
	}

	observability.IncQueueCreated()
	h.emitAudit(c, "INFO", "Queue created")
	c.JSON(http.StatusCreated, created)
}

// ListQueues handles GET /api/group-chat-queues, the 5-second polling
// endpoint.
func (h *QueueHandler) ListQueues(c *gin.Context) {
	queues, err := h.service.ListQueues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load queues"})
		return
	}
	c.JSON(http.StatusOK, queues)
}

// joinResponse is the queue snapshot returned from a join, extended with the
// promotion outcome so the caller sees the chat without waiting for the next
// poll.
type joinResponse struct {
	models.GroupChatQueue
	Promoted bool              `json:"promoted"`
	Chat     *models.GroupChat `json:"chat,omitempty"`
}

// JoinQueue handles POST /api/group-chat-queues/:queue_id/join.
func (h *QueueHandler) JoinQueue(c *gin.Context) {
	queueID, ok := parseQueueID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	result, err := h.service.Join(c.Request.Context(), queueID, userID)
	if err != nil {
		h.emitAudit(c, "ERROR", "queue join rejected")
		observability.IncQueueJoin("rejected")
		respondError(c, err)
		return
	}

	observability.IncQueueJoin("joined")
	if result.Promoted {
		observability.IncQueuePromoted()
		h.emitAudit(c, "INFO", "Queue promoted to group chat")
	} else {
		h.emitAudit(c, "INFO", "Queue joined")
	}
	c.JSON(http.StatusOK, joinResponse{
		GroupChatQueue: result.Queue,
		Promoted:       result.Promoted,
		Chat:           result.Chat,
	})
}

// LeaveQueue handles POST /api/group-chat-queues/:queue_id/leave.
func (h *QueueHandler) LeaveQueue(c *gin.Context) {
	queueID, ok := parseQueueID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	updated, err := h.service.Leave(c.Request.Context(), queueID, userID)
	if err != nil {
		h.emitAudit(c, "ERROR", "queue leave rejected")
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Queue left")
	c.JSON(http.StatusOK, updated)
}

// CancelQueue handles DELETE /api/group-chat-queues/:queue_id.
func (h *QueueHandler) CancelQueue(c *gin.Context) {
	queueID, ok := parseQueueID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	if err := h.service.Cancel(c.Request.Context(), queueID, userID); err != nil {
		h.emitAudit(c, "ERROR", "queue cancel rejected")
		respondError(c, err)
		return
	}

	observability.IncQueueCancelled()
	h.emitAudit(c, "INFO", "Queue cancelled")
	c.Status(http.StatusNoContent)
}

func (h *QueueHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

func parseQueueID(c *gin.Context) (int, bool) {
	queueID, err := strconv.Atoi(c.Param("queue_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid queue id"})
		return 0, false
	}
	return queueID, true
}
