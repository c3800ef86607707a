package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collective-chat-service/internal/queue"
	"collective-chat-service/internal/repositories"
)

// respondError maps domain errors onto HTTP statuses. Clients consume the
// body as {"message": string} and surface it verbatim.
func respondError(c *gin.Context, err error) {
	var validationErr *queue.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.Is(err, repositories.ErrQueueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "queue not found"})
	case errors.Is(err, repositories.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "chat not found"})
	case errors.Is(err, repositories.ErrDirectChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "chat not found"})
	case errors.Is(err, queue.ErrQueueFull):
		c.JSON(http.StatusConflict, gin.H{"message": "queue is full"})
	case errors.Is(err, queue.ErrNotCreator):
		c.JSON(http.StatusForbidden, gin.H{"message": "only the creator can cancel the queue"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
