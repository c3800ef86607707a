package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collective-chat-service/internal/mocks"
	"collective-chat-service/internal/models"
	"collective-chat-service/internal/queue"
	"collective-chat-service/internal/repositories"
)

func setupQueueRouter(service queue.LifecycleService, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	handler := NewQueueHandler(service, nil)
	router.POST("/api/group-chat-queues", handler.CreateQueue)
	router.GET("/api/group-chat-queues", handler.ListQueues)
	router.POST("/api/group-chat-queues/:queue_id/join", handler.JoinQueue)
	router.POST("/api/group-chat-queues/:queue_id/leave", handler.LeaveQueue)
	router.DELETE("/api/group-chat-queues/:queue_id", handler.CancelQueue)
	return router
}

func errorMessage(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &payload))
	return payload.Message
}

func TestCreateQueueSuccess(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Create", mock.Anything, queue.CreateParams{
		CreatorID: 1,
		Title:     "Evening Prayer",
		Intention: models.IntentionPrayer,
		MinPeople: 2,
		MaxPeople: 4,
	}).Return(models.GroupChatQueue{
		ID:           10,
		Title:        "Evening Prayer",
		Intention:    models.IntentionPrayer,
		MinPeople:    2,
		MaxPeople:    4,
		CreatorID:    1,
		Members:      []models.QueueMember{{QueueID: 10, UserID: 1}},
		CurrentCount: 1,
	}, nil)

	router := setupQueueRouter(service, 1)
	body := `{"title":"Evening Prayer","intention":"prayer","minPeople":2,"maxPeople":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.GroupChatQueue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 10, created.ID)
	assert.Equal(t, 1, created.CurrentCount)
	service.AssertExpectations(t)
}

func TestCreateQueueMissingFields(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	router := setupQueueRouter(service, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues", bytes.NewBufferString(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateQueueValidationError(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Create", mock.Anything, mock.Anything).
		Return(models.GroupChatQueue{}, &queue.ValidationError{Message: "minPeople must be at least 2"})

	router := setupQueueRouter(service, 1)
	body := `{"title":"Prayer","intention":"prayer","minPeople":1,"maxPeople":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "minPeople must be at least 2", errorMessage(t, w.Body))
}

func TestListQueuesSuccess(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("ListQueues", mock.Anything).Return([]models.GroupChatQueue{
		{ID: 1, Title: "Prayer", Intention: models.IntentionPrayer, CurrentCount: 2},
		{ID: 2, Title: "Study", Intention: models.IntentionBibleStudy, CurrentCount: 1},
	}, nil)

	router := setupQueueRouter(service, 1)
	req := httptest.NewRequest(http.MethodGet, "/api/group-chat-queues", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var list []models.GroupChatQueue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestListQueuesEmpty(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("ListQueues", mock.Anything).Return([]models.GroupChatQueue{}, nil)

	router := setupQueueRouter(service, 1)
	req := httptest.NewRequest(http.MethodGet, "/api/group-chat-queues", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestJoinQueueSuccess(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Join", mock.Anything, 5, 2).Return(queue.JoinResult{
		Queue: models.GroupChatQueue{ID: 5, Title: "Study", MinPeople: 3, MaxPeople: 6, CurrentCount: 2},
	}, nil)

	router := setupQueueRouter(service, 2)
	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues/5/join", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID           int  `json:"id"`
		CurrentCount int  `json:"currentCount"`
		Promoted     bool `json:"promoted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.ID)
	assert.Equal(t, 2, resp.CurrentCount)
	assert.False(t, resp.Promoted)
	assert.NotContains(t, w.Body.String(), `"chat"`)
}

func TestJoinQueuePromoted(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Join", mock.Anything, 5, 2).Return(queue.JoinResult{
		Queue:    models.GroupChatQueue{ID: 5, Title: "Evening Prayer", MinPeople: 2, MaxPeople: 4, CurrentCount: 2},
		Promoted: true,
		Chat: &models.GroupChat{
			ID:          9,
			Title:       "Evening Prayer",
			Intention:   models.IntentionPrayer,
			Members:     []int{1, 2},
			MemberCount: 2,
		},
	}, nil)

	router := setupQueueRouter(service, 2)
	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues/5/join", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Promoted bool              `json:"promoted"`
		Chat     *models.GroupChat `json:"chat"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Promoted)
	require.NotNil(t, resp.Chat)
	assert.Equal(t, 9, resp.Chat.ID)
	assert.Equal(t, []int{1, 2}, resp.Chat.Members)
}

func TestJoinQueueFull(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Join", mock.Anything, 5, 9).Return(queue.JoinResult{}, queue.ErrQueueFull)

	router := setupQueueRouter(service, 9)
	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues/5/join", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "queue is full", errorMessage(t, w.Body))
}

func TestJoinQueueNotFound(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Join", mock.Anything, 404, 1).Return(queue.JoinResult{}, repositories.ErrQueueNotFound)

	router := setupQueueRouter(service, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues/404/join", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "queue not found", errorMessage(t, w.Body))
}

func TestJoinQueueInvalidID(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	router := setupQueueRouter(service, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues/abc/join", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Join", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaveQueueSuccess(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Leave", mock.Anything, 5, 2).Return(models.GroupChatQueue{
		ID: 5, Title: "Study", CurrentCount: 1,
	}, nil)

	router := setupQueueRouter(service, 2)
	req := httptest.NewRequest(http.MethodPost, "/api/group-chat-queues/5/leave", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var q models.GroupChatQueue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, 1, q.CurrentCount)
}

func TestCancelQueueSuccess(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Cancel", mock.Anything, 5, 1).Return(nil)

	router := setupQueueRouter(service, 1)
	req := httptest.NewRequest(http.MethodDelete, "/api/group-chat-queues/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	service.AssertExpectations(t)
}

func TestCancelQueueNotCreator(t *testing.T) {
	service := new(mocks.QueueServiceMock)
	service.On("Cancel", mock.Anything, 5, 2).Return(queue.ErrNotCreator)

	router := setupQueueRouter(service, 2)
	req := httptest.NewRequest(http.MethodDelete, "/api/group-chat-queues/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "only the creator can cancel the queue", errorMessage(t, w.Body))
}
