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
	"collective-chat-service/internal/repositories"
)

func setupDirectChatRouter(chatRepo *mocks.DirectChatRepositoryMock, messageRepo *mocks.DirectMessageRepositoryMock, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	handler := NewDirectChatHandler(chatRepo, messageRepo, nil, nil)
	router.POST("/api/direct-chats", handler.StartChat)
	router.GET("/api/direct-chats", handler.ListChats)
	router.GET("/api/direct-chats/:chat_id/messages", handler.GetMessages)
	router.POST("/api/direct-chats/:chat_id/messages", handler.PostMessage)
	router.DELETE("/api/direct-chats/:chat_id/me", handler.HideChat)
	return router
}

func TestStartChatSuccess(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("CreateOrGetChat", mock.Anything, 1, 2).Return(models.DirectChat{
		ID: 4, User1ID: 1, User2ID: 2,
	}, nil)

	router := setupDirectChatRouter(chatRepo, messageRepo, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/direct-chats", bytes.NewBufferString(`{"recipientId":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var chat models.DirectChat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))
	assert.Equal(t, 4, chat.ID)
	chatRepo.AssertExpectations(t)
}

func TestStartChatWithSelfRejected(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)

	router := setupDirectChatRouter(chatRepo, messageRepo, 2)
	req := httptest.NewRequest(http.MethodPost, "/api/direct-chats", bytes.NewBufferString(`{"recipientId":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	chatRepo.AssertNotCalled(t, "CreateOrGetChat", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartChatMissingRecipient(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)

	router := setupDirectChatRouter(chatRepo, messageRepo, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/direct-chats", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDirectChats(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("ListChats", mock.Anything, 1).Return([]models.DirectChatSummary{
		{ChatID: 4, RecipientID: 2},
	}, nil)

	router := setupDirectChatRouter(chatRepo, messageRepo, 1)
	req := httptest.NewRequest(http.MethodGet, "/api/direct-chats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var list []models.DirectChatSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].RecipientID)
}

func TestGetDirectMessagesForbidden(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("IsParticipant", mock.Anything, 4, 9).Return(false, nil)

	router := setupDirectChatRouter(chatRepo, messageRepo, 9)
	req := httptest.NewRequest(http.MethodGet, "/api/direct-chats/4/messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	messageRepo.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything)
}

func TestPostDirectMessageUnhidesBothSides(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("GetChat", mock.Anything, 4).Return(models.DirectChat{ID: 4, User1ID: 1, User2ID: 2}, nil)
	messageRepo.On("CreateMessage", mock.Anything, 4, 1, "Hi").Return(models.DirectMessage{
		ID: 30, ChatID: 4, SenderID: 1, Content: "Hi",
	}, nil)
	chatRepo.On("UnhideChatForUser", mock.Anything, 4, 1).Return(nil)
	chatRepo.On("UnhideChatForUser", mock.Anything, 4, 2).Return(nil)

	router := setupDirectChatRouter(chatRepo, messageRepo, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/direct-chats/4/messages", bytes.NewBufferString(`{"content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestPostDirectMessageNotParticipant(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("GetChat", mock.Anything, 4).Return(models.DirectChat{ID: 4, User1ID: 1, User2ID: 2}, nil)

	router := setupDirectChatRouter(chatRepo, messageRepo, 9)
	req := httptest.NewRequest(http.MethodPost, "/api/direct-chats/4/messages", bytes.NewBufferString(`{"content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	messageRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostDirectMessageChatNotFound(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("GetChat", mock.Anything, 404).Return(models.DirectChat{}, repositories.ErrDirectChatNotFound)

	router := setupDirectChatRouter(chatRepo, messageRepo, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/direct-chats/404/messages", bytes.NewBufferString(`{"content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHideChatSuccess(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("GetChat", mock.Anything, 4).Return(models.DirectChat{ID: 4, User1ID: 1, User2ID: 2}, nil)
	chatRepo.On("HideChatForUser", mock.Anything, 4, 1).Return(nil)

	router := setupDirectChatRouter(chatRepo, messageRepo, 1)
	req := httptest.NewRequest(http.MethodDelete, "/api/direct-chats/4/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	chatRepo.AssertExpectations(t)
}

func TestHideChatNotParticipant(t *testing.T) {
	chatRepo := new(mocks.DirectChatRepositoryMock)
	messageRepo := new(mocks.DirectMessageRepositoryMock)
	chatRepo.On("GetChat", mock.Anything, 4).Return(models.DirectChat{ID: 4, User1ID: 1, User2ID: 2}, nil)

	router := setupDirectChatRouter(chatRepo, messageRepo, 9)
	req := httptest.NewRequest(http.MethodDelete, "/api/direct-chats/4/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	chatRepo.AssertNotCalled(t, "HideChatForUser", mock.Anything, mock.Anything, mock.Anything)
}
