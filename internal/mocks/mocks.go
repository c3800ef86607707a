package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"collective-chat-service/internal/models"
	"collective-chat-service/internal/queue"
	"collective-chat-service/internal/repositories"
)

type QueueServiceMock struct {
	mock.Mock
}

func (m *QueueServiceMock) Create(ctx context.Context, params queue.CreateParams) (models.GroupChatQueue, error) {
	args := m.Called(ctx, params)
	var q models.GroupChatQueue
	if val := args.Get(0); val != nil {
		q = val.(models.GroupChatQueue)
	}
	return q, args.Error(1)
}

func (m *QueueServiceMock) Join(ctx context.Context, queueID int, userID int) (queue.JoinResult, error) {
	args := m.Called(ctx, queueID, userID)
	var result queue.JoinResult
	if val := args.Get(0); val != nil {
		result = val.(queue.JoinResult)
	}
	return result, args.Error(1)
}

func (m *QueueServiceMock) Leave(ctx context.Context, queueID int, userID int) (models.GroupChatQueue, error) {
	args := m.Called(ctx, queueID, userID)
	var q models.GroupChatQueue
	if val := args.Get(0); val != nil {
		q = val.(models.GroupChatQueue)
	}
	return q, args.Error(1)
}

func (m *QueueServiceMock) Cancel(ctx context.Context, queueID int, requesterID int) error {
	args := m.Called(ctx, queueID, requesterID)
	return args.Error(0)
}

func (m *QueueServiceMock) ListQueues(ctx context.Context) ([]models.GroupChatQueue, error) {
	args := m.Called(ctx)
	var queues []models.GroupChatQueue
	if val := args.Get(0); val != nil {
		queues = val.([]models.GroupChatQueue)
	}
	return queues, args.Error(1)
}

type GroupChatRepositoryMock struct {
	mock.Mock
}

func (m *GroupChatRepositoryMock) CreateFromQueue(ctx context.Context, queueID int) (models.GroupChat, error) {
	args := m.Called(ctx, queueID)
	var chat models.GroupChat
	if val := args.Get(0); val != nil {
		chat = val.(models.GroupChat)
	}
	return chat, args.Error(1)
}

func (m *GroupChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.GroupChat, error) {
	args := m.Called(ctx, chatID)
	var chat models.GroupChat
	if val := args.Get(0); val != nil {
		chat = val.(models.GroupChat)
	}
	return chat, args.Error(1)
}

func (m *GroupChatRepositoryMock) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupChatRepositoryMock) ListActiveChats(ctx context.Context) ([]models.GroupChat, error) {
	args := m.Called(ctx)
	var chats []models.GroupChat
	if val := args.Get(0); val != nil {
		chats = val.([]models.GroupChat)
	}
	return chats, args.Error(1)
}

type GroupMessageRepositoryMock struct {
	mock.Mock
}

func (m *GroupMessageRepositoryMock) CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.GroupChatMessage, error) {
	args := m.Called(ctx, chatID, senderID, content)
	var msg models.GroupChatMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.GroupChatMessage)
	}
	return msg, args.Error(1)
}

func (m *GroupMessageRepositoryMock) ListMessages(ctx context.Context, chatID int) ([]models.GroupChatMessage, error) {
	args := m.Called(ctx, chatID)
	var msgs []models.GroupChatMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.GroupChatMessage)
	}
	return msgs, args.Error(1)
}

type DirectChatRepositoryMock struct {
	mock.Mock
}

func (m *DirectChatRepositoryMock) CreateOrGetChat(ctx context.Context, userID int, recipientID int) (models.DirectChat, error) {
	args := m.Called(ctx, userID, recipientID)
	var chat models.DirectChat
	if val := args.Get(0); val != nil {
		chat = val.(models.DirectChat)
	}
	return chat, args.Error(1)
}

func (m *DirectChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.DirectChat, error) {
	args := m.Called(ctx, chatID)
	var chat models.DirectChat
	if val := args.Get(0); val != nil {
		chat = val.(models.DirectChat)
	}
	return chat, args.Error(1)
}

func (m *DirectChatRepositoryMock) IsParticipant(ctx context.Context, chatID int, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *DirectChatRepositoryMock) ListChats(ctx context.Context, userID int) ([]models.DirectChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.DirectChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.DirectChatSummary)
	}
	return list, args.Error(1)
}

func (m *DirectChatRepositoryMock) HideChatForUser(ctx context.Context, chatID int, userID int) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *DirectChatRepositoryMock) UnhideChatForUser(ctx context.Context, chatID int, userID int) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

type DirectMessageRepositoryMock struct {
	mock.Mock
}

func (m *DirectMessageRepositoryMock) CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.DirectMessage, error) {
	args := m.Called(ctx, chatID, senderID, content)
	var msg models.DirectMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.DirectMessage)
	}
	return msg, args.Error(1)
}

func (m *DirectMessageRepositoryMock) ListMessages(ctx context.Context, chatID int) ([]models.DirectMessage, error) {
	args := m.Called(ctx, chatID)
	var msgs []models.DirectMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.DirectMessage)
	}
	return msgs, args.Error(1)
}

var _ queue.LifecycleService = (*QueueServiceMock)(nil)
var _ repositories.GroupChatRepository = (*GroupChatRepositoryMock)(nil)
var _ repositories.GroupMessageRepository = (*GroupMessageRepositoryMock)(nil)
var _ repositories.DirectChatRepository = (*DirectChatRepositoryMock)(nil)
var _ repositories.DirectMessageRepository = (*DirectMessageRepositoryMock)(nil)
