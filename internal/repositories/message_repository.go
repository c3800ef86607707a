package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"collective-chat-service/internal/models"
)

// GroupMessageRepository defines interactions for group chat messages.
type GroupMessageRepository interface {
	CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.GroupChatMessage, error)
	ListMessages(ctx context.Context, chatID int) ([]models.GroupChatMessage, error)
}

// GroupMessageRepo is a sqlx-backed implementation.
type GroupMessageRepo struct {
	db *sqlx.DB
}

// NewGroupMessageRepo constructs a GroupMessageRepo.
func NewGroupMessageRepo(db *sqlx.DB) *GroupMessageRepo {
	return &GroupMessageRepo{db: db}
}

// CreateMessage persists a group chat message.
func (r *GroupMessageRepo) CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.GroupChatMessage, error) {
	var msg models.GroupChatMessage
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO group_chat_messages (chat_id, sender_id, content) VALUES ($1, $2, $3)
         RETURNING id, chat_id, sender_id, content, created_at`, chatID, senderID, content).
		StructScan(&msg)
	return msg, err
}

// ListMessages returns messages in the chat ordered by creation.
func (r *GroupMessageRepo) ListMessages(ctx context.Context, chatID int) ([]models.GroupChatMessage, error) {
	msgs := []models.GroupChatMessage{}
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, content, created_at FROM group_chat_messages
         WHERE chat_id=$1 ORDER BY created_at ASC, id ASC`, chatID)
	return msgs, err
}

// DirectMessageRepository defines interactions for direct chat messages.
type DirectMessageRepository interface {
	CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.DirectMessage, error)
	ListMessages(ctx context.Context, chatID int) ([]models.DirectMessage, error)
}

// DirectMessageRepo is a sqlx-backed implementation.
type DirectMessageRepo struct {
	db *sqlx.DB
}

// NewDirectMessageRepo constructs a DirectMessageRepo.
func NewDirectMessageRepo(db *sqlx.DB) *DirectMessageRepo {
	return &DirectMessageRepo{db: db}
}

// CreateMessage persists a direct chat message.
func (r *DirectMessageRepo) CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.DirectMessage, error) {
	var msg models.DirectMessage
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO direct_chat_messages (chat_id, sender_id, content) VALUES ($1, $2, $3)
         RETURNING id, chat_id, sender_id, content, created_at`, chatID, senderID, content).
		StructScan(&msg)
	return msg, err
}

// ListMessages returns messages in the chat ordered by creation.
func (r *DirectMessageRepo) ListMessages(ctx context.Context, chatID int) ([]models.DirectMessage, error) {
	msgs := []models.DirectMessage{}
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, content, created_at FROM direct_chat_messages
         WHERE chat_id=$1 ORDER BY created_at ASC, id ASC`, chatID)
	return msgs, err
}
