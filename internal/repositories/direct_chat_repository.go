package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"collective-chat-service/internal/models"
)

var ErrDirectChatNotFound = errors.New("direct chat not found")

// DirectChatRepository abstracts 1:1 chat persistence.
type DirectChatRepository interface {
	CreateOrGetChat(ctx context.Context, userID int, recipientID int) (models.DirectChat, error)
	GetChat(ctx context.Context, chatID int) (models.DirectChat, error)
	IsParticipant(ctx context.Context, chatID int, userID int) (bool, error)
	ListChats(ctx context.Context, userID int) ([]models.DirectChatSummary, error)
	HideChatForUser(ctx context.Context, chatID int, userID int) error
	UnhideChatForUser(ctx context.Context, chatID int, userID int) error
}

// DirectChatRepo is a sqlx implementation of DirectChatRepository.
type DirectChatRepo struct {
	db *sqlx.DB
}

// NewDirectChatRepo constructs a DirectChatRepo.
func NewDirectChatRepo(db *sqlx.DB) *DirectChatRepo {
	return &DirectChatRepo{db: db}
}

// CreateOrGetChat returns the existing chat between the two users or creates
// one. Participants are stored in ascending id order so the pair is unique.
func (r *DirectChatRepo) CreateOrGetChat(ctx context.Context, userID int, recipientID int) (models.DirectChat, error) {
	if userID == recipientID {
		return models.DirectChat{}, errors.New("cannot create chat with self")
	}
	participants := []int{userID, recipientID}
	sort.Ints(participants)
	user1, user2 := participants[0], participants[1]

	var chat models.DirectChat
	err := r.db.GetContext(ctx, &chat,
		`SELECT id, user1_id, user2_id, created_at FROM direct_chats WHERE user1_id=$1 AND user2_id=$2`,
		user1, user2)
	if errors.Is(err, sql.ErrNoRows) {
		err = r.db.QueryRowxContext(ctx,
			`INSERT INTO direct_chats (user1_id, user2_id) VALUES ($1, $2)
             ON CONFLICT (user1_id, user2_id) DO UPDATE SET user1_id = EXCLUDED.user1_id
             RETURNING id, user1_id, user2_id, created_at`, user1, user2).
			StructScan(&chat)
	}
	if err != nil {
		return models.DirectChat{}, err
	}

	if err := r.UnhideChatForUser(ctx, chat.ID, userID); err != nil {
		return models.DirectChat{}, err
	}
	if err := r.UnhideChatForUser(ctx, chat.ID, recipientID); err != nil {
		return models.DirectChat{}, err
	}
	return chat, nil
}

// GetChat fetches a direct chat by id.
func (r *DirectChatRepo) GetChat(ctx context.Context, chatID int) (models.DirectChat, error) {
	var chat models.DirectChat
	err := r.db.GetContext(ctx, &chat,
		`SELECT id, user1_id, user2_id, created_at FROM direct_chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DirectChat{}, ErrDirectChatNotFound
	}
	return chat, err
}

// IsParticipant checks whether a user belongs to the chat.
func (r *DirectChatRepo) IsParticipant(ctx context.Context, chatID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM direct_chats WHERE id=$1 AND (user1_id=$2 OR user2_id=$2))`,
		chatID, userID)
	return exists, err
}

// ListChats returns direct chats visible to the user.
func (r *DirectChatRepo) ListChats(ctx context.Context, userID int) ([]models.DirectChatSummary, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT c.id, c.user1_id, c.user2_id, c.created_at FROM direct_chats c
         LEFT JOIN direct_chat_visibility v ON v.chat_id = c.id AND v.user_id=$1
         WHERE (c.user1_id=$1 OR c.user2_id=$1) AND (v.hidden IS NULL OR v.hidden = FALSE)
         ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.DirectChatSummary{}
	for rows.Next() {
		var chat models.DirectChat
		if err := rows.StructScan(&chat); err != nil {
			return nil, err
		}
		recipientID := chat.User1ID
		if recipientID == userID {
			recipientID = chat.User2ID
		}
		result = append(result, models.DirectChatSummary{
			ChatID:      chat.ID,
			RecipientID: recipientID,
			CreatedAt:   chat.CreatedAt,
		})
	}
	return result, rows.Err()
}

// HideChatForUser marks a chat hidden for the user.
func (r *DirectChatRepo) HideChatForUser(ctx context.Context, chatID int, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO direct_chat_visibility (chat_id, user_id, hidden) VALUES ($1, $2, TRUE)
         ON CONFLICT (chat_id, user_id) DO UPDATE SET hidden = TRUE`, chatID, userID)
	return err
}

// UnhideChatForUser removes the hidden flag for the user.
func (r *DirectChatRepo) UnhideChatForUser(ctx context.Context, chatID int, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO direct_chat_visibility (chat_id, user_id, hidden) VALUES ($1, $2, FALSE)
         ON CONFLICT (chat_id, user_id) DO UPDATE SET hidden = FALSE`, chatID, userID)
	return err
}
