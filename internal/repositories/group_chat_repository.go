package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collective-chat-service/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

// GroupChatRepository abstracts group chat persistence. Chats come into
// existence only through CreateFromQueue.
type GroupChatRepository interface {
	CreateFromQueue(ctx context.Context, queueID int) (models.GroupChat, error)
	GetChat(ctx context.Context, chatID int) (models.GroupChat, error)
	IsMember(ctx context.Context, chatID int, userID int) (bool, error)
	ListActiveChats(ctx context.Context) ([]models.GroupChat, error)
}

// GroupChatRepo is a sqlx implementation of GroupChatRepository.
type GroupChatRepo struct {
	db *sqlx.DB
}

// NewGroupChatRepo constructs a GroupChatRepo.
func NewGroupChatRepo(db *sqlx.DB) *GroupChatRepo {
	return &GroupChatRepo{db: db}
}

// CreateFromQueue promotes a queue into a group chat in one transaction:
// the chat is inserted with the queue's title, intention and member set,
// and the queue row is deleted. The DELETE doubles as the exactly-once
// guard: a racing second promotion finds no row and gets ErrQueueNotFound,
// so at most one chat is ever created from a queue.
func (r *GroupChatRepo) CreateFromQueue(ctx context.Context, queueID int) (models.GroupChat, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.GroupChat{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var memberIDs []int
	if err = tx.SelectContext(ctx, &memberIDs,
		`SELECT user_id FROM group_chat_queue_members WHERE queue_id=$1
         ORDER BY joined_at ASC, user_id ASC FOR UPDATE`, queueID); err != nil {
		return models.GroupChat{}, err
	}

	var queue struct {
		Title     string           `db:"title"`
		Intention models.Intention `db:"intention"`
	}
	err = tx.QueryRowxContext(ctx,
		`DELETE FROM group_chat_queues WHERE id=$1 RETURNING title, intention`, queueID).
		StructScan(&queue)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrQueueNotFound
		return models.GroupChat{}, err
	}
	if err != nil {
		return models.GroupChat{}, err
	}

	var chat models.GroupChat
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO group_chats (title, intention) VALUES ($1, $2)
         RETURNING id, title, intention, created_at`,
		queue.Title, queue.Intention).
		StructScan(&chat); err != nil {
		return models.GroupChat{}, err
	}

	for _, userID := range memberIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO group_chat_members (chat_id, user_id) VALUES ($1, $2)`,
			chat.ID, userID); err != nil {
			return models.GroupChat{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.GroupChat{}, err
	}

	chat.Members = memberIDs
	chat.MemberCount = len(memberIDs)
	return chat, nil
}

// chatRow flattens a chat joined with one member row.
type chatRow struct {
	models.GroupChat
	MemberUserID sql.NullInt64 `db:"member_user_id"`
}

const chatSelect = `SELECT c.id, c.title, c.intention, c.created_at, m.user_id AS member_user_id
        FROM group_chats c
        LEFT JOIN group_chat_members m ON m.chat_id = c.id`

func collectChats(rows *sqlx.Rows) ([]models.GroupChat, error) {
	defer rows.Close()

	var chats []models.GroupChat
	index := map[int]int{}
	for rows.Next() {
		var row chatRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		pos, ok := index[row.ID]
		if !ok {
			pos = len(chats)
			index[row.ID] = pos
			chats = append(chats, row.GroupChat)
		}
		if row.MemberUserID.Valid {
			chats[pos].Members = append(chats[pos].Members, int(row.MemberUserID.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range chats {
		chats[i].MemberCount = len(chats[i].Members)
	}
	return chats, nil
}

// GetChat fetches a chat with its member set.
func (r *GroupChatRepo) GetChat(ctx context.Context, chatID int) (models.GroupChat, error) {
	rows, err := r.db.QueryxContext(ctx, chatSelect+` WHERE c.id=$1 ORDER BY m.user_id ASC`, chatID)
	if err != nil {
		return models.GroupChat{}, err
	}
	chats, err := collectChats(rows)
	if err != nil {
		return models.GroupChat{}, err
	}
	if len(chats) == 0 {
		return models.GroupChat{}, ErrChatNotFound
	}
	return chats[0], nil
}

// IsMember checks chat membership.
func (r *GroupChatRepo) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM group_chat_members WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// ListActiveChats returns all group chats, newest first.
func (r *GroupChatRepo) ListActiveChats(ctx context.Context) ([]models.GroupChat, error) {
	rows, err := r.db.QueryxContext(ctx,
		chatSelect+` ORDER BY c.created_at DESC, c.id DESC, m.user_id ASC`)
	if err != nil {
		return nil, err
	}
	chats, err := collectChats(rows)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []models.GroupChat{}
	}
	return chats, nil
}
