package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collective-chat-service/internal/models"
)

var ErrQueueNotFound = errors.New("queue not found")

// QueueRepository abstracts persistence of group chat queues and their
// member sets.
type QueueRepository interface {
	CreateQueue(ctx context.Context, input CreateQueueInput) (models.GroupChatQueue, error)
	GetQueue(ctx context.Context, queueID int) (models.GroupChatQueue, error)
	AddMember(ctx context.Context, queueID int, userID int) error
	RemoveMember(ctx context.Context, queueID int, userID int) error
	DeleteQueue(ctx context.Context, queueID int) error
	ListActiveQueues(ctx context.Context) ([]models.GroupChatQueue, error)
}

// CreateQueueInput carries the validated inputs for a new queue.
type CreateQueueInput struct {
	Title       string
	Description string
	Intention   models.Intention
	MinPeople   int
	MaxPeople   int
	CreatorID   int
}

// QueueRepo is a sqlx implementation of QueueRepository.
type QueueRepo struct {
	db *sqlx.DB
}

// NewQueueRepo constructs a QueueRepo.
func NewQueueRepo(db *sqlx.DB) *QueueRepo {
	return &QueueRepo{db: db}
}

// CreateQueue inserts the queue and its creator as first member atomically.
func (r *QueueRepo) CreateQueue(ctx context.Context, input CreateQueueInput) (models.GroupChatQueue, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.GroupChatQueue{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var queue models.GroupChatQueue
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO group_chat_queues (title, description, intention, min_people, max_people, creator_id)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, title, description, intention, min_people, max_people, creator_id, created_at`,
		input.Title, input.Description, input.Intention, input.MinPeople, input.MaxPeople, input.CreatorID).
		StructScan(&queue); err != nil {
		return models.GroupChatQueue{}, err
	}

	var member models.QueueMember
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO group_chat_queue_members (queue_id, user_id) VALUES ($1, $2)
         RETURNING queue_id, user_id, joined_at`,
		queue.ID, input.CreatorID).
		StructScan(&member); err != nil {
		return models.GroupChatQueue{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.GroupChatQueue{}, err
	}

	queue.Members = []models.QueueMember{member}
	queue.SyncCount()
	return queue, nil
}

// queueRow flattens a queue joined with one (possibly absent) member row.
// Loading queue and members in a single statement keeps the record
// consistent with its member set even while another request promotes or
// cancels the queue.
type queueRow struct {
	models.GroupChatQueue
	MemberUserID sql.NullInt64 `db:"member_user_id"`
	MemberJoined sql.NullTime  `db:"member_joined_at"`
}

const queueSelect = `SELECT q.id, q.title, q.description, q.intention, q.min_people, q.max_people,
        q.creator_id, q.created_at, m.user_id AS member_user_id, m.joined_at AS member_joined_at
        FROM group_chat_queues q
        LEFT JOIN group_chat_queue_members m ON m.queue_id = q.id`

func collectQueues(rows *sqlx.Rows) ([]models.GroupChatQueue, error) {
	defer rows.Close()

	var queues []models.GroupChatQueue
	index := map[int]int{}
	for rows.Next() {
		var row queueRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		pos, ok := index[row.ID]
		if !ok {
			pos = len(queues)
			index[row.ID] = pos
			queues = append(queues, row.GroupChatQueue)
		}
		if row.MemberUserID.Valid {
			queues[pos].Members = append(queues[pos].Members, models.QueueMember{
				QueueID:  row.ID,
				UserID:   int(row.MemberUserID.Int64),
				JoinedAt: row.MemberJoined.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range queues {
		queues[i].SyncCount()
	}
	return queues, nil
}

// GetQueue fetches a queue with its full member set.
func (r *QueueRepo) GetQueue(ctx context.Context, queueID int) (models.GroupChatQueue, error) {
	rows, err := r.db.QueryxContext(ctx,
		queueSelect+` WHERE q.id=$1 ORDER BY m.joined_at ASC, m.user_id ASC`, queueID)
	if err != nil {
		return models.GroupChatQueue{}, err
	}
	queues, err := collectQueues(rows)
	if err != nil {
		return models.GroupChatQueue{}, err
	}
	if len(queues) == 0 {
		return models.GroupChatQueue{}, ErrQueueNotFound
	}
	return queues[0], nil
}

// AddMember inserts a member. Joining twice is a no-op.
func (r *QueueRepo) AddMember(ctx context.Context, queueID int, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_chat_queue_members (queue_id, user_id) VALUES ($1, $2)
         ON CONFLICT (queue_id, user_id) DO NOTHING`, queueID, userID)
	return err
}

// RemoveMember deletes a member. Removing a non-member is a no-op.
func (r *QueueRepo) RemoveMember(ctx context.Context, queueID int, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM group_chat_queue_members WHERE queue_id=$1 AND user_id=$2`, queueID, userID)
	return err
}

// DeleteQueue removes the queue and, via cascade, its members.
func (r *QueueRepo) DeleteQueue(ctx context.Context, queueID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM group_chat_queues WHERE id=$1`, queueID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrQueueNotFound
	}
	return nil
}

// ListActiveQueues returns all queues still waiting for members, newest first.
func (r *QueueRepo) ListActiveQueues(ctx context.Context) ([]models.GroupChatQueue, error) {
	rows, err := r.db.QueryxContext(ctx,
		queueSelect+` ORDER BY q.created_at DESC, q.id DESC, m.joined_at ASC, m.user_id ASC`)
	if err != nil {
		return nil, err
	}
	queues, err := collectQueues(rows)
	if err != nil {
		return nil, err
	}
	if queues == nil {
		queues = []models.GroupChatQueue{}
	}
	return queues, nil
}
