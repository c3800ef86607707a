package models

import "time"

// GroupChatQueue is a pending group-chat formation request. It fills with
// members until the promotion threshold is reached and is then converted
// into a GroupChat.
type GroupChatQueue struct {
	ID           int           `db:"id" json:"id"`
	Title        string        `db:"title" json:"title"`
	Description  string        `db:"description" json:"description,omitempty"`
	Intention    Intention     `db:"intention" json:"intention"`
	MinPeople    int           `db:"min_people" json:"minPeople"`
	MaxPeople    int           `db:"max_people" json:"maxPeople"`
	CreatorID    int           `db:"creator_id" json:"creatorId"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	Members      []QueueMember `db:"-" json:"members"`
	CurrentCount int           `db:"-" json:"currentCount"`
}

// QueueMember is one user waiting in a queue. Members are ordered by join
// time, the creator first.
type QueueMember struct {
	QueueID  int       `db:"queue_id" json:"-"`
	UserID   int       `db:"user_id" json:"userId"`
	JoinedAt time.Time `db:"joined_at" json:"joinedAt"`
}

// HasMember reports whether the user is already waiting in the queue.
func (q GroupChatQueue) HasMember(userID int) bool {
	for _, m := range q.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// SyncCount recomputes CurrentCount from the member list. Must be called
// whenever Members changes so the serialized record never disagrees with
// its membership.
func (q *GroupChatQueue) SyncCount() {
	q.CurrentCount = len(q.Members)
}
