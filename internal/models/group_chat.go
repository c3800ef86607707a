package models

import "time"

// GroupChat is a live group conversation. It is created only by promoting a
// queue; its membership is fixed at promotion time.
type GroupChat struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Intention   Intention `db:"intention" json:"intention"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	Members     []int     `db:"-" json:"members"`
	MemberCount int       `db:"-" json:"memberCount"`
}

// GroupChatMessage is a message sent in a group chat.
type GroupChatMessage struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chatId"`
	SenderID  int       `db:"sender_id" json:"senderId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// GroupChatEvent is emitted over group chat websocket connections.
type GroupChatEvent struct {
	Type    string            `json:"type"`
	Message *GroupChatMessage `json:"message,omitempty"`
}
