package models

import "time"

// DirectChat is a private conversation between exactly two users.
type DirectChat struct {
	ID        int       `db:"id" json:"id"`
	User1ID   int       `db:"user1_id" json:"user1Id"`
	User2ID   int       `db:"user2_id" json:"user2Id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DirectChatSummary is the API view of a direct chat for one participant.
type DirectChatSummary struct {
	ChatID      int       `json:"chatId"`
	RecipientID int       `json:"recipientId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DirectMessage is a message in a direct chat.
type DirectMessage struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chatId"`
	SenderID  int       `db:"sender_id" json:"senderId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DirectChatEvent is emitted over direct chat websocket connections.
type DirectChatEvent struct {
	Type    string         `json:"type"`
	Message *DirectMessage `json:"message,omitempty"`
}
