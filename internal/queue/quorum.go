package queue

import "collective-chat-service/internal/models"

// QuorumReached reports whether the queue has gathered enough members to be
// promoted into a group chat. Pure: it looks only at the record's current
// member count against the minPeople bound captured at creation.
func QuorumReached(q models.GroupChatQueue) bool {
	return len(q.Members) >= q.MinPeople
}
