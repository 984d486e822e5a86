package domain

import "time"

type Message struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Content    string     `json:"content"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Conversation is a per-partner summary derived from the flat message table:
// the most recent message in either direction plus the viewer's unread count.
type Conversation struct {
	User        UserSummary `json:"user"`
	LastMessage Message     `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}
