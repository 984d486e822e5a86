package domain

import "time"

type NotificationType string

const (
	NotificationLike              NotificationType = "like"
	NotificationComment           NotificationType = "comment"
	NotificationMessage           NotificationType = "message"
	NotificationConnectionRequest NotificationType = "connection_request"
	NotificationConnectionAccept  NotificationType = "connection_accept"
)

type Notification struct {
	ID            string           `json:"id"`
	RecipientID   string           `json:"recipient_id"`
	SenderID      string           `json:"sender_id"`
	Type          NotificationType `json:"type"`
	Message       string           `json:"message"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	ReferenceType string           `json:"reference_type,omitempty"`
	Read          bool             `json:"read"`
	ReadAt        *time.Time       `json:"read_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
