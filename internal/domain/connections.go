package domain

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is the single record for an unordered user pair. A rejected
// record may be overwritten back to pending by a fresh request, which may
// swap the requester/recipient ordering.
type Connection struct {
	ID          string           `json:"id"`
	RequesterID string           `json:"requester_id"`
	RecipientID string           `json:"recipient_id"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ConnectionWithUser pairs a connection with the counterpart's display
// fields, relative to the user the list was built for.
type ConnectionWithUser struct {
	Connection
	User UserSummary `json:"user"`
}

// ConnectionState describes the relationship between a viewer and another
// user: "self", "none", or the record's status plus which side the viewer is on.
type ConnectionState struct {
	Status       string `json:"status"`
	ConnectionID string `json:"connection_id,omitempty"`
	IsRequester  *bool  `json:"is_requester,omitempty"`
}
