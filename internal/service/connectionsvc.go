package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type ConnectionsStore interface {
	Create(ctx context.Context, requesterID, recipientID string) (domain.Connection, error)
	GetByID(ctx context.Context, id string) (domain.Connection, error)
	GetByPair(ctx context.Context, a, b string) (domain.Connection, error)
	ResetPending(ctx context.Context, id, requesterID, recipientID string, when time.Time) (domain.Connection, error)
	SetStatus(ctx context.Context, id string, status domain.ConnectionStatus, when time.Time) (domain.Connection, error)
	Delete(ctx context.Context, id string) error
	ListAccepted(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error)
	ListPendingReceived(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error)
}

type ConnectionsService struct {
	Users       UsersStore
	Connections ConnectionsStore
	Notifier    Notifier
	Now         func() time.Time
}

// SendRequest creates the pending record for the pair, or resurrects a
// rejected one with the new requester/recipient ordering. Either path
// notifies the recipient; the store's pair constraint settles races
// between concurrent first requests.
func (s *ConnectionsService) SendRequest(ctx context.Context, requesterID, recipientID string) (domain.Connection, error) {
	if recipientID == "" {
		return domain.Connection{}, domain.NewValidationError(map[string]string{"recipient_id": "required"})
	}
	if requesterID == recipientID {
		return domain.Connection{}, domain.NewValidationError(map[string]string{"recipient_id": "cannot connect with yourself"})
	}

	recipient, err := s.Users.GetUserByID(ctx, recipientID)
	if err != nil {
		return domain.Connection{}, err
	}

	existing, err := s.Connections.GetByPair(ctx, requesterID, recipientID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		conn, err := s.Connections.Create(ctx, requesterID, recipientID)
		if err != nil {
			return domain.Connection{}, err
		}
		if err := s.notifyRequest(ctx, conn, recipient.ID); err != nil {
			return domain.Connection{}, err
		}
		return conn, nil
	case err != nil:
		return domain.Connection{}, err
	}

	if existing.Status != domain.ConnectionRejected {
		return domain.Connection{}, domain.ErrConnectionExists
	}

	conn, err := s.Connections.ResetPending(ctx, existing.ID, requesterID, recipientID, s.now())
	if err != nil {
		return domain.Connection{}, err
	}
	if err := s.notifyRequest(ctx, conn, recipient.ID); err != nil {
		return domain.Connection{}, err
	}
	return conn, nil
}

func (s *ConnectionsService) notifyRequest(ctx context.Context, conn domain.Connection, recipientID string) error {
	requester, err := s.Users.GetUserByID(ctx, conn.RequesterID)
	if err != nil {
		return err
	}
	return s.Notifier.Notify(ctx, NotifyParams{
		RecipientID:   recipientID,
		SenderID:      conn.RequesterID,
		Type:          domain.NotificationConnectionRequest,
		Message:       fmt.Sprintf("%s sent you a connection request", displayOrUsername(requester)),
		ReferenceID:   conn.ID,
		ReferenceType: "connection",
	})
}

// Accept resolves a pending request. Only the recipient may resolve it.
func (s *ConnectionsService) Accept(ctx context.Context, connectionID, actingUserID string) (domain.Connection, error) {
	conn, err := s.Connections.GetByID(ctx, connectionID)
	if err != nil {
		return domain.Connection{}, err
	}
	if conn.RecipientID != actingUserID {
		return domain.Connection{}, domain.ErrForbidden
	}
	if conn.Status != domain.ConnectionPending {
		return domain.Connection{}, domain.ErrConnectionResolved
	}

	conn, err = s.Connections.SetStatus(ctx, connectionID, domain.ConnectionAccepted, s.now())
	if err != nil {
		return domain.Connection{}, err
	}

	recipient, err := s.Users.GetUserByID(ctx, conn.RecipientID)
	if err != nil {
		return domain.Connection{}, err
	}
	err = s.Notifier.Notify(ctx, NotifyParams{
		RecipientID:   conn.RequesterID,
		SenderID:      conn.RecipientID,
		Type:          domain.NotificationConnectionAccept,
		Message:       fmt.Sprintf("%s accepted your connection request", displayOrUsername(recipient)),
		ReferenceID:   conn.ID,
		ReferenceType: "connection",
	})
	if err != nil {
		return domain.Connection{}, err
	}
	return conn, nil
}

// Reject resolves a pending request without notifying anyone.
func (s *ConnectionsService) Reject(ctx context.Context, connectionID, actingUserID string) (domain.Connection, error) {
	conn, err := s.Connections.GetByID(ctx, connectionID)
	if err != nil {
		return domain.Connection{}, err
	}
	if conn.RecipientID != actingUserID {
		return domain.Connection{}, domain.ErrForbidden
	}
	if conn.Status != domain.ConnectionPending {
		return domain.Connection{}, domain.ErrConnectionResolved
	}
	return s.Connections.SetStatus(ctx, connectionID, domain.ConnectionRejected, s.now())
}

// Remove hard-deletes the record; either side of the pair may do it.
func (s *ConnectionsService) Remove(ctx context.Context, connectionID, actingUserID string) error {
	conn, err := s.Connections.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.RequesterID != actingUserID && conn.RecipientID != actingUserID {
		return domain.ErrForbidden
	}
	return s.Connections.Delete(ctx, connectionID)
}

func (s *ConnectionsService) Status(ctx context.Context, userID, otherUserID string) (domain.ConnectionState, error) {
	if userID == otherUserID {
		return domain.ConnectionState{Status: "self"}, nil
	}

	conn, err := s.Connections.GetByPair(ctx, userID, otherUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ConnectionState{Status: "none"}, nil
	}
	if err != nil {
		return domain.ConnectionState{}, err
	}

	isRequester := conn.RequesterID == userID
	return domain.ConnectionState{
		Status:       string(conn.Status),
		ConnectionID: conn.ID,
		IsRequester:  &isRequester,
	}, nil
}

func (s *ConnectionsService) ListAccepted(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error) {
	return s.Connections.ListAccepted(ctx, userID)
}

func (s *ConnectionsService) ListPendingReceived(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error) {
	return s.Connections.ListPendingReceived(ctx, userID)
}

func (s *ConnectionsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func displayOrUsername(u domain.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
