package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/service"
)

type stubUsersStore struct {
	t *testing.T

	getByIDFunc func(context.Context, string) (domain.User, error)
	searchFunc  func(context.Context, string, string, int) ([]domain.UserSummary, error)
}

func (s *stubUsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	s.t.Fatalf("CreateUser called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getByIDFunc != nil {
		return s.getByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetUserByID called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	s.t.Fatalf("GetUserByLogin called unexpectedly")
	return domain.UserWithPassword{}, context.Canceled
}

func (s *stubUsersStore) SearchUsers(ctx context.Context, viewerID, query string, limit int) ([]domain.UserSummary, error) {
	if s.searchFunc != nil {
		return s.searchFunc(ctx, viewerID, query, limit)
	}
	s.t.Fatalf("SearchUsers called unexpectedly")
	return nil, context.Canceled
}

type stubConnectionsStore struct {
	t *testing.T

	createFunc    func(context.Context, string, string) (domain.Connection, error)
	getByIDFunc   func(context.Context, string) (domain.Connection, error)
	getByPairFunc func(context.Context, string, string) (domain.Connection, error)
	setStatusFunc func(context.Context, string, domain.ConnectionStatus, time.Time) (domain.Connection, error)
}

func (s *stubConnectionsStore) Create(ctx context.Context, requesterID, recipientID string) (domain.Connection, error) {
	if s.createFunc != nil {
		return s.createFunc(ctx, requesterID, recipientID)
	}
	s.t.Fatalf("Create called unexpectedly")
	return domain.Connection{}, context.Canceled
}

func (s *stubConnectionsStore) GetByID(ctx context.Context, id string) (domain.Connection, error) {
	if s.getByIDFunc != nil {
		return s.getByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetByID called unexpectedly")
	return domain.Connection{}, context.Canceled
}

func (s *stubConnectionsStore) GetByPair(ctx context.Context, a, b string) (domain.Connection, error) {
	if s.getByPairFunc != nil {
		return s.getByPairFunc(ctx, a, b)
	}
	s.t.Fatalf("GetByPair called unexpectedly")
	return domain.Connection{}, context.Canceled
}

func (s *stubConnectionsStore) ResetPending(ctx context.Context, id, requesterID, recipientID string, when time.Time) (domain.Connection, error) {
	s.t.Fatalf("ResetPending called unexpectedly")
	return domain.Connection{}, context.Canceled
}

func (s *stubConnectionsStore) SetStatus(ctx context.Context, id string, status domain.ConnectionStatus, when time.Time) (domain.Connection, error) {
	if s.setStatusFunc != nil {
		return s.setStatusFunc(ctx, id, status, when)
	}
	s.t.Fatalf("SetStatus called unexpectedly")
	return domain.Connection{}, context.Canceled
}

func (s *stubConnectionsStore) Delete(ctx context.Context, id string) error {
	s.t.Fatalf("Delete called unexpectedly")
	return context.Canceled
}

func (s *stubConnectionsStore) ListAccepted(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error) {
	s.t.Fatalf("ListAccepted called unexpectedly")
	return nil, context.Canceled
}

func (s *stubConnectionsStore) ListPendingReceived(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error) {
	s.t.Fatalf("ListPendingReceived called unexpectedly")
	return nil, context.Canceled
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, service.NotifyParams) error { return nil }

func authedRequest(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(context.WithValue(req.Context(), authUserIDKey, userID))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return env
}

const (
	testUser1 = "7ab25f8e-0c9f-4f8a-8f0d-111111111111"
	testUser2 = "7ab25f8e-0c9f-4f8a-8f0d-222222222222"
)

func TestConnectionsSendCreated(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getByIDFunc: func(_ context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Username: "bob"}, nil
		},
	}
	conns := &stubConnectionsStore{
		t: t,
		getByPairFunc: func(_ context.Context, a, b string) (domain.Connection, error) {
			return domain.Connection{}, domain.ErrNotFound
		},
		createFunc: func(_ context.Context, requesterID, recipientID string) (domain.Connection, error) {
			return domain.Connection{ID: "conn-1", RequesterID: requesterID, RecipientID: recipientID, Status: domain.ConnectionPending}, nil
		},
	}
	api := &api{
		connectionsSvc: &service.ConnectionsService{
			Users:       users,
			Connections: conns,
			Notifier:    noopNotifier{},
		},
	}

	req := authedRequest(http.MethodPost, "/connections/send", `{"recipient_id":"`+testUser2+`"}`, testUser1)
	rr := httptest.NewRecorder()
	api.handleConnectionsSend(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rr.Code, rr.Body.String())
	}

	var got struct {
		Connection domain.Connection `json:"connection"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Connection.ID != "conn-1" || got.Connection.Status != domain.ConnectionPending {
		t.Fatalf("unexpected connection: %+v", got.Connection)
	}
}

func TestConnectionsSendDuplicateConflict(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getByIDFunc: func(_ context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Username: "bob"}, nil
		},
	}
	conns := &stubConnectionsStore{
		t: t,
		getByPairFunc: func(_ context.Context, a, b string) (domain.Connection, error) {
			return domain.Connection{ID: "conn-1", RequesterID: testUser2, RecipientID: testUser1, Status: domain.ConnectionAccepted}, nil
		},
	}
	api := &api{
		connectionsSvc: &service.ConnectionsService{
			Users:       users,
			Connections: conns,
			Notifier:    noopNotifier{},
		},
	}

	req := authedRequest(http.MethodPost, "/connections/send", `{"recipient_id":"`+testUser2+`"}`, testUser1)
	rr := httptest.NewRecorder()
	api.handleConnectionsSend(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: %d body %s", rr.Code, rr.Body.String())
	}
	if env := decodeError(t, rr); env.Code != "connection_exists" {
		t.Fatalf("unexpected error body: %+v", env)
	}
}

func TestConnectionsSendBadRecipientID(t *testing.T) {
	api := &api{connectionsSvc: &service.ConnectionsService{}}

	req := authedRequest(http.MethodPost, "/connections/send", `{"recipient_id":"not-a-uuid"}`, testUser1)
	rr := httptest.NewRecorder()
	api.handleConnectionsSend(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d body %s", rr.Code, rr.Body.String())
	}
	if env := decodeError(t, rr); env.Code != "validation_error" {
		t.Fatalf("unexpected error body: %+v", env)
	}
}

func TestConnectionsAcceptNotPending(t *testing.T) {
	conns := &stubConnectionsStore{
		t: t,
		getByIDFunc: func(_ context.Context, id string) (domain.Connection, error) {
			return domain.Connection{ID: id, RequesterID: testUser2, RecipientID: testUser1, Status: domain.ConnectionRejected}, nil
		},
	}
	api := &api{
		connectionsSvc: &service.ConnectionsService{
			Users:       &stubUsersStore{t: t},
			Connections: conns,
			Notifier:    noopNotifier{},
		},
	}

	req := authedRequest(http.MethodPost, "/connections/accept", `{"connection_id":"7ab25f8e-0c9f-4f8a-8f0d-333333333333"}`, testUser1)
	rr := httptest.NewRecorder()
	api.handleConnectionsAccept(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d body %s", rr.Code, rr.Body.String())
	}
	if env := decodeError(t, rr); env.Code != "connection_resolved" {
		t.Fatalf("unexpected error body: %+v", env)
	}
}
