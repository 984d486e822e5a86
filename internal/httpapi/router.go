package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Tokens        TokenVerifier
	Auth          *service.AuthService
	Users         *service.UsersService
	Connections   *service.ConnectionsService
	Posts         *service.PostsService
	Messages      *service.MessagesService
	Notifications *service.NotificationService
	Stories       *service.StoriesService
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:           logger,
		isProd:           opts.IsProd,
		dbPing:           opts.DBPing,
		tokens:           opts.Tokens,
		authSvc:          opts.Auth,
		usersSvc:         opts.Users,
		connectionsSvc:   opts.Connections,
		postsSvc:         opts.Posts,
		messagesSvc:      opts.Messages,
		notificationsSvc: opts.Notifications,
		storiesSvc:       opts.Stories,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", api.handleHealthz)

	// Services are wired together or not at all; a server booted without a
	// database answers everything but /healthz with 501.
	if api.authSvc == nil {
		mux.HandleFunc("/", handleNotImplemented)
		return wrap(mux, logger, opts.IsProd)
	}

	mux.HandleFunc("POST /auth/register", api.handleAuthRegister)
	mux.HandleFunc("POST /auth/login", api.handleAuthLogin)
	mux.HandleFunc("GET /users/me", api.requireAuth(api.handleUsersMe))
	mux.HandleFunc("GET /users/search", api.requireAuth(api.handleUsersSearch))
	mux.HandleFunc("GET /users/{id}", api.requireAuth(api.handleUsersGet))

	mux.HandleFunc("POST /connections/send", api.requireAuth(api.handleConnectionsSend))
	mux.HandleFunc("POST /connections/accept", api.requireAuth(api.handleConnectionsAccept))
	mux.HandleFunc("POST /connections/reject", api.requireAuth(api.handleConnectionsReject))
	mux.HandleFunc("DELETE /connections/{id}", api.requireAuth(api.handleConnectionsRemove))
	mux.HandleFunc("GET /connections", api.requireAuth(api.handleConnectionsList))
	mux.HandleFunc("GET /connections/pending", api.requireAuth(api.handleConnectionsPending))
	mux.HandleFunc("GET /connections/status/{otherUserID}", api.requireAuth(api.handleConnectionsStatus))

	mux.HandleFunc("POST /posts", api.requireAuth(api.handlePostsCreate))
	mux.HandleFunc("GET /posts/feed", api.requireAuth(api.handlePostsFeed))
	mux.HandleFunc("GET /posts/{id}", api.requireAuth(api.handlePostsGet))
	mux.HandleFunc("DELETE /posts/{id}", api.requireAuth(api.handlePostsDelete))
	mux.HandleFunc("POST /posts/{id}/like", api.requireAuth(api.handlePostsLike))
	mux.HandleFunc("DELETE /posts/{id}/like", api.requireAuth(api.handlePostsUnlike))
	mux.HandleFunc("POST /posts/{id}/share", api.requireAuth(api.handlePostsShare))
	mux.HandleFunc("POST /posts/{id}/comments", api.requireAuth(api.handlePostsCommentCreate))
	mux.HandleFunc("GET /posts/{id}/comments", api.requireAuth(api.handlePostsCommentsList))

	mux.HandleFunc("POST /messages/send", api.requireAuth(api.handleMessagesSend))
	mux.HandleFunc("GET /messages/conversation/{otherUserID}", api.requireAuth(api.handleMessagesConversation))
	mux.HandleFunc("GET /messages/conversations", api.requireAuth(api.handleMessagesConversations))
	mux.HandleFunc("POST /messages/read/{senderID}", api.requireAuth(api.handleMessagesMarkRead))
	mux.HandleFunc("GET /messages/unread/count", api.requireAuth(api.handleMessagesUnreadCount))
	mux.HandleFunc("DELETE /messages/{id}", api.requireAuth(api.handleMessagesDelete))

	mux.HandleFunc("GET /notifications", api.requireAuth(api.handleNotificationsList))
	mux.HandleFunc("POST /notifications/{id}/read", api.requireAuth(api.handleNotificationsMarkRead))
	mux.HandleFunc("POST /notifications/read-all", api.requireAuth(api.handleNotificationsMarkAllRead))
	mux.HandleFunc("DELETE /notifications/{id}", api.requireAuth(api.handleNotificationsDelete))
	mux.HandleFunc("GET /notifications/unread/count", api.requireAuth(api.handleNotificationsUnreadCount))

	mux.HandleFunc("POST /stories", api.requireAuth(api.handleStoriesCreate))
	mux.HandleFunc("GET /stories", api.requireAuth(api.handleStoriesList))
	mux.HandleFunc("POST /stories/{id}/view", api.requireAuth(api.handleStoriesView))

	// The mux's default 404/405 pages are plain text; clients expect the
	// JSON error envelope everywhere.
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern == "" {
			WriteError(w, http.StatusNotFound, "not_found", "not found")
			return
		}
		h.ServeHTTP(w, r)
	})

	return wrap(root, logger, opts.IsProd)
}

func wrap(h http.Handler, logger *slog.Logger, isProd bool) http.Handler {
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, isProd)(h)
	return h
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "not implemented")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error
	tokens TokenVerifier

	authSvc          *service.AuthService
	usersSvc         *service.UsersService
	connectionsSvc   *service.ConnectionsService
	postsSvc         *service.PostsService
	messagesSvc      *service.MessagesService
	notificationsSvc *service.NotificationService
	storiesSvc       *service.StoriesService
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
