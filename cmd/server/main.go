package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/auth"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/config"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/httpapi"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/service"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	var (
		authSvc    *service.AuthService
		usersSvc   *service.UsersService
		connSvc    *service.ConnectionsService
		postsSvc   *service.PostsService
		msgSvc     *service.MessagesService
		notifySvc  *service.NotificationService
		storiesSvc *service.StoriesService
		dbPing     func(context.Context) error
	)

	tokens := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL)

	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		if cfg.MigrationsDir != "" {
			if err := postgres.Migrate(context.Background(), pgPool, cfg.MigrationsDir); err != nil {
				logger.Error("db migrate failed", "err", err)
				os.Exit(1)
			}
		}

		users := postgres.NewUsersStore(pgPool)
		connections := postgres.NewConnectionsStore(pgPool)
		posts := postgres.NewPostsStore(pgPool)
		comments := postgres.NewCommentsStore(pgPool)
		messages := postgres.NewMessagesStore(pgPool)
		notifications := postgres.NewNotificationsStore(pgPool)
		stories := postgres.NewStoriesStore(pgPool)

		notifySvc = &service.NotificationService{Store: notifications}
		authSvc = &service.AuthService{
			Users:  users,
			Tokens: tokens,
		}
		usersSvc = &service.UsersService{Users: users}
		connSvc = &service.ConnectionsService{
			Users:       users,
			Connections: connections,
			Notifier:    notifySvc,
		}
		postsSvc = &service.PostsService{
			Posts:    posts,
			Comments: comments,
			Users:    users,
			Notifier: notifySvc,
		}
		msgSvc = &service.MessagesService{
			Messages: messages,
			Users:    users,
			Notifier: notifySvc,
		}
		storiesSvc = &service.StoriesService{Stories: stories}
		dbPing = pgPool.Ping
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:        logger,
		IsProd:        cfg.IsProd(),
		DBPing:        dbPing,
		Tokens:        tokens,
		Auth:          authSvc,
		Users:         usersSvc,
		Connections:   connSvc,
		Posts:         postsSvc,
		Messages:      msgSvc,
		Notifications: notifySvc,
		Stories:       storiesSvc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
