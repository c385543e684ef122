package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"sepri/internal/auth"
	"sepri/internal/config"
	"sepri/internal/domain"
	"sepri/internal/remote"
	"sepri/internal/repository"
	"sepri/internal/storage/local"
)

// app holds everything a command needs. It is built once per invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *local.Store
	client   *remote.Client
	repo     *repository.Repository
	users    *auth.Store
	sessions *auth.SessionStore
	tokens   *auth.Tokens
	tokenErr error
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.LogLevel)

	store, err := local.Open(cfg.Local.Path, cfg.Local.QuotaBytes, logger)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
	a.tokens, a.tokenErr = auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	a.client = remote.New(remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		Timeout:        cfg.Remote.Timeout,
		MaxAttempts:    cfg.Remote.Retry.MaxAttempts,
		InitialBackoff: cfg.Remote.Retry.InitialBackoff,
		MaxBackoff:     cfg.Remote.Retry.MaxBackoff,
	}, a.token, logger)
	a.repo = repository.New(a.client, store, logger)

	a.users = auth.NewStore(store, auth.NewHasher(cfg.Auth.BcryptCost, logger), auth.DefaultSeeds(
		auth.Seed{Name: cfg.Auth.Admin.Name, Email: cfg.Auth.Admin.Email, Password: cfg.Auth.Admin.Password},
		auth.Seed{Name: cfg.Auth.Creator.Name, Email: cfg.Auth.Creator.Email, Password: cfg.Auth.Creator.Password},
	), logger)
	a.sessions = auth.NewSessionStore(store, a.users)

	return a, nil
}

// token signs a bearer token for the current session.
func (a *app) token(ctx context.Context) (string, error) {
	session, err := a.sessions.Current(ctx)
	if err != nil {
		return "", err
	}
	if a.tokenErr != nil {
		return "", fmt.Errorf("auth.token_secret: %w", a.tokenErr)
	}
	return a.tokens.Issue(session)
}

func (a *app) requireRole(ctx context.Context, roles ...domain.Role) (*auth.Session, error) {
	session, err := a.sessions.Current(ctx)
	if err != nil {
		return nil, errors.New("you must log in first: sepri login --email <email> --password <password>")
	}
	if err := session.Require(roles...); err != nil {
		return nil, err
	}
	return session, nil
}

func (a *app) requireManager(ctx context.Context) (*auth.Session, error) {
	return a.requireRole(ctx, domain.RoleAdmin, domain.RoleCreator)
}

func (a *app) Close() error {
	return a.store.Close()
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

// explain turns well-known failures into guidance for the operator.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, local.ErrQuotaExceeded):
		return fmt.Errorf("local storage is full, reduce image size and try again: %w", err)
	case errors.Is(err, repository.ErrSyncFailed):
		return fmt.Errorf("the change was saved on this machine but not on the server; retry when the server is reachable: %w", err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errors.New("incorrect email or password")
	case errors.Is(err, auth.ErrForbidden):
		return fmt.Errorf("your role may not do this: %w", err)
	}
	return err
}
