package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sepri/internal/assistant"
	"sepri/internal/auth"
	"sepri/internal/checklist"
	"sepri/internal/config"
	"sepri/internal/defaults"
	"sepri/internal/publisher"
	"sepri/internal/server"
	"sepri/internal/service"
	"sepri/internal/storage/local"
	"sepri/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	collections := service.NewCollectionService(
		postgres.NewBlobStore(db),
		postgres.NewRevisionStore(db),
		postgres.NewTransactionManager(db),
		pub,
		logger,
	)

	accounts, err := local.Open(cfg.Local.Path, cfg.Local.QuotaBytes, logger)
	if err != nil {
		logger.Error("failed to open account store", "error", err)
		os.Exit(1)
	}
	defer accounts.Close()

	users := auth.NewStore(accounts, auth.NewHasher(cfg.Auth.BcryptCost, logger), auth.DefaultSeeds(
		auth.Seed{Name: cfg.Auth.Admin.Name, Email: cfg.Auth.Admin.Email, Password: cfg.Auth.Admin.Password},
		auth.Seed{Name: cfg.Auth.Creator.Name, Email: cfg.Auth.Creator.Email, Password: cfg.Auth.Creator.Password},
	), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := users.Seed(ctx); err != nil {
		logger.Error("failed to seed accounts", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	chat, err := assistant.New(ctx, assistant.Config{
		APIKey:       cfg.Assistant.APIKey,
		Model:        cfg.Assistant.Model,
		Timeout:      cfg.Assistant.Timeout,
		SystemPrompt: defaults.SystemPrompt,
	}, logger)
	if err != nil {
		logger.Error("failed to create assistant", "error", err)
		os.Exit(1)
	}

	api := server.NewAPI(collections, users, tokens, chat, server.Options{
		Catalog:      checklist.Catalog(defaults.ExtraSteps()),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		cancel()
	}()

	logger.Info("starting content server",
		"addr", cfg.Server.Addr,
		"rabbitmq", cfg.RabbitMQ.Enabled,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	<-ctx.Done()
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
