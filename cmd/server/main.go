package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dashpos/internal/analytics"
	"dashpos/internal/auth"
	"dashpos/internal/config"
	"dashpos/internal/connections/database"
	"dashpos/internal/connections/rabbitmq"
	"dashpos/internal/events"
	"dashpos/internal/inventory"
	"dashpos/internal/logger"
	"dashpos/internal/menu"
	"dashpos/internal/operations"
	"dashpos/internal/qr"
	"dashpos/internal/realtime"
	"dashpos/internal/reviews"
	"dashpos/internal/server"
	"dashpos/internal/settings"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	path, err := config.FindConfig()
	if err != nil {
		return fmt.Errorf("no config file found: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("dashpos-server")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	log.Info("database connected", zap.String("host", cfg.Database.Host))

	mq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer mq.Close()
	if err := mq.DeclareTopology(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}
	log.Info("rabbitmq connected", zap.String("host", cfg.Rabbit.Host))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLHours)*time.Hour,
		time.Duration(cfg.Auth.RefreshTTLHrs)*time.Hour)
	bus := events.NewPublisher(mq, log.Named("events"))

	authSvc := auth.NewService(auth.NewRepository(db), tokens)
	menuSvc := menu.NewService(menu.NewRepository(db), bus)
	invSvc := inventory.NewService(inventory.NewRepository(db), bus)
	opsSvc := operations.NewService(operations.NewRepository(db), bus)
	anlSvc := analytics.NewService(analytics.NewRepository(db))
	qrSvc := qr.NewService(qr.NewRepository(db), cfg.Server.BaseURL)
	revSvc := reviews.NewService(reviews.NewRepository(db))
	setRepo := settings.NewRepository(db)

	hub := realtime.NewHub(log.Named("hub"))
	sub := realtime.NewSubscriber(mq, hub, log.Named("subscriber"))

	router := server.NewRouter(server.Deps{
		Cfg:        cfg,
		Log:        log.Named("http"),
		DB:         db,
		MQ:         mq,
		Tokens:     tokens,
		Auth:       auth.NewHandler(authSvc, log.Named("auth")),
		Menu:       menu.NewHandler(menuSvc, log.Named("menu")),
		Inventory:  inventory.NewHandler(invSvc, log.Named("inventory")),
		Operations: operations.NewHandler(opsSvc, log.Named("operations")),
		Analytics:  analytics.NewHandler(anlSvc, log.Named("analytics")),
		QR:         qr.NewHandler(qrSvc, log.Named("qr")),
		Reviews:    reviews.NewHandler(revSvc, log.Named("reviews")),
		Settings:   settings.NewHandler(setRepo, log.Named("settings")),
		Realtime:   realtime.NewHandler(hub, tokens, log.Named("realtime")),
	})

	go func() {
		if err := sub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("realtime subscriber stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
