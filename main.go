package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"neuraslide/internal/aiclient"
	"neuraslide/internal/billing"
	"neuraslide/internal/config"
	"neuraslide/internal/dmworker"
	"neuraslide/internal/instagram"
	"neuraslide/internal/notifier"
	"neuraslide/internal/repository"
	"neuraslide/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := repository.NewPostgresDB(cfg.Database.URL, repository.PoolLimits{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repository.MigrateDB(db, logger)

	igClient := instagram.NewClient(cfg.Instagram.BaseURL, cfg.Instagram.AccessToken, logger)

	aiClient := aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature, logger)

	billingClient := billing.NewClient(cfg.Stripe.APIKey, cfg.Stripe.Enabled, logger)

	n, err := notifier.New(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize notifier, continuing without it", zap.Error(err))
		n = nil
	}

	userRepo := repository.NewUserRepository(db, logger)
	automationRepo := repository.NewAutomationRepository(db, logger)
	conversationRepo := repository.NewConversationRepository(db, logger)
	messageRepo := repository.NewMessageRepository(db, logger)

	poller := dmworker.NewPoller(userRepo, automationRepo, conversationRepo, messageRepo,
		igClient, aiClient, n, logger, cfg.Instagram.PollIntervalSeconds)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go poller.Run(ctx)

	srv := server.NewServer(db, cfg, logger, igClient, aiClient, billingClient, n)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
