/**
 * @description
 * This is the main entry point for the PayPlanner backend.
 * It initializes and wires together all the components of the application:
 * configuration, database pool, Redis, RabbitMQ, the Telegram bot, the
 * reminder scheduler, and the HTTP router. Finally, it starts the HTTP
 * server to listen for incoming requests.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Pailon/PayPlanner/internal/api"
	"github.com/Pailon/PayPlanner/internal/app"
	"github.com/Pailon/PayPlanner/internal/auth"
	"github.com/Pailon/PayPlanner/internal/bot"
	"github.com/Pailon/PayPlanner/internal/config"
	"github.com/Pailon/PayPlanner/internal/encryption"
	"github.com/Pailon/PayPlanner/internal/queue"
	"github.com/Pailon/PayPlanner/internal/store"
	"github.com/Pailon/PayPlanner/pkg/rabbitmq"
)

// reminderDeliveryQueue is the durable queue the dispatcher consumes from.
const reminderDeliveryQueue = "reminder_delivery"

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load a local .env file when present; production relies on real env vars.
	_ = godotenv.Load()

	// Load application configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up channel to listen for OS signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Establish connection to the PostgreSQL database with connection pool configuration
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = 20
	poolConfig.MaxConnIdleTime = 30 * time.Second

	// Use simple protocol to stay compatible with transaction-pooling proxies.
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// Establish connection to Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("unable to parse Redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	logger.Info("redis connection established")

	// Establish connections to RabbitMQ
	producer, err := rabbitmq.NewProducer(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("unable to connect to RabbitMQ (producer)", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("unable to connect to RabbitMQ (consumer)", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()
	logger.Info("rabbitmq connections established")

	// Notes encryption cipher
	encryptionKey, err := cfg.EncryptionKeyBytes()
	if err != nil {
		logger.Error("invalid encryption key", "error", err)
		os.Exit(1)
	}
	cipher, err := encryption.NewCipher(encryptionKey)
	if err != nil {
		logger.Error("failed to initialize notes cipher", "error", err)
		os.Exit(1)
	}

	// Initialize application layers
	userRepo := store.NewUserRepository(dbpool)
	subscriptionRepo := store.NewSubscriptionRepository(dbpool, cipher)
	reminderRepo := store.NewReminderRepository(dbpool)
	refreshTokens := store.NewRefreshTokenStore(redisClient, auth.RefreshTokenTTL)
	dedup := store.NewReminderDedup(redisClient, 48*time.Hour)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret)
	service := app.NewService(subscriptionRepo)

	// Telegram bot (also the outbound message sender for reminders)
	tgBot, err := bot.New(cfg.TelegramBotToken, userRepo, service, reminderRepo, cfg.WebAppURL, logger)
	if err != nil {
		logger.Error("failed to initialize Telegram bot", "error", err)
		os.Exit(1)
	}

	// Reminder pipeline: scan -> delayed queue -> broker -> dispatcher -> bot
	delayedQueue := queue.NewDelayedQueue(redisClient, producer, logger)
	notifier := app.NewQueueNotifier(delayedQueue, tgBot)
	reminders := app.NewReminders(reminderRepo, notifier, dedup, logger)
	scheduler := app.NewScheduler(reminders, logger)
	dispatcher := app.NewDispatcher(tgBot, logger)

	scheduler.Start()
	logger.Info("reminder scheduler started")

	go delayedQueue.Run(ctx)

	go func() {
		if err := consumer.Consume(ctx, reminderDeliveryQueue, queue.ReminderRoutingKey, dispatcher.Handle); err != nil && ctx.Err() == nil {
			logger.Error("reminder consumer stopped", "error", err)
		}
	}()

	go tgBot.Run(ctx)
	logger.Info("telegram bot started")

	// HTTP API
	authHandler := api.NewAuthHandler(userRepo, issuer, refreshTokens, cfg.TelegramBotToken, cfg.SecureCookies, logger)
	handler := api.NewHandler(service, logger)
	router := api.NewRouter(handler, authHandler, issuer, cfg.AllowedOrigins)

	// Configure and start the HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an OS signal
	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")
	cancel()

	// Create a context with a timeout for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Attempt to gracefully shut down the server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Stop the cron scheduler and wait for running jobs to finish
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	logger.Info("server stopped")
}
