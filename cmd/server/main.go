package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/config"
	"github.com/eurofurence/admin-bot-go/internal/conversation"
	"github.com/eurofurence/admin-bot-go/internal/database"
	"github.com/eurofurence/admin-bot-go/internal/handler"
	"github.com/eurofurence/admin-bot-go/internal/jobs"
	"github.com/eurofurence/admin-bot-go/internal/metrics"
	"github.com/eurofurence/admin-bot-go/internal/middleware"
	"github.com/eurofurence/admin-bot-go/internal/redis"
	"github.com/eurofurence/admin-bot-go/internal/repository"
	"github.com/eurofurence/admin-bot-go/internal/service"
	"github.com/eurofurence/admin-bot-go/internal/util"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	metrics.Init()

	telegramUserRepo := repository.NewTelegramUserRepository(db.DB)
	alternativePinRepo := repository.NewAlternativePinRepository(db.DB)
	pushChannelRepo := repository.NewPushChannelRepository(db.DB)

	userManager := service.NewUserManager(telegramUserRepo)
	pinService := service.NewAlternativePinService(db, alternativePinRepo, cfg.ConventionNumber)
	pushChannelService := service.NewPushChannelService(pushChannelRepo)
	telegramService := service.NewTelegramService(cfg.TelegramAPIURL, cfg.TelegramBotToken, cfg.TelegramSendRatePerSec)
	rateLimiter := service.NewRateLimiter(redisClient.Client, cfg.ChatRateLimitPerMin, config.RateLimitWindow)
	deduper := service.NewUpdateDeduper(redisClient.Client, cfg.UpdateDedupTTL())

	engine := conversation.NewEngine(telegramService, userManager, pinService, pushChannelService)
	defer engine.Close()

	webhookSecret := cfg.TelegramWebhookSecret
	if webhookSecret == "" {
		webhookSecret, err = util.GenerateWebhookSecret()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate webhook secret")
		}
		log.Warn().Msg("TELEGRAM_WEBHOOK_SECRET not set: using a generated secret for this process")
	}

	telegramSecretMiddleware := middleware.NewTelegramSecretMiddleware(webhookSecret)
	pinLoginLimitMiddleware := middleware.NewIPRateLimitMiddleware(
		rateLimiter, cfg.PinLoginRateLimitPerMin, config.RateLimitWindow, "pin-login",
	)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	telegramHandler := handler.NewTelegramHandler(engine, deduper, rateLimiter, telegramService)
	authHandler := handler.NewAuthHandler(pinService)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": db.Ping,
		"redis":    redisClient.Healthy,
	})

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Method(http.MethodGet, "/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/telegram", func(r chi.Router) {
		r.Use(telegramSecretMiddleware.Handler)
		r.Post("/webhook", telegramHandler.Webhook)
	})

	r.Route("/v1/auth", func(r chi.Router) {
		r.With(pinLoginLimitMiddleware.Handler).Post("/regsys-pin", authHandler.RegSysPin)
	})

	if idle := cfg.SessionIdleTimeout(); idle > 0 {
		expiryJob := jobs.NewSessionExpiryJob(engine, idle, config.SessionExpiryInterval)
		expiryJob.Start()
		defer expiryJob.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	if cfg.TelegramWebhookURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), config.WebhookSetupTimeout)
		if err := telegramService.SetWebhook(ctx, cfg.TelegramWebhookURL, webhookSecret); err != nil {
			log.Error().Err(err).Str("url", cfg.TelegramWebhookURL).Msg("failed to register telegram webhook")
		} else {
			log.Info().Str("url", cfg.TelegramWebhookURL).Msg("telegram webhook registered")
		}
		cancel()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("unknown LOG_LEVEL, using info")
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
