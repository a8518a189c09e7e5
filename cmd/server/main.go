package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	httpAdapter "github.com/iho/partybook/internal/adapter/http"
	"github.com/iho/partybook/internal/adapter/http/handler"
	postgresRepo "github.com/iho/partybook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/partybook/internal/adapter/repository/redis"
	"github.com/iho/partybook/internal/infrastructure/auth"
	"github.com/iho/partybook/internal/infrastructure/config"
	"github.com/iho/partybook/internal/infrastructure/eventpublisher"
	"github.com/iho/partybook/internal/infrastructure/logger"
	"github.com/iho/partybook/internal/infrastructure/metrics"
	"github.com/iho/partybook/internal/infrastructure/postgres"
	"github.com/iho/partybook/internal/infrastructure/redis"
	"github.com/iho/partybook/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	txManager := postgresRepo.NewTxManager(pool)
	partyRepo := postgresRepo.NewPartyRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	// With the publisher off, events would pile up unpublished; skip writing
	// them entirely.
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.PublisherEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}
	retrier := postgresRepo.NewRetrier(log)

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	m := metrics.New()

	partyUC := usecase.NewPartyUseCase(txManager, partyRepo, outboxRepo, idGen, cache, m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, partyRepo, entryRepo, outboxRepo, idGen, cache, m)
	entryUC := usecase.NewEntryUseCase(entryRepo)

	var jwtManager *auth.JWTManager

	var authHandler *handler.AuthHandler

	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		authHandler = handler.NewAuthHandler(jwtManager, cfg.OwnerName, cfg.OwnerPassword)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PartyHandler:     handler.NewPartyHandler(partyUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, entryUC, retrier),
		AuthHandler:      authHandler,
		HealthHandler:    handler.NewHealthHandler(pool, redisPinger{redisClient}),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		JWTManager:       jwtManager,
		AuthEnabled:      cfg.AuthEnabled,
		RateLimitPerSec:  cfg.RateLimitPerSecond,
		RateLimitBurst:   cfg.RateLimitBurst,
		Logger:           log,
	})

	if cfg.PublisherEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewRedisPublisher(redisClient),
			Logger:     log,
			BatchSize:  cfg.PublisherBatch,
			Interval:   cfg.PublisherInterval,
		})

		go func() {
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// redisPinger exposes the redis client's Ping as a plain error method.
type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
