package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	sessionApp "tienda/internal/application/session"
	"tienda/internal/domain/shared/events"
	"tienda/internal/infrastructure/cache"
	"tienda/internal/infrastructure/config"
	"tienda/internal/infrastructure/database"
	"tienda/internal/infrastructure/identity"
	"tienda/internal/infrastructure/repository"
	"tienda/internal/infrastructure/scheduler"
	"tienda/internal/shared/logger"
)

// The worker runs the background session maintenance loops: the cleanup
// sweep and the provider reconciliation batch. It shares no state with the
// HTTP server beyond the database and redis.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting session maintenance worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	eventDispatcher := events.NewInMemoryEventDispatcher(100)
	if err := eventDispatcher.Start(); err != nil {
		logger.Fatal("failed to start event dispatcher", "error", err)
	}
	defer func() {
		if err := eventDispatcher.Stop(); err != nil {
			log.Errorw("failed to stop event dispatcher", "error", err)
		}
	}()

	sessionRepo := repository.NewSessionRepository(database.Get())
	sessionCache := cache.NewSessionCacheWithTTL(redisClient, cfg.Session.CacheTTL())
	orphanStore := cache.NewOrphanAuditStore(redisClient)
	providerClient := identity.NewClerkClient(&cfg.Provider, log)

	sessionService := sessionApp.NewService(
		sessionRepo,
		sessionCache,
		orphanStore,
		providerClient,
		eventDispatcher,
		&cfg.Session,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupScheduler := scheduler.NewSessionCleanupScheduler(
		sessionService.CleanupUseCase(),
		cfg.Session.CleanupInterval(),
		log,
	)
	syncScheduler := scheduler.NewSessionSyncScheduler(
		sessionService.SyncAllUseCase(),
		cfg.Session.SyncInterval(),
		log,
	)

	cleanupScheduler.Start(ctx)
	syncScheduler.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutting down worker...")
	cancel()
	cleanupScheduler.Stop()
	syncScheduler.Stop()
	log.Infow("worker exited gracefully")
}
