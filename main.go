package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/cache"
	"roboturkiye-backend/internal/config"
	"roboturkiye-backend/internal/controllers"
	"roboturkiye-backend/internal/credentials"
	"roboturkiye-backend/internal/database"
	"roboturkiye-backend/internal/events"
	"roboturkiye-backend/internal/logger"
	"roboturkiye-backend/internal/middleware"
	"roboturkiye-backend/internal/routes"
	"roboturkiye-backend/internal/seed"
	"roboturkiye-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SeedOnStartup {
		if err := seed.Run(ctx, store, log); err != nil {
			return err
		}
	}

	idem, err := idempotencyStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic, log)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	tokens, err := credentials.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return err
	}
	auth := services.NewAuthService(store.Users, credentials.NewPasswordHasher(cfg.BcryptCost), tokens, cfg.AllowAdminSignup, log)
	catalog := services.NewCatalogService(store.Products, store.Categories, log)
	carts := services.NewCartService(store.Carts, catalog, log)
	orders := services.NewOrderService(store.Orders, catalog, carts, idem, publisher, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(log, cfg.CORSOrigins)
	routes.Register(router, routes.Deps{
		Auth:        controllers.NewAuthController(auth),
		Products:    controllers.NewProductController(catalog),
		Cart:        controllers.NewCartController(carts),
		Orders:      controllers.NewOrderController(orders),
		Gate:        middleware.NewGate(tokens, store.Users),
		AuthLimiter: middleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("RoboTurkiye API listening", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server shutdown complete")
	return nil
}

// idempotencyStore prefers Redis so replays work across instances.
func idempotencyStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.IdempotencyStore, error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, keeping idempotency keys in memory")
		return cache.NewMemoryIdempotency(cfg.IdempotencyTTL), nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Info("connected to Redis")
	return cache.NewRedisIdempotency(client, cfg.IdempotencyTTL), nil
}
