// Command createadmin creates an admin account directly in the configured
// store, for deployments where public admin signup is disabled.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"roboturkiye-backend/internal/config"
	"roboturkiye-backend/internal/credentials"
	"roboturkiye-backend/internal/database"
	"roboturkiye-backend/internal/logger"
	"roboturkiye-backend/internal/services"
)

func main() {
	name := flag.String("name", "Admin", "display name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := database.OpenStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	tokens, err := credentials.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		zlog.Fatal("failed to build token service", zap.Error(err))
	}
	auth := services.NewAuthService(store.Users, credentials.NewPasswordHasher(cfg.BcryptCost), tokens, false, zlog)

	user, err := auth.CreateAdmin(ctx, *name, *email, *password)
	if err != nil {
		closeStore()
		zlog.Fatal("failed to create admin", zap.Error(err))
	}
	zlog.Info("admin created", zap.String("id", user.ID), zap.String("email", user.Email))
}
