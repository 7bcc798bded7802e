package main

import (
	"context"
	"log"

	"github.com/Fakhir-Israr-200219/auth-service/config"
	"github.com/Fakhir-Israr-200219/auth-service/db"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/handler"
	repo "github.com/Fakhir-Israr-200219/auth-service/internal/auth/repository/postgres"
	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/service"
	"github.com/Fakhir-Israr-200219/auth-service/internal/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	tokenService, err := service.NewTokenService(cfg.JWT)
	if err != nil {
		zlog.Fatal("failed to build token service", zap.Error(err))
	}

	userRepo := repo.NewPostgresUserRepository(dbPool)
	userService := service.NewUserService(userRepo, tokenService, service.NewBcryptHasher(), zlog)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	zlog.Info("starting server", zap.String("port", cfg.Port))

	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
