package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/api"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/router"
	"github.com/recipebox/backend/internal/server"
	"github.com/recipebox/backend/internal/service"
	"github.com/recipebox/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Upload rate limiting is only active when Redis is configured.
	var uploadLimiter *middleware.RateLimiter
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		uploadLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Hour,
			Limit:     30,
			KeyPrefix: "upload",
		})
	}

	// Images go to S3 when a bucket is configured, local disk otherwise.
	var imageStore service.ImageStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		imageStore = s3Store
	} else {
		imageStore = storage.NewLocalStore(cfg.MediaDir)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)
	recipeService := service.NewRecipeService(db)
	imageService := service.NewImageService(db, imageStore)

	engine := router.SetupRouter(
		api.NewUserHandler(authService),
		api.NewTagHandler(tagService),
		api.NewIngredientHandler(ingredientService),
		api.NewRecipeHandler(recipeService, imageService),
		authService,
		uploadLimiter,
		cfg.AllowedOrigins,
	)

	srv := server.New(cfg, engine)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
