package main

import (
	"os"
	"os/signal"
	"syscall"

	configs "github.com/surdiana/todoapi/config"
	"github.com/surdiana/todoapi/internal/handler"
	"github.com/surdiana/todoapi/internal/middleware"
	"github.com/surdiana/todoapi/internal/repository"
	"github.com/surdiana/todoapi/internal/router"
	"github.com/surdiana/todoapi/internal/service"
	"github.com/surdiana/todoapi/internal/token"
	"github.com/surdiana/todoapi/pkg/database"
	"github.com/surdiana/todoapi/pkg/logger"
	"github.com/surdiana/todoapi/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", "1.0.0"),
	)

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	// Run auto migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Seed initial data
	if err := database.Seed(db); err != nil {
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		// Don't fail - seed data may already exist
	} else {
		logger.GetLogger().Info("Database seeded successfully")
	}

	// Redis backs the statistics cache; the API stays up without it.
	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable, statistics caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	// Services
	codec := token.NewCodec(config.Token)
	sessionService := service.NewSessionService(userRepo, codec)
	registrationService := service.NewRegistrationService(userRepo, sessionService)
	userService := service.NewUserService(userRepo, todoRepo, redisClient)
	todoService := service.NewTodoService(todoRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(registrationService, sessionService)
	meHandler := handler.NewMeHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	todoHandler := handler.NewTodoHandler(todoService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(codec)

	r := router.NewRouter(
		authHandler,
		meHandler,
		userHandler,
		todoHandler,
		healthHandler,

		authMiddleware,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
