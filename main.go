package main

import (
	"examhub/config"
	"examhub/handlers"
	"examhub/middleware"
	"examhub/models"
	"examhub/repository"
	"examhub/routes"
	"examhub/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.NewLogger("examhub", cfg.LogLevel)

	// Initialize database
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Test{},
		&models.TestAttempt{},
		&models.Question{},
		&models.MCQOption{},
		&models.TheoryDetail{},
		&models.CodingDetail{},
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("Failed to access connection pool")
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewTokenStore(redisClient),
		cfg.JWTSecret,
		cfg.JWTExpiry,
		log,
	)
	profileService := services.NewProfileService(repository.NewProfileRepository(db))
	testService := services.NewTestService(repository.NewTestRepository(db))
	questionService := services.NewQuestionService(repository.NewQuestionRepository(db), log)

	// Initialize handlers
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Profile:  handlers.NewProfileHandler(profileService),
		Test:     handlers.NewTestHandler(testService),
		Question: handlers.NewQuestionHandler(questionService, testService),
	}

	metrics := middleware.NewMetrics("examhub")
	metrics.WatchDB(sqlDB, cfg.DBName)

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		metrics.Middleware(),
		middleware.CORS(cfg.AllowedOrigins),
	)

	routes.SetupRoutes(router, cfg.APIPrefix, h, authService, metrics, log)

	// Start server
	log.WithField("addr", cfg.Addr()).Info("Server starting")
	if err := router.Run(cfg.Addr()); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}
