package main

import (
	"context"
	"crypto/sha256"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/ai"
	"github.com/saglikasistani/backend/internal/audit"
	"github.com/saglikasistani/backend/internal/cache"
	"github.com/saglikasistani/backend/internal/config"
	"github.com/saglikasistani/backend/internal/directory"
	"github.com/saglikasistani/backend/internal/handler"
	"github.com/saglikasistani/backend/internal/mail"
	"github.com/saglikasistani/backend/internal/middleware"
	"github.com/saglikasistani/backend/internal/notify"
	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/internal/security"
	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/internal/storage"
	"github.com/saglikasistani/backend/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	// Initialize database connection pool with pgx
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Redis cache is optional; a failed connection degrades to direct reads
	var redisCache *cache.Cache
	if c, err := cache.New(ctx, cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, caching disabled", zap.Error(err))
	} else {
		redisCache = c
		defer redisCache.Close()
	}

	// Initialize AI and storage clients
	aiClient, err := ai.NewClient(
		cfg.Azure.OpenAI.Endpoint,
		cfg.Azure.OpenAI.APIKey,
		cfg.Azure.OpenAI.Deployment,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize AI client", zap.Error(err))
	}

	blobClient, err := storage.NewBlobClient(
		cfg.Azure.Storage.AccountName,
		cfg.Azure.Storage.AccountKey,
		cfg.Azure.Storage.ImageContainer,
		cfg.Azure.Storage.ProfileContainer,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize blob storage client", zap.Error(err))
	}

	// Derive the 32-byte field encryption key from the signing secret
	encryptionKey := sha256.Sum256([]byte(cfg.Auth.JWTSecret))
	encryptor, err := security.NewEncryptor(encryptionKey[:])
	if err != nil {
		logger.Fatal("Failed to initialize field encryptor", zap.Error(err))
	}

	tokenMaker := token.NewJWTMaker(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	mailer := mail.NewMailer(cfg.SMTP, logger)
	directoryClient := directory.NewClient(cfg.Pharmacy, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)
	sessionRepo := repository.NewSessionRepository(pool, logger)
	medicationRepo := repository.NewMedicationRepository(pool, logger)
	reminderRepo := repository.NewReminderRepository(pool, logger)
	chatRepo := repository.NewChatRepository(pool, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(pool, logger)
	emergencyRepo := repository.NewEmergencyRepository(pool, logger)
	auditLogger := audit.NewLogger(pool, logger)

	// Initialize services
	profileService := service.NewProfileService(profileRepo, userRepo, encryptor, redisCache, blobClient, logger)
	onboardingService := service.NewOnboardingService(sessionRepo, profileService, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, redisCache, cfg.Subscription, logger)
	chatService := service.NewChatService(chatRepo, profileService, subscriptionService, aiClient, blobClient, logger)
	reminderService := service.NewReminderService(reminderRepo, medicationRepo, logger)
	medicationService := service.NewMedicationService(medicationRepo, reminderService, logger)
	emergencyService := service.NewEmergencyService(emergencyRepo, logger)
	pharmacyService := service.NewPharmacyService(directoryClient, redisCache, logger)
	metricsService := service.NewMetricsService(chatRepo, reminderService, logger)
	authService := service.NewAuthService(userRepo, &service.UserDataRepos{
		Profiles:      profileRepo,
		Sessions:      sessionRepo,
		Medications:   medicationRepo,
		Reminders:     reminderRepo,
		Chats:         chatRepo,
		Subscriptions: subscriptionService,
		Emergency:     emergencyRepo,
	}, tokenMaker, mailer, blobClient, auditLogger, logger)

	// Start the reminder notification pipeline when a broker is configured
	if cfg.RabbitMQ.URL != "" {
		publisher, err := notify.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, reminder notifications disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			scheduler := notify.NewScheduler(reminderRepo, publisher, logger)
			go scheduler.Run(ctx)
		}
	}

	// Initialize handlers
	handlers := &handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Onboarding:   handler.NewOnboardingHandler(onboardingService),
		Profile:      handler.NewProfileHandler(profileService),
		Chat:         handler.NewChatHandler(chatService),
		Medication:   handler.NewMedicationHandler(medicationService),
		Reminder:     handler.NewReminderHandler(reminderService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Emergency:    handler.NewEmergencyHandler(emergencyService),
		Pharmacy:     handler.NewPharmacyHandler(pharmacyService),
		Metrics:      handler.NewMetricsHandler(metricsService),
		Tokens:       tokenMaker,
		Pool:         pool,
		Logger:       logger,
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Recovery must run before everything else
	r.Use(middleware.Recovery(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(logger))

	handlers.RegisterRoutes(r)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
