package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ct-assessment/internal/adapter"
	"ct-assessment/internal/adapter/googleapi"
	"ct-assessment/internal/adapter/quizgen"
	"ct-assessment/internal/config"
	"ct-assessment/internal/domain"
	"ct-assessment/internal/handler"
	"ct-assessment/internal/logger"
	"ct-assessment/internal/middleware"
	"ct-assessment/internal/repository"
	"ct-assessment/internal/service"
	"ct-assessment/internal/storage"
	"ct-assessment/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to Redis, the durable key-value store behind every
	// repository and setting.
	redisClient, err := storage.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	store := adapter.NewRedisStorageAdapter(redisClient)

	// Initialize repositories
	questionStore := repository.NewQuestionStore(store)
	resultArchive := repository.NewResultArchive(store)

	// Google connection and remote clients. The OAuth token lives only in
	// memory; the administrator reconnects after every restart.
	googleConn := service.NewGoogleConnection(store, cfg.Google)
	sheetsClient := googleapi.NewSheetsClient()
	driveClient := googleapi.NewDriveClient()

	backup := service.NewBackupSynchronizer(
		sheetsClient,
		googleConn,
		store,
		cfg.Google.SpreadsheetTitle,
		cfg.Google.CallTimeout,
	)

	// Optional AI question generation. The rest of the application works
	// without it; the generate endpoint just reports it as unavailable.
	var generator domain.QuestionGenerator
	if cfg.Gemini.APIKey != "" {
		model, err := googleai.New(context.Background(),
			googleai.WithAPIKey(cfg.Gemini.APIKey),
			googleai.WithDefaultModel(cfg.Gemini.Model),
		)
		if err != nil {
			appLogger.Fatal("Failed to create Gemini client", zap.Error(err))
		}
		generator, err = quizgen.NewGeminiQuestionGenerator(model, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create question generator", zap.Error(err))
		}
		appLogger.Info("Question generator initialized", zap.String("model", cfg.Gemini.Model))
	} else {
		appLogger.Info("GEMINI_API_KEY not set; question generation disabled")
	}

	// Initialize services
	sessionService := service.NewSessionService(questionStore, resultArchive, backup)
	exportService := service.NewExportService(resultArchive, driveClient, googleConn)
	settingsService := service.NewSettingsService(store)
	authoringService := service.NewAuthoringService(questionStore, generator)
	adminAuthService, err := service.NewAdminAuthService(store, cfg.Admin)
	if err != nil {
		appLogger.Fatal("Failed to create AdminAuthService", zap.Error(err))
	}

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService, validation.NewValidator())
	questionHandler := handler.NewQuestionHandler(authoringService)
	adminHandler := handler.NewAdminHandler(adminAuthService, exportService, resultArchive, settingsService, googleConn)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	// Session routes (the examinee-facing flow is unauthenticated)
	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.Post("/", sessionHandler.Create)
	sessionGroup.Get("/:id", sessionHandler.Get)
	sessionGroup.Post("/:id/intake", sessionHandler.BeginIntake)
	sessionGroup.Put("/:id/examiner", sessionHandler.SetExaminer)
	sessionGroup.Post("/:id/start", sessionHandler.Start)
	sessionGroup.Put("/:id/answer", sessionHandler.Answer)
	sessionGroup.Post("/:id/advance", sessionHandler.Advance)
	sessionGroup.Post("/:id/restart", sessionHandler.Restart)

	// The homepage content is shown on the welcome screen, so reading it
	// is public; writing it is admin-only below.
	apiGroup.Get("/homepage", adminHandler.GetHomepage)

	// Admin routes
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Post("/login", adminHandler.Login)
	// OAuth redirect target; Google calls it without a bearer token.
	adminGroup.Get("/google/callback", adminHandler.Callback)

	protected := adminGroup.Group("", middleware.AdminProtected(adminAuthService))
	protected.Put("/password", adminHandler.ChangePassword)
	protected.Get("/results", adminHandler.ListResults)
	protected.Get("/results/export", adminHandler.ExportCSV)
	protected.Post("/results/upload", adminHandler.UploadToDrive)
	protected.Put("/homepage", adminHandler.SaveHomepage)
	protected.Get("/questions", questionHandler.List)
	protected.Post("/questions", questionHandler.Upsert)
	protected.Delete("/questions/:id", questionHandler.Remove)
	protected.Post("/questions/generate", questionHandler.Generate)
	protected.Get("/google/status", adminHandler.Status)
	protected.Put("/google/client-id", adminHandler.SetClientID)
	protected.Delete("/google/client-id", adminHandler.ResetClientID)
	protected.Delete("/google/connection", adminHandler.Disconnect)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	// Let in-flight backup mirrors finish before the process exits.
	sessionService.Wait()
	appLogger.Info("Server exited gracefully")
}
