package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"hiring-agent/internal/activitylog"
	"hiring-agent/internal/config"
	"hiring-agent/internal/handlers"
	"hiring-agent/internal/llm"
	"hiring-agent/internal/logger"
	"hiring-agent/internal/mailbox"
	"hiring-agent/internal/repositories"
	"hiring-agent/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zlog.Info("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	// Initialize repositories
	jobRepo := repositories.NewJobRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	linkRepo := repositories.NewLinkRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	zlog.Info("✅ Repositories initialized successfully")

	// Initialize LLM backend
	var chatClient llm.ChatClient
	switch cfg.LLM.Backend {
	case "gemini":
		chatClient, err = llm.NewGeminiClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
		if err != nil {
			zlog.Fatal("❌ Failed to initialize Gemini backend", zap.Error(err))
		}
	default:
		chatClient = llm.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	}
	zlog.Info("✅ LLM backend initialized",
		zap.String("backend", cfg.LLM.Backend),
		zap.String("model", cfg.LLM.Model))

	// Initialize mailbox provider
	var mb mailbox.Mailbox
	switch cfg.Mailbox.Provider {
	case "graph":
		mb = mailbox.NewGraphMailbox(cfg.Mailbox, zlog)
	default:
		mb = mailbox.NewIMAPMailbox(cfg.Mailbox, zlog)
	}
	zlog.Info("✅ Mailbox provider initialized", zap.String("provider", cfg.Mailbox.Provider))

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	docParser := services.NewDocumentParser(zlog)
	extractor := services.NewExtractorService(chatClient, cfg.LLM.Temperature, zlog)

	scoring, err := services.NewScoringEngine(cfg.Scoring)
	if err != nil {
		zlog.Fatal("❌ Invalid scoring configuration", zap.Error(err))
	}

	matcher := services.NewMatcherService(candidateRepo, jobRepo, linkRepo, cfg.AutoLink, zlog)
	intake := services.NewIntakeService(docParser, extractor, matcher, candidateRepo, storageService, zlog)
	ingestion := services.NewIngestionService(mb, intake, candidateRepo,
		cfg.Mailbox.AllowedExtensionsList(), zlog)
	analyzer := services.NewAnalyzerService(candidateRepo, jobRepo, analysisRepo,
		extractor, scoring, chatClient, zlog)

	activity := activitylog.New(activitylog.DefaultCapacity)
	syncService := services.NewSyncService(ingestion, analyzer, linkRepo, activity,
		cfg.Sync.Interval, zlog)
	zlog.Info("✅ Services initialized successfully")

	// Start the sync scheduler
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if cfg.Sync.Enabled {
		go syncService.Run(schedulerCtx)
		zlog.Info("✅ Sync scheduler started", zap.Duration("interval", cfg.Sync.Interval))
	}

	// Initialize handlers
	candidateHandler := handlers.NewCandidateHandler(intake, analyzer, candidateRepo,
		linkRepo, cfg.Storage.MaxFileSize)
	jobHandler := handlers.NewJobHandler(jobRepo, analyzer)
	syncHandler := handlers.NewSyncHandler(syncService, activity)
	zlog.Info("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Hiring Agent API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/jobs", jobHandler.HandleCreateJob)
	api.Get("/jobs", jobHandler.HandleListJobs)
	api.Get("/jobs/:id/rankings", jobHandler.HandleRankings)
	api.Get("/jobs/:id/report", jobHandler.HandleReport)

	api.Post("/candidates/upload", candidateHandler.HandleUpload)
	api.Get("/candidates", candidateHandler.HandleListCandidates)
	api.Get("/candidates/:id", candidateHandler.HandleGetCandidate)
	api.Post("/candidates/:id/analyze", candidateHandler.HandleAnalyze)
	api.Get("/candidates/:id/interview-strategy", candidateHandler.HandleInterviewStrategy)

	api.Post("/sync", syncHandler.HandleTriggerSync)
	api.Get("/activity", syncHandler.HandleActivity)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Hiring Agent API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/jobs",
				"GET /api/v1/jobs",
				"GET /api/v1/jobs/:id/rankings",
				"GET /api/v1/jobs/:id/report",
				"POST /api/v1/candidates/upload",
				"GET /api/v1/candidates",
				"GET /api/v1/candidates/:id",
				"POST /api/v1/candidates/:id/analyze",
				"GET /api/v1/candidates/:id/interview-strategy",
				"POST /api/v1/sync",
				"GET /api/v1/activity",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("🛑 Shutting down server...")
		stopScheduler()
		if err := app.Shutdown(); err != nil {
			zlog.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
