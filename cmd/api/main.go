package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"hirelens/resume-intel/internal/config"
	"hirelens/resume-intel/internal/handlers"
	"hirelens/resume-intel/internal/logger"
	"hirelens/resume-intel/internal/repositories"
	"hirelens/resume-intel/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env != "development", cfg.Server.Env == "development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	log.Info("database connected and migrated")

	// Repositories
	profileRepo := repositories.NewProfileRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)

	// Storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	// Gemini
	ctx := context.Background()
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal("failed to initialize gemini client", zap.Error(err))
	}
	log.Info("gemini client initialized", zap.String("model", cfg.Gemini.Model))

	// Candidate search index
	candidateIndex, err := services.NewCandidateIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatal("failed to initialize qdrant client", zap.Error(err))
	}

	if err := candidateIndex.InitCollection(); err != nil {
		log.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}
	log.Info("candidate index ready", zap.String("collection", cfg.Qdrant.Collection))

	// Pipeline
	fetcher := services.NewDocumentFetcher(storageService, cfg.Pipeline.FetchTimeout)
	extractor := services.NewFormatExtractor()
	textCache := services.NewTextCache(profileRepo, fetcher, extractor, log)
	generator := services.NewInsightGenerator(geminiService, log)
	insightService := services.NewInsightService(profileRepo, textCache, generator, candidateIndex, log)
	fitScorer := services.NewFitScorer(generator)
	ranker := services.NewRankingAggregator(
		jobRepo,
		appRepo,
		insightService,
		fitScorer,
		log,
		cfg.Pipeline.RankConcurrency,
	)

	// Handlers
	resumeHandler := handlers.NewResumeHandler(profileRepo, storageService, candidateIndex, cfg.Storage.MaxFileSize, log)
	insightHandler := handlers.NewInsightHandler(insightService)
	shortlistHandler := handlers.NewShortlistHandler(jobRepo, ranker)
	searchHandler := handlers.NewSearchHandler(candidateIndex)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Intelligence API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

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

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/profiles/:id/resume", resumeHandler.HandleUpload)
	api.Delete("/profiles/:id/resume", resumeHandler.HandleDelete)
	api.Post("/profiles/:id/insight", insightHandler.HandleGenerateInsight)
	api.Get("/jobs/:id/shortlist", shortlistHandler.HandleShortlist)
	api.Get("/candidates/search", searchHandler.HandleSearch)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
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
