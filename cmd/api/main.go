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
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/api/handlers"
	"github.com/instabio/backend/internal/biography"
	"github.com/instabio/backend/internal/cache/redis"
	"github.com/instabio/backend/internal/journal"
	"github.com/instabio/backend/internal/kg/builder"
	"github.com/instabio/backend/internal/kg/neo4j"
	"github.com/instabio/backend/internal/llm"
	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/internal/middleware/ratelimit"
	"github.com/instabio/backend/internal/middleware/security"
	"github.com/instabio/backend/internal/middleware/validation"
	"github.com/instabio/backend/internal/pipeline"
	"github.com/instabio/backend/internal/soul"
	"github.com/instabio/backend/internal/storage/sqlite"
	"github.com/instabio/backend/internal/vector/milvus"
	"github.com/instabio/backend/pkg/config"
	appLogger "github.com/instabio/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting InstaBio API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Redis, Neo4j and Milvus are optional backends: the platform runs
	// without them, just with caching, graph and semantic recall off.
	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, extraction caching disabled", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	var kgClient *neo4j.Client
	if cfg.Neo4j.Enabled {
		kgClient, err = neo4j.NewClient(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password)
		if err != nil {
			appLogger.Warn("Neo4j unavailable, knowledge graph disabled", zap.Error(err))
			kgClient = nil
		} else {
			defer kgClient.Close(context.Background())
		}
	}

	var vectorClient *milvus.Client
	if cfg.Milvus.Enabled {
		vectorClient, err = milvus.NewClient(cfg.Milvus.Endpoint, cfg.Milvus.CollectionName, cfg.Milvus.VectorDim)
		if err != nil {
			appLogger.Warn("Milvus unavailable, semantic recall disabled", zap.Error(err))
			vectorClient = nil
		} else {
			defer vectorClient.Close()
			if err := vectorClient.CreateCollection(context.Background()); err != nil {
				appLogger.Warn("Failed to ensure Milvus collection", zap.Error(err))
			}
		}
	}

	var llmClient llm.Generator
	if cfg.LLM.Provider == "openai" {
		llmClient = llm.NewClient(
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			cfg.LLM.EmbeddingModel,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
		)
	} else {
		appLogger.Info("Using mock LLM provider")
		llmClient = llm.NewMock(cfg.LLM.EmbeddingDim)
	}

	var kgBuilder *builder.Builder
	if kgClient != nil {
		kgBuilder = builder.NewBuilder(kgClient)
	}

	processor := pipeline.NewProcessor(sqliteClient, cacheClient, kgBuilder, cfg.Pipeline.Workers)
	soulService := soul.NewService(llmClient, vectorClient, cfg.Soul.ChunkSize, cfg.Soul.TopK)
	biographyGenerator := biography.NewGenerator(llmClient)
	journalGenerator := journal.NewGenerator(llmClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 120,
		Logger:               appLogger.GetLogger(),
	})
	defer rateLimiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))
	app.Use(rateLimiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	extractionHandler := handlers.NewExtractionHandler()
	transcriptHandler := handlers.NewTranscriptHandler(sqliteClient)
	pipelineHandler := handlers.NewPipelineHandler(processor, sqliteClient)
	timelineHandler := handlers.NewTimelineHandler(sqliteClient)
	journalHandler := handlers.NewJournalHandler(journalGenerator, sqliteClient)
	biographyHandler := handlers.NewBiographyHandler(biographyGenerator, sqliteClient)
	soulHandler := handlers.NewSoulHandler(soulService, sqliteClient)
	kgHandler := handlers.NewKGHandler(kgClient)
	wsHandler := handlers.NewWebSocketHandler(soulService)

	api := app.Group("/api/v1")

	api.Post("/extract", extractionHandler.Extract)
	api.Post("/extract/batch", extractionHandler.ExtractBatch)

	api.Post("/transcripts", transcriptHandler.Upload)
	api.Get("/transcripts", transcriptHandler.List)

	api.Post("/process", pipelineHandler.Process)
	api.Get("/process/status", pipelineHandler.Status)

	api.Get("/timeline", timelineHandler.Get)

	api.Post("/journal/generate", journalHandler.Generate)
	api.Get("/journal", journalHandler.Get)
	api.Get("/journal/entry", journalHandler.GetByDate)

	api.Post("/biography/generate", biographyHandler.Generate)
	api.Get("/biography", biographyHandler.GetLatest)

	api.Get("/soul/status", soulHandler.Status)
	api.Post("/soul/activate", soulHandler.Activate)
	api.Post("/soul/chat", soulHandler.Chat)

	api.Get("/kg/network", kgHandler.PersonNetwork)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/soul", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
