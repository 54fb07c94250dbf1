package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/DahliaNoir71/chatbot-horror-movies/config"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/auth"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/chat"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/intent"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/llm"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/ratelimit"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/retrieval"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/session"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/store"
	v1 "github.com/DahliaNoir71/chatbot-horror-movies/internal/transport/http/v1"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting horror chatbot service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM URL: %s (model %s)", cfg.LLMURL, cfg.LLMModel)
	log.Printf("Vector backend: %s", cfg.VectorBackend)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize the vector index backend
	ctx := context.Background()
	var index retrieval.Index
	switch cfg.VectorBackend {
	case "qdrant":
		index = retrieval.NewQdrantIndex(retrieval.QdrantConfig{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
	default:
		memIndex, err := retrieval.LoadMemoryIndex(ctx, db)
		if err != nil {
			log.Fatalf("Failed to load document corpus: %v", err)
		}
		index = memIndex
	}
	engine := retrieval.NewEngine(index)
	embedder := retrieval.NewHTTPEmbedder(cfg.EmbedderURL, cfg.EmbedderAPIKey, cfg.EmbedderModel, cfg.RetrievalTimeout)

	// Initialize LLM client
	llmClient := llm.NewClient(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)

	// Initialize intent routing
	classifier := intent.NewHTTPClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout)
	router := intent.NewRouter(classifier)

	// Initialize sessions and assembler
	sessions := session.NewManager(db, cfg.MaxHistory)
	chatSvc := chat.NewService(sessions, router, engine, embedder, llmClient, db, chat.Options{
		MatchCount:          cfg.MatchCount,
		SimilarityThreshold: cfg.SimilarityThreshold,
		RetrievalTimeout:    cfg.RetrievalTimeout,
		GenerationTimeout:   cfg.LLMTimeout,
	})

	// Initialize auth and rate limiting
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	limiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute)

	// Initialize handler
	h := v1.NewHandler(chatSvc, sessions, issuer, limiter, cfg)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Service stopped")
}
