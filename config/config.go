// Package config provides configuration for the chatbot service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Auth
	JWTSecret    string
	TokenTTL     time.Duration
	AuthUsername string
	AuthPassword string

	// LLM (generation capability)
	LLMURL     string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Classifier (classification capability)
	ClassifierURL     string
	ClassifierTimeout time.Duration

	// Embedding capability
	EmbedderURL    string
	EmbedderAPIKey string
	EmbedderModel  string

	// Retrieval
	VectorBackend       string // memory or qdrant
	QdrantURL           string
	QdrantAPIKey        string
	QdrantCollection    string
	MatchCount          int
	SimilarityThreshold float64
	RetrievalTimeout    time.Duration

	// Sessions
	MaxHistory int

	// Rate limiting
	RateLimitPerMinute int

	// Logging
	LogLevel string
}

// Load loads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8000),
		DatabaseURL:         getEnv("DATABASE_URL", "file:horrorbot.db?cache=shared&mode=rwc"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:            time.Duration(getEnvInt("JWT_EXPIRE_MINUTES", 30)) * time.Minute,
		AuthUsername:        getEnv("AUTH_USERNAME", "horrorbot"),
		AuthPassword:        getEnv("AUTH_PASSWORD", "scarymovies"),
		LLMURL:              getEnv("LLM_URL", "http://localhost:8080"),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		LLMModel:            getEnv("LLM_MODEL", "mistral-7b-instruct"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		ClassifierURL:       getEnv("CLASSIFIER_URL", "http://localhost:8090"),
		ClassifierTimeout:   time.Duration(getEnvInt("CLASSIFIER_TIMEOUT_MS", 5000)) * time.Millisecond,
		EmbedderURL:         getEnv("EMBEDDER_URL", "http://localhost:8091"),
		EmbedderAPIKey:      getEnv("EMBEDDER_API_KEY", ""),
		EmbedderModel:       getEnv("EMBEDDER_MODEL", "all-MiniLM-L6-v2"),
		VectorBackend:       getEnv("VECTOR_BACKEND", "memory"),
		QdrantURL:           getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:        getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:    getEnv("QDRANT_COLLECTION", "horrorbot_documents"),
		MatchCount:          getEnvInt("RAG_MATCH_COUNT", 5),
		SimilarityThreshold: getEnvFloat("RAG_SIMILARITY_THRESHOLD", 0.7),
		RetrievalTimeout:    time.Duration(getEnvInt("RETRIEVAL_TIMEOUT_MS", 3000)) * time.Millisecond,
		MaxHistory:          getEnvInt("MAX_HISTORY", 10),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
