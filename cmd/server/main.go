package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flexiflight/internal/airports"
	"github.com/dharmasatrya/flexiflight/internal/analysis"
	"github.com/dharmasatrya/flexiflight/internal/cache"
	"github.com/dharmasatrya/flexiflight/internal/dates"
	"github.com/dharmasatrya/flexiflight/internal/handler"
	"github.com/dharmasatrya/flexiflight/internal/interpreter"
	"github.com/dharmasatrya/flexiflight/internal/llm"
	"github.com/dharmasatrya/flexiflight/internal/ratelimit"
	"github.com/dharmasatrya/flexiflight/internal/search"
)

type Config struct {
	Port         string
	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	RedisTTL     time.Duration
	SerpAPIKey   string
	LLMEndpoint  string
	LLMModel     string
	LLMTimeout   time.Duration
}

func main() {
	cfg := loadConfig()
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	rateLimiter := ratelimit.NewServiceLimiter(
		ratelimit.Config{RequestsPerSecond: 10, BurstSize: 20},
		map[string]ratelimit.Config{
			"llm":     {RequestsPerSecond: 5, BurstSize: 10},
			"serpapi": {RequestsPerSecond: 2, BurstSize: 5},
		},
	)

	llmClient := llm.NewClient(
		llm.WithEndpoint(cfg.LLMEndpoint),
		llm.WithModel(cfg.LLMModel),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
		llm.WithLimiter(rateLimiter),
	)

	resolver := airports.NewResolver(llmClient)
	normalizer := dates.NewNormalizer(llmClient)
	interp := interpreter.New(llmClient, resolver, normalizer)

	var searchCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		searchCache = redisCache
		log.Printf("Redis cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
	} else {
		searchCache = cache.NewNoOpCache()
		log.Println("Cache disabled")
	}

	serpClient := search.NewSerpAPIClient(cfg.SerpAPIKey, search.WithLimiter(rateLimiter))
	searcher := search.NewSearcher(searchCache, serpClient)
	analyzer := analysis.NewAnalyzer(llmClient)

	searchHandler := handler.NewSearchHandler(interp, searcher, analyzer)

	api := e.Group("/api/v1")
	api.POST("/flights/interpret", searchHandler.Interpret)
	api.POST("/flights/search", searchHandler.Search)
	e.GET("/health", handler.HealthHandler)

	log.Printf("Starting flight interpretation server on port %s", cfg.Port)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		CacheEnabled: getEnvBool("CACHE_ENABLED", true),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		RedisTTL:     getEnvDuration("REDIS_TTL", 15*time.Minute),
		SerpAPIKey:   getEnv("SERPAPI_KEY", ""),
		LLMEndpoint:  getEnv("LLM_ENDPOINT", "http://localhost:8000/v1/chat/completions"),
		LLMModel:     getEnv("LLM_MODEL", "Qwen/Qwen3-1.7B"),
		LLMTimeout:   getEnvDuration("LLM_TIMEOUT", 30*time.Second),
	}

	if cfg.SerpAPIKey == "" {
		log.Println("SERPAPI_KEY is not set; provider searches will fail")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
