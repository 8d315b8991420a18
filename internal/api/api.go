package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Hemachandaranzz/students-wesite/internal/retention"
	"github.com/Hemachandaranzz/students-wesite/pkg/apikey"
	"github.com/Hemachandaranzz/students-wesite/pkg/contextwindow"
	"github.com/Hemachandaranzz/students-wesite/pkg/extract"
	"github.com/Hemachandaranzz/students-wesite/pkg/gateway"
	"github.com/Hemachandaranzz/students-wesite/pkg/orchestrator"
	"github.com/Hemachandaranzz/students-wesite/pkg/session"
	"github.com/Hemachandaranzz/students-wesite/pkg/utils"

	chat_module "github.com/Hemachandaranzz/students-wesite/internal/api/modules/chat"
	health_module "github.com/Hemachandaranzz/students-wesite/internal/api/modules/health"
	study_module "github.com/Hemachandaranzz/students-wesite/internal/api/modules/study"
	upload_module "github.com/Hemachandaranzz/students-wesite/internal/api/modules/upload"
)

func Start(cfg *utils.Config) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	// Build shared dependencies before taking any traffic
	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("[API-MAIN]: Failed to open session store: ", err)
	}

	gw, err := newGateway(cfg)
	if err != nil {
		log.Fatal("[API-MAIN]: Failed to create completion gateway: ", err)
	}

	keys := cfg.GetMap("API_KEYS")
	if len(keys) == 0 {
		log.Fatal("[API-MAIN]: API_KEYS not set in environment")
	}

	builder := &contextwindow.Builder{
		MaxTurns:  cfg.GetIntWithDefault("CONTEXT_MAX_TURNS", contextwindow.DefaultMaxTurns),
		MaxTokens: cfg.GetIntWithDefault("CONTEXT_MAX_TOKENS", contextwindow.DefaultMaxTokens),
	}
	orch := orchestrator.New(store, gw, builder, nil)

	// Idle sessions are only swept when a TTL is configured
	if ttlHours := cfg.GetInt("SESSION_TTL_HOURS"); ttlHours > 0 {
		sweeper, err := retention.NewSweeper(store, time.Duration(ttlHours)*time.Hour)
		if err != nil {
			log.Fatal("[API-MAIN]: Failed to start retention sweeper: ", err)
		}
		defer sweeper.Stop()
	}

	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(noRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", apikey.Header},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")
	auth := apikey.HeaderHandler(keys)

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)

	chat_module.Init(orch)
	chat_module.RegisterRoutes(baseGroup, auth)

	study_module.Init(gw)
	study_module.RegisterRoutes(baseGroup, auth)

	upload_module.Init(extract.NewRegistry())
	upload_module.RegisterRoutes(baseGroup, auth)

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}

// newStore opens the durable store when DATABASE_URL is set and falls back
// to the in-memory store otherwise
func newStore(cfg *utils.Config) (session.Store, error) {
	if url := cfg.Get("DATABASE_URL"); url != "" {
		return session.NewMySqlStore(url)
	}

	log.Println("[API-MAIN]: DATABASE_URL not set, sessions are kept in memory")
	return session.NewInMemoryStore(), nil
}

// newGateway builds the completion gateway named by GATEWAY_PROVIDER
func newGateway(cfg *utils.Config) (gateway.Client, error) {
	systemPrompt := utils.LoadPromptWithFallback(cfg.Get("SYSTEM_PROMPT_FILE"), defaultSystemPrompt)
	model := cfg.Get("GATEWAY_MODEL")

	switch provider := cfg.GetWithDefault("GATEWAY_PROVIDER", "gemini"); provider {
	case "gemini":
		key := cfg.Get("GEMINI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set in environment")
		}
		return gateway.NewGeminiClient(context.Background(), key, model, systemPrompt)
	case "openai":
		key := cfg.Get("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set in environment")
		}
		return gateway.NewOpenAIClient(key, model, systemPrompt)
	default:
		return nil, fmt.Errorf("unknown gateway provider: %s", provider)
	}
}

// noRouteHandler returns a JSON 404 for unknown paths
func noRouteHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "route not found"})
}
