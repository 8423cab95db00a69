package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aegisai/backend/internal/agent"
	"github.com/aegisai/backend/internal/client"
	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/db"
	"github.com/aegisai/backend/internal/executor"
	"github.com/aegisai/backend/internal/handler"
	"github.com/aegisai/backend/internal/service"
)

const version = "1.0.0"

// @title AegisAI Security Backend API
// @version 1.0
// @description AI security camera incident response API
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("📋 No .env file found, using system environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// --- 데이터베이스 ---
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Postgres: %v", err)
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureIncidentSchema(ctx); err != nil {
		log.Fatalf("❌ Failed to ensure incident schema: %v", err)
	}
	if err := store.EnsureWebhookSchema(ctx); err != nil {
		log.Fatalf("❌ Failed to ensure webhook schema: %v", err)
	}

	// pgvector 확장이 없으면 유사 incident 검색만 비활성화하고 계속 기동
	embeddingsReady := true
	if err := store.EnsureEmbeddingSchema(ctx); err != nil {
		log.Printf("⚠️ Embedding schema unavailable, similarity search disabled: %v", err)
		embeddingsReady = false
	}

	// --- 외부 클라이언트 ---
	genaiClient, err := client.NewGenAIClient(cfg.Gemini)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini client: %v", err)
	}

	slackClient := client.NewSlackClient(cfg.Slack)
	emailClient := client.NewEmailClient(cfg.Alert)
	twilioClient := client.NewTwilioClient(cfg.Alert)

	// --- 에이전트 / 실행기 ---
	vision := agent.NewVisionAgent(genaiClient, agent.VisionAgentOptions{
		ConfidenceThreshold: cfg.Gemini.ConfidenceThreshold,
	})
	planner := agent.NewPlannerAgent(genaiClient)
	actionExecutor := executor.NewActionExecutor(store, emailClient, twilioClient, slackClient, cfg.Alert)

	// --- 서비스 ---
	incidentSvc := service.NewIncidentService(store)
	webhookSvc := service.NewWebhookService(store)
	deliverySvc := service.NewWebhookDeliveryService(store)

	var embeddingSvc *service.EmbeddingService
	if embeddingsReady {
		embeddingSvc = service.NewEmbeddingService(genaiClient, store)
	}

	var analysisSvc *service.AnalysisService
	var incidentHandler *handler.IncidentHandler
	if embeddingSvc != nil {
		analysisSvc = service.NewAnalysisService(vision, planner, actionExecutor, store, embeddingSvc, deliverySvc, cfg.Storage)
		incidentHandler = handler.NewIncidentHandler(incidentSvc, embeddingSvc, cfg.Storage.MaxEvidenceAgeDays)
	} else {
		analysisSvc = service.NewAnalysisService(vision, planner, actionExecutor, store, nil, deliverySvc, cfg.Storage)
		incidentHandler = handler.NewIncidentHandler(incidentSvc, nil, cfg.Storage.MaxEvidenceAgeDays)
	}

	// 운영자 계정이 설정되지 않으면 관리 API를 보호 없이 노출하므로 경고만 남김
	authSvc, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		log.Printf("⚠️ Auth disabled (%v) - management endpoints are unprotected", err)
		authSvc = nil
	}

	// --- 핸들러 / 라우터 ---
	healthHandler := handler.NewHealthHandler(pool, true, version)
	analyzeHandler := handler.NewAnalyzeHandler(analysisSvc)
	statsHandler := handler.NewStatsHandler(incidentSvc, vision, planner)
	webhookHandler := handler.NewWebhookSettingsHandler(webhookSvc)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins))

	router.GET("/", healthHandler.Root)
	router.GET("/ping", healthHandler.Ping)
	router.GET("/api/openapi.json", handler.OpenAPIDoc)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.POST("/analyze", analyzeHandler.Analyze)

		api.GET("/incidents", incidentHandler.List)
		api.GET("/incidents/:id", incidentHandler.Get)
		api.GET("/incidents/:id/actions", incidentHandler.Actions)
		api.GET("/incidents/:id/similar", incidentHandler.Similar)

		api.GET("/stats", statsHandler.Stats)
		api.GET("/stats/trend", statsHandler.Trend)
		api.GET("/agents/stats", statsHandler.AgentStats)
	}

	manage := router.Group("/api")
	if authSvc != nil {
		authHandler := handler.NewAuthHandler(authSvc)
		router.POST("/api/auth/login", authHandler.Login)
		manage.Use(handler.AuthMiddleware(authSvc))
	}
	{
		manage.PUT("/incidents/:id/status", incidentHandler.UpdateStatus)
		manage.POST("/incidents/cleanup", incidentHandler.Cleanup)

		manage.GET("/settings/webhooks", webhookHandler.ListWebhookConfigs)
		manage.GET("/settings/webhooks/:id", webhookHandler.GetWebhookConfig)
		manage.POST("/settings/webhooks", webhookHandler.CreateWebhookConfig)
		manage.PUT("/settings/webhooks/:id", webhookHandler.UpdateWebhookConfig)
		manage.DELETE("/settings/webhooks/:id", webhookHandler.DeleteWebhookConfig)
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("🚀 AegisAI backend listening on %s (model: %s)", addr, cfg.Gemini.Model)
	if err := router.Run(addr); err != nil {
		log.Fatalf("❌ Server exited: %v", err)
	}
}
