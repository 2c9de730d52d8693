package router

import (
	"log"
	"net/http"

	config "trend-dashboard/configs"
	"trend-dashboard/internal/views"
	"trend-dashboard/pkg/handlers"
	"trend-dashboard/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter はサービスとハンドラを初期化し、ルーティングを登録したGinエンジンを返します。
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(views.Templates())

	// サービスの初期化
	monitoringService := services.NewMonitoringService()
	trendClient := services.NewTrendClient(cfg.PredictionAPIBaseURL, cfg.PredictionAPITimeout)
	trendClient.SetObserver(monitoringService)
	exportService := services.NewExportService()
	statisticsService := services.NewStatisticsService()

	log.Printf("🟢 [Router] 予測API: %s (timeout: %v)", trendClient.BaseURL(), cfg.PredictionAPITimeout)

	// ハンドラーの初期化
	dashboardHandler := handlers.NewDashboardHandler(trendClient, statisticsService, cfg.DefaultTheme)
	trendHandler := handlers.NewTrendHandler(trendClient, exportService)
	healthHandler := handlers.NewHealthHandler(trendClient)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(cors.Default())

	// ダッシュボード画面
	r.GET("/", dashboardHandler.ShowDashboard)
	r.POST("/theme/toggle", dashboardHandler.ToggleTheme)

	// ヘルスチェックエンドポイント
	r.GET("/health", healthHandler.HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(apiKeyAuth(cfg.APIKey))
	{
		trends := v1.Group("/trends")
		{
			trends.GET("", trendHandler.GetTrends)
			trends.GET("/export", trendHandler.ExportTrends)
		}

		v1.GET("/products/:name", trendHandler.GetProductDetails)

		// モニタリングAPI
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/fetches", monitoringHandler.GetFetchStats)
		}
	}

	return r
}

// apiKeyAuth はX-API-KEYヘッダーを検証する認証ミドルウェアです。
// キーが未設定またはデフォルト値の場合は認証を行いません。
func apiKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || apiKey == "default_secret_key" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
