package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"trend-dashboard/pkg/services"

	"github.com/gin-gonic/gin"
)

const upstreamHealthTimeout = 3 * time.Second

// HealthHandler はヘルスチェックのハンドラです。
type HealthHandler struct {
	trendClient *services.TrendClient
}

// NewHealthHandler は新しいHealthHandlerを生成します。
func NewHealthHandler(trendClient *services.TrendClient) *HealthHandler {
	return &HealthHandler{
		trendClient: trendClient,
	}
}

// HealthCheck は外部のヘルスチェッカー（例: ロードバランサー）からのリクエストに応答します。
// 予測APIが停止していても、このサーバー自体は200を返します。
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamHealthTimeout)
	defer cancel()

	response := gin.H{
		"status":  "ok",
		"service": "Trend Dashboard",
	}

	upstream, err := h.trendClient.CheckHealth(ctx)
	if err != nil {
		log.Printf("⚠️ [Health] 予測APIのヘルスチェックに失敗: %v", err)
		response["upstream"] = "unavailable"
	} else {
		response["upstream"] = upstream.Status
		response["upstream_rows"] = upstream.Rows
	}

	c.JSON(http.StatusOK, response)
}
