package handlers

import (
	"net/http"

	"trend-dashboard/pkg/services"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler は予測API取得状況のモニタリングハンドラです。
type MonitoringHandler struct {
	Service *services.MonitoringService
}

// NewMonitoringHandler は新しいMonitoringHandlerを生成します。
func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{
		Service: service,
	}
}

// GetFetchStats は集計された取得結果を返します。
func (h *MonitoringHandler) GetFetchStats(c *gin.Context) {
	periodStr := c.DefaultQuery("period", "24h")
	var hours int

	switch periodStr {
	case "1h":
		hours = 1
	case "24h":
		hours = 24
	case "7d":
		hours = 24 * 7
	default:
		hours = 24
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.Service.GetFetchStats(hours),
	})
}
