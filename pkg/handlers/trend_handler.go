package handlers

import (
	"errors"
	"log"
	"net/http"

	"trend-dashboard/internal/views"
	"trend-dashboard/pkg/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TrendHandler 予測データAPIハンドラー
type TrendHandler struct {
	trendClient   *services.TrendClient
	exportService *services.ExportService
}

// NewTrendHandler 新しい予測データAPIハンドラーを作成
func NewTrendHandler(trendClient *services.TrendClient, exportService *services.ExportService) *TrendHandler {
	return &TrendHandler{
		trendClient:   trendClient,
		exportService: exportService,
	}
}

// GetTrends 正規化済みの予測データを返す
func (th *TrendHandler) GetTrends(c *gin.Context) {
	data, err := th.trendClient.FetchTrends(c.Request.Context())
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// ExportTrends 予測データをExcelファイルとしてダウンロードさせる
func (th *TrendHandler) ExportTrends(c *gin.Context) {
	data, err := th.trendClient.FetchTrends(c.Request.Context())
	if err != nil {
		respondFetchError(c, err)
		return
	}

	buf, err := th.exportService.BuildWorkbook(data)
	if err != nil {
		log.Printf("❌ [Export] ブックの生成に失敗: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Excelファイルの生成に失敗しました。",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="trends.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetProductDetails 製品詳細をそのまま中継する
func (th *TrendHandler) GetProductDetails(c *gin.Context) {
	productName := c.Param("name")

	details := th.trendClient.FetchProductDetails(c.Request.Context(), productName)
	if details == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "製品詳細を取得できませんでした: " + productName,
		})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", details)
}

// respondFetchError は分類済みの取得失敗をJSONで返します。
func respondFetchError(c *gin.Context, err error) {
	body := gin.H{
		"success": false,
		"message": views.NotificationMessage(err),
	}

	var fetchErr *services.FetchError
	if errors.As(err, &fetchErr) {
		body["error"] = string(fetchErr.Kind)
		if fetchErr.StatusCode != 0 {
			body["status"] = fetchErr.StatusCode
		}
	} else {
		body["error"] = views.LoadFailedHeadline
	}

	c.JSON(http.StatusBadGateway, body)
}
