package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	config "trend-dashboard/configs"
	"trend-dashboard/internal/views"
	"trend-dashboard/pkg/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	cfg := config.LoadConfig()

	fmt.Println("=== 予測API 疎通確認 ===")
	fmt.Printf("接続先: %s (timeout: %v)\n", cfg.PredictionAPIBaseURL, cfg.PredictionAPITimeout)

	client := services.NewTrendClient(cfg.PredictionAPIBaseURL, cfg.PredictionAPITimeout)
	data, err := client.FetchTrends(context.Background())
	if err != nil {
		fmt.Printf("\n取得失敗: %s\n", views.NotificationMessage(err))
		os.Exit(1)
	}

	fmt.Printf("\n予測数: %d件\n", len(data.Predictions))
	labels := make([]string, 0, len(data.Predictions))
	for label := range data.Predictions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("  %-60s %s\n", label, data.Predictions[label])
	}

	fmt.Printf("\n予測系列: %d点\n", len(data.Forecasts))
	for _, point := range data.Forecasts {
		fmt.Printf("  %s  %.1f\n", point.Date, point.Value)
	}
	if summary := services.NewStatisticsService().SummarizeForecast(data.Forecasts); summary != nil {
		fmt.Printf("  傾向: %s (傾き %+.2f / R² %.3f / 平均 %.1f ± %.1f)\n",
			summary.Direction, summary.Slope, summary.RSquared, summary.Mean, summary.StdDev)
	}

	fmt.Printf("\n感情スコア: avg=%.3f (%d%%) 分析件数=%d\n",
		data.Sentiment.Avg, views.SentimentPercent(data.Sentiment.Avg), data.Sentiment.TotalAnalyzed)
	fmt.Printf("キーワード数: %d件\n", len(data.WordCloudData))
	fmt.Printf("トレンド: %d件 / 非トレンド: %d件\n", len(data.TrendingProducts), len(data.NonTrendingProducts))

	fmt.Println("\n=== 確認完了 ===")
}
