package services

import (
	"fmt"
	"math"

	"trend-dashboard/pkg/models"
)

// 傾きが平均値のこの割合以下なら横ばいとみなす
const flatSlopeRatio = 0.01

// StatisticsService 予測系列の統計サービス
type StatisticsService struct{}

// NewStatisticsService 新しい統計サービスを作成
func NewStatisticsService() *StatisticsService {
	return &StatisticsService{}
}

// SummarizeForecast 予測系列の基本統計と傾向を計算
// 2点未満の場合は回帰できないため nil を返す
func (s *StatisticsService) SummarizeForecast(points []models.ForecastPoint) *models.ForecastSummary {
	if len(points) < 2 {
		return nil
	}

	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = float64(i)
		y[i] = p.Value
	}

	slope, intercept, rSquared, err := s.PerformLinearRegression(x, y)
	if err != nil {
		return nil
	}

	summary := &models.ForecastSummary{
		Points:    len(points),
		Mean:      calculateMean(y),
		StdDev:    calculateStandardDeviation(y),
		Min:       y[0],
		Max:       y[0],
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
	}
	for _, v := range y[1:] {
		summary.Min = math.Min(summary.Min, v)
		summary.Max = math.Max(summary.Max, v)
	}
	summary.Direction = trendDirection(slope, summary.Mean)
	return summary
}

// PerformLinearRegression 最小二乗法で傾き・切片・決定係数を計算
func (s *StatisticsService) PerformLinearRegression(x, y []float64) (slope, intercept, rSquared float64, err error) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, 0, 0, fmt.Errorf("データ系列の長さが一致しないか、データ数が不足しています")
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumX2 float64
	for i := 0; i < len(x); i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0, 0, 0, fmt.Errorf("分母が0になりました（xの分散が0）")
	}

	// 傾き（slope）の計算
	slope = (n*sumXY - sumX*sumY) / denominator

	// 切片（intercept）の計算
	intercept = (sumY - slope*sumX) / n

	// R²（決定係数）の計算
	meanY := sumY / n
	var ssTotal, ssResidual float64
	for i := 0; i < len(x); i++ {
		predicted := slope*x[i] + intercept
		ssTotal += (y[i] - meanY) * (y[i] - meanY)
		ssResidual += (y[i] - predicted) * (y[i] - predicted)
	}
	// 一定値の系列は直線で完全に説明できる
	rSquared = 1
	if ssTotal != 0 {
		rSquared = 1 - ssResidual/ssTotal
	}

	return slope, intercept, rSquared, nil
}

func trendDirection(slope, mean float64) string {
	if math.Abs(slope) <= flatSlopeRatio*math.Abs(mean) {
		return models.DirectionFlat
	}
	if slope > 0 {
		return models.DirectionRising
	}
	return models.DirectionFalling
}

// calculateMean パッケージ内部用のヘルパー関数：平均値を計算
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateStandardDeviation パッケージ内部用のヘルパー関数：標準偏差を計算
func calculateStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := calculateMean(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}
