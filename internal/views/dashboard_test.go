package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"trend-dashboard/pkg/models"
	"trend-dashboard/pkg/services"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() *models.PredictionResponse {
	return &models.PredictionResponse{
		Predictions: map[string]string{
			"Smart Watch": "Trending",
			"Air Fryer":   "Not Trending",
		},
		Products: []models.ProductPrediction{
			{ProductName: "Smart Watch"},
			{ProductName: "Air Fryer"},
		},
		TrendingProducts: []models.ProductPrediction{
			{ProductName: "Smart Watch", PredictedTrend: "Trending", Score: 0.8123, Confidence: 92},
		},
		NonTrendingProducts: []models.ProductPrediction{},
		Forecasts: []models.ForecastPoint{
			{Date: "2025-01", Value: 10},
			{Date: "2025-02", Value: 12.5},
		},
		Sentiment: models.Sentiment{Avg: 0.62, TotalAnalyzed: 1500},
		WordCloudData: []models.WordCloudEntry{
			{Text: "battery", Value: 64},
			{Text: "rare", Value: 1},
		},
	}
}

func TestBuildDashboard(t *testing.T) {
	dash := BuildDashboard(sampleResponse(), Theme{Dark: true})

	assert.Equal(t, DashboardTitle, dash.Title)
	require.Len(t, dash.Cards, 3)
	assert.Equal(t, "2", dash.Cards[0].Value)
	assert.Equal(t, "0.620", dash.Cards[1].Value)
	assert.Equal(t, "2", dash.Cards[2].Value)

	// ラベル順に並ぶ
	assert.Equal(t, []PredictionRow{
		{Product: "Air Fryer", Verdict: "Not Trending", Trending: false},
		{Product: "Smart Watch", Verdict: "Trending", Trending: true},
	}, dash.Predictions)

	assert.Equal(t, SentimentGauge{Percent: 62, Tone: "positive", TotalAnalyzed: "1,500"}, dash.Gauge)
	assert.Equal(t, []string{"2025-01", "2025-02"}, dash.Chart.Labels)
	assert.Equal(t, []float64{10, 12.5}, dash.Chart.Values)

	require.Len(t, dash.Words, 2)
	assert.Equal(t, 30, dash.Words[0].FontSize)
	assert.Equal(t, minWordFontPx, dash.Words[1].FontSize)

	require.Len(t, dash.Trending, 1)
	assert.Equal(t, ProductCard{Name: "Smart Watch", Score: "0.812", Confidence: "92%", Status: "Trending"}, dash.Trending[0])
	assert.Empty(t, dash.NonTrending)
}

func TestBuildDashboardDoesNotModifyInput(t *testing.T) {
	data := sampleResponse()
	before := fmt.Sprintf("%+v", *data)

	BuildDashboard(data, Theme{})
	assert.Equal(t, before, fmt.Sprintf("%+v", *data))
}

func TestBuildDashboardEmptySentiment(t *testing.T) {
	dash := BuildDashboard(&models.PredictionResponse{}, Theme{})

	assert.Equal(t, "N/A", dash.Cards[1].Value)
	assert.Equal(t, "0", dash.Cards[0].Value)
	assert.Equal(t, 0, dash.Gauge.Percent)
	assert.Equal(t, "neutral", dash.Gauge.Tone)
	assert.Empty(t, dash.Predictions)
}

func TestSentimentPercent(t *testing.T) {
	testCases := []struct {
		avg      float64
		expected int
	}{
		{0, 0},
		{0.5, 50},
		{0.555, 56},
		{-0.25, -25},
		{1.7, 100},
		{-3, -100},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, SentimentPercent(tc.avg), "avg=%v", tc.avg)
	}
}

func TestGaugeTone(t *testing.T) {
	assert.Equal(t, "positive", buildGauge(models.Sentiment{Avg: 0.51}).Tone)
	assert.Equal(t, "neutral", buildGauge(models.Sentiment{Avg: 0.5}).Tone)
	assert.Equal(t, "neutral", buildGauge(models.Sentiment{Avg: 0}).Tone)
	assert.Equal(t, "negative", buildGauge(models.Sentiment{Avg: -0.1}).Tone)
}

func TestWordFontSize(t *testing.T) {
	assert.Equal(t, minWordFontPx, WordFontSize(0))
	assert.Equal(t, minWordFontPx, WordFontSize(-5))
	assert.Equal(t, minWordFontPx, WordFontSize(2))
	assert.Equal(t, 15, WordFontSize(8))
	assert.Equal(t, 50, WordFontSize(1024))
	assert.Equal(t, maxWordFontPx, WordFontSize(1e12))
	assert.Equal(t, maxWordFontPx, WordFontSize(math.Inf(1)))
	assert.Equal(t, maxWordFontPx, WordFontSize(math.MaxFloat64))
	assert.Equal(t, minWordFontPx, WordFontSize(math.NaN()))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "92", formatNumber(92))
	assert.Equal(t, "1,500", formatNumber(1500))
	assert.Equal(t, "0.812", formatNumber(0.8123))
	assert.Equal(t, "-3", formatNumber(-3))

	// 整数として正確に表せない大きさは小数表記にする
	huge := formatNumber(1e300)
	assert.NotContains(t, huge, "-")
	assert.True(t, strings.HasSuffix(huge, ".000"), huge)
	assert.NotContains(t, formatNumber(-1e19), "9,223,372,036,854,775,808")
}

func TestBuildDashboardHugeValues(t *testing.T) {
	data := &models.PredictionResponse{
		TrendingProducts: []models.ProductPrediction{{ProductName: "Kettle", Score: 1e300, Confidence: 1e300}},
		WordCloudData:    []models.WordCloudEntry{{Text: "big", Value: 1e300}},
	}
	dash := BuildDashboard(data, Theme{})

	require.Len(t, dash.Trending, 1)
	assert.NotContains(t, dash.Trending[0].Confidence, "-")
	assert.Equal(t, maxWordFontPx, dash.Words[0].FontSize)
}

func TestNotificationMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "タイムアウト",
			err:      &services.FetchError{Kind: services.TimeoutError, Err: context.DeadlineExceeded},
			expected: "Request timed out. Backend may be slow.",
		},
		{
			name:     "接続失敗",
			err:      &services.FetchError{Kind: services.ConnectivityError, BaseURL: "http://127.0.0.1:5000/api"},
			expected: "Cannot connect to backend. Make sure the prediction API is running on http://127.0.0.1:5000/api",
		},
		{
			name:     "上流エラー（JSON）",
			err:      &services.FetchError{Kind: services.UpstreamError, StatusCode: 400, Body: "{ \"error\": \"No data found on server\" }"},
			expected: `Backend error: 400 — {"error":"No data found on server"}`,
		},
		{
			name:     "上流エラー（テキスト）",
			err:      &services.FetchError{Kind: services.UpstreamError, StatusCode: 502, Body: "Bad Gateway"},
			expected: `Backend error: 502 — "Bad Gateway"`,
		},
		{
			name:     "その他のエラー",
			err:      errors.New("boom"),
			expected: "API error: boom",
		},
		{
			name:     "nil",
			err:      nil,
			expected: LoadFailedHeadline,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NotificationMessage(tc.err))
		})
	}
}

func TestBuildErrorPage(t *testing.T) {
	err := fmt.Errorf("dashboard: %w", &services.FetchError{Kind: services.UpstreamError, StatusCode: 500, Body: "{}"})
	page := BuildErrorPage(err, Theme{Dark: true})

	assert.Equal(t, LoadFailedHeadline, page.Headline)
	assert.Equal(t, "UpstreamError", page.Kind)
	assert.Equal(t, 500, page.StatusCode)
	assert.Equal(t, "Backend error: 500 — {}", page.Message)
	assert.True(t, page.Theme.Dark)
}

func TestTheme(t *testing.T) {
	light := Theme{}
	dark := Theme{Dark: true}

	assert.Equal(t, dark, ParseTheme("dark", light))
	assert.Equal(t, light, ParseTheme("light", dark))
	assert.Equal(t, dark, ParseTheme("", dark))
	assert.Equal(t, light, ParseTheme("purple", light))

	assert.Equal(t, light, dark.Toggled())
	assert.Equal(t, dark, dark.Toggled().Toggled())
	assert.Equal(t, "dark", dark.String())
	assert.Equal(t, "light", light.String())
	assert.Equal(t, "☀️ Light Mode", dark.ToggleLabel())
	assert.Equal(t, "🌙 Dark Mode", light.ToggleLabel())
}

func TestRenderDashboardTemplate(t *testing.T) {
	var buf bytes.Buffer
	err := Templates().ExecuteTemplate(&buf, "dashboard.html", BuildDashboard(sampleResponse(), Theme{Dark: true}))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.True(t, doc.Find("body").HasClass("theme-dark"))
	assert.Contains(t, doc.Find("header h1").Text(), DashboardTitle)
	assert.Equal(t, "☀️ Light Mode", doc.Find("button.toggle").Text())
	assert.Equal(t, 3, doc.Find(".summary-card").Length())

	rows := doc.Find("#predictions .prediction-row")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "Air Fryer", rows.First().Find(".product").Text())
	assert.Equal(t, 1, doc.Find("#predictions .badge-trending").Length())
	assert.Equal(t, 1, doc.Find("#predictions .badge-not-trending").Length())

	assert.Equal(t, "62%", doc.Find("#sentiment .gauge").Text())
	assert.True(t, doc.Find("#sentiment .gauge").HasClass("gauge-positive"))

	style, ok := doc.Find("#keywords .word").First().Attr("style")
	require.True(t, ok)
	assert.Contains(t, style, "30px")

	assert.Equal(t, 1, doc.Find("#trending .product").Length())
	assert.Contains(t, doc.Find("#trending .product h3").Text(), "1. Smart Watch")
	assert.Contains(t, doc.Find("#non-trending").Text(), "No non-trending products available")
}

func TestRenderDashboardTemplateEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Templates().ExecuteTemplate(&buf, "dashboard.html", BuildDashboard(&models.PredictionResponse{}, Theme{}))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.True(t, doc.Find("body").HasClass("theme-light"))
	assert.Contains(t, doc.Find("#predictions").Text(), "No predictions available")
	assert.Contains(t, doc.Find("#trending").Text(), "No trending products available")
	assert.Equal(t, "N/A", doc.Find(".summary-card .stat-value").Eq(1).Text())
}

func TestRenderErrorTemplate(t *testing.T) {
	page := BuildErrorPage(&services.FetchError{Kind: services.TimeoutError, Err: context.DeadlineExceeded}, Theme{})

	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, "error.html", page))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	errorCard := doc.Find("#load-error")
	require.Equal(t, 1, errorCard.Length())
	kind, _ := errorCard.Attr("data-kind")
	assert.Equal(t, "TimeoutError", kind)
	assert.Equal(t, "❌ Error: Failed to load data from API", errorCard.Find("h2").Text())
	assert.Equal(t, "Request timed out. Backend may be slow.", errorCard.Find("p.message").Text())
}

func TestRenderForecastSummary(t *testing.T) {
	dash := BuildDashboard(sampleResponse(), Theme{})
	assert.Nil(t, dash.Forecast)

	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, "dashboard.html", dash))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find(".forecast-summary").Length())

	dash.Forecast = &models.ForecastSummary{Points: 2, Slope: -1.5, RSquared: 0.8, Min: 3, Max: 9, Direction: models.DirectionFalling}
	buf.Reset()
	require.NoError(t, Templates().ExecuteTemplate(&buf, "dashboard.html", dash))
	doc, err = goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	summary := doc.Find("#forecast .forecast-summary")
	require.Equal(t, 1, summary.Length())
	assert.Contains(t, summary.Text(), "Trend: Falling")
	assert.Contains(t, summary.Text(), "slope -1.50 per step")
	assert.Contains(t, summary.Text(), "range 3.0 to 9.0")
}
