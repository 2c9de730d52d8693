package views

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"trend-dashboard/pkg/models"
	"trend-dashboard/pkg/services"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DashboardTitle is shown in the page header and the browser tab.
	DashboardTitle = "AI Product Trend Predictor"

	// LoadFailedHeadline is the terminal error state shown when a fetch fails.
	LoadFailedHeadline = "Failed to load data from API"

	minWordFontPx = 10
	maxWordFontPx = 64
)

// SummaryCard is one of the headline numbers at the top of the dashboard.
type SummaryCard struct {
	Icon  string
	Label string
	Value string
}

// PredictionRow is one cleaned label with its verdict.
type PredictionRow struct {
	Product  string
	Verdict  string
	Trending bool
}

// SentimentGauge renders sentiment.avg as a percentage.
type SentimentGauge struct {
	Percent       int
	Tone          string // "positive", "neutral" or "negative"
	TotalAnalyzed string
}

// ChartData feeds the Chart.js line chart.
type ChartData struct {
	Labels []string
	Values []float64
}

// WordView is a sized keyword in the cloud.
type WordView struct {
	Text     string
	Value    float64
	FontSize int
}

// ProductCard is one entry in the trending or non-trending list.
type ProductCard struct {
	Name       string
	Score      string
	Confidence string
	Status     string
}

// Dashboard is the complete view model of the dashboard page.
type Dashboard struct {
	Theme       Theme
	Title       string
	Cards       []SummaryCard
	Predictions []PredictionRow
	Gauge       SentimentGauge
	Chart       ChartData
	Forecast    *models.ForecastSummary // nil when the series is too short
	Words       []WordView
	Trending    []ProductCard
	NonTrending []ProductCard
}

// ErrorPage is the view model of the terminal error state.
type ErrorPage struct {
	Theme      Theme
	Title      string
	Headline   string
	Message    string
	Kind       string
	StatusCode int
}

var printer = message.NewPrinter(language.English)

// BuildDashboard turns a normalized payload into the dashboard view model.
// The payload is read, never modified.
func BuildDashboard(data *models.PredictionResponse, theme Theme) Dashboard {
	dash := Dashboard{
		Theme: theme,
		Title: DashboardTitle,
		Cards: []SummaryCard{
			{Icon: "🔥", Label: "Total Trends", Value: printer.Sprintf("%d", len(data.Products))},
			{Icon: "💬", Label: "Avg Sentiment", Value: formatAvgSentiment(data.Sentiment)},
			{Icon: "🔑", Label: "Keywords", Value: printer.Sprintf("%d", len(data.WordCloudData))},
		},
		Predictions: buildPredictionRows(data.Predictions),
		Gauge:       buildGauge(data.Sentiment),
		Chart: ChartData{
			Labels: make([]string, 0, len(data.Forecasts)),
			Values: make([]float64, 0, len(data.Forecasts)),
		},
		Words:       make([]WordView, 0, len(data.WordCloudData)),
		Trending:    buildProductCards(data.TrendingProducts),
		NonTrending: buildProductCards(data.NonTrendingProducts),
	}

	for _, point := range data.Forecasts {
		dash.Chart.Labels = append(dash.Chart.Labels, point.Date)
		dash.Chart.Values = append(dash.Chart.Values, point.Value)
	}
	for _, word := range data.WordCloudData {
		dash.Words = append(dash.Words, WordView{
			Text:     word.Text,
			Value:    word.Value,
			FontSize: WordFontSize(word.Value),
		})
	}
	return dash
}

func buildPredictionRows(predictions map[string]string) []PredictionRow {
	rows := make([]PredictionRow, 0, len(predictions))
	for product, verdict := range predictions {
		rows = append(rows, PredictionRow{
			Product:  product,
			Verdict:  verdict,
			Trending: verdict == models.VerdictTrending,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Product < rows[j].Product
	})
	return rows
}

func buildProductCards(products []models.ProductPrediction) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, ProductCard{
			Name:       p.ProductName,
			Score:      formatNumber(p.Score),
			Confidence: formatNumber(p.Confidence) + "%",
			Status:     p.PredictedTrend,
		})
	}
	return cards
}

// formatAvgSentiment shows N/A when the upstream reported nothing at all.
func formatAvgSentiment(s models.Sentiment) string {
	if s.Avg == 0 && s.TotalAnalyzed == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", s.Avg)
}

func buildGauge(s models.Sentiment) SentimentGauge {
	percent := SentimentPercent(s.Avg)
	tone := "neutral"
	switch {
	case percent > 50:
		tone = "positive"
	case percent < 0:
		tone = "negative"
	}
	return SentimentGauge{
		Percent:       percent,
		Tone:          tone,
		TotalAnalyzed: printer.Sprintf("%d", s.TotalAnalyzed),
	}
}

// SentimentPercent converts the fractional average into a whole percentage
// clamped to [-100, 100].
func SentimentPercent(avg float64) int {
	if math.IsNaN(avg) {
		return 0
	}
	percent := math.Round(avg * 100)
	return int(math.Max(-100, math.Min(100, percent)))
}

// WordFontSize is log2(value)*5 pixels, clamped to a readable range.
func WordFontSize(value float64) int {
	if value <= 1 || math.IsNaN(value) {
		return minWordFontPx
	}
	size := math.Round(math.Log2(value) * 5)
	if size < minWordFontPx {
		return minWordFontPx
	}
	if size > maxWordFontPx {
		return maxWordFontPx
	}
	return int(size)
}

// maxExactInt is the largest magnitude a float64 holds without losing integer precision.
const maxExactInt = 1 << 53

func formatNumber(v float64) string {
	if math.Abs(v) < maxExactInt && v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.3f", v)
}

// BuildErrorPage builds the terminal error state for a failed fetch.
func BuildErrorPage(err error, theme Theme) ErrorPage {
	page := ErrorPage{
		Theme:    theme,
		Title:    DashboardTitle,
		Headline: LoadFailedHeadline,
		Message:  NotificationMessage(err),
	}
	var fetchErr *services.FetchError
	if errors.As(err, &fetchErr) {
		page.Kind = string(fetchErr.Kind)
		page.StatusCode = fetchErr.StatusCode
	}
	return page
}

// NotificationMessage maps a fetch failure to the message shown to the user.
func NotificationMessage(err error) string {
	var fetchErr *services.FetchError
	if !errors.As(err, &fetchErr) {
		if err == nil {
			return LoadFailedHeadline
		}
		return "API error: " + err.Error()
	}

	switch fetchErr.Kind {
	case services.TimeoutError:
		return "Request timed out. Backend may be slow."
	case services.ConnectivityError:
		return "Cannot connect to backend. Make sure the prediction API is running on " + fetchErr.BaseURL
	default:
		return fmt.Sprintf("Backend error: %d — %s", fetchErr.StatusCode, serializeBody(fetchErr.Body))
	}
}

// serializeBody renders an error body the way it was received: JSON bodies
// compacted, anything else as a quoted JSON string.
func serializeBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if json.Valid([]byte(trimmed)) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(trimmed)); err == nil {
			return buf.String()
		}
	}
	quoted, err := json.Marshal(body)
	if err != nil {
		return body
	}
	return string(quoted)
}
