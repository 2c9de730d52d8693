package models

// PredictionResponse is the normalized payload served by the prediction API.
// Every collection field is non-nil once it has passed through normalization.
type PredictionResponse struct {
	Predictions         map[string]string   `json:"predictions"`           // cleaned product label -> verdict
	Products            []ProductPrediction `json:"products"`              // trending and non-trending combined
	TrendingProducts    []ProductPrediction `json:"trending_products"`
	NonTrendingProducts []ProductPrediction `json:"non_trending_products"`
	Forecasts           []ForecastPoint     `json:"forecasts"`
	Sentiment           Sentiment           `json:"sentiment"`
	WordCloudData       []WordCloudEntry    `json:"wordCloudData"`
}

// ForecastPoint represents a single point of the trend forecast line
type ForecastPoint struct {
	Date  string  `json:"date"` // e.g. "2025-01-01"; order is taken as-is from upstream
	Value float64 `json:"value"`
}

// Sentiment holds the aggregated sentiment of the analyzed products.
// Avg is a fraction (the dashboard shows it multiplied by 100).
type Sentiment struct {
	Avg              float64 `json:"avg"`
	TotalAnalyzed    int     `json:"total_analyzed"`
	TrendingCount    int     `json:"trending_count,omitempty"`
	NonTrendingCount int     `json:"non_trending_count,omitempty"`
}

// WordCloudEntry represents a keyword and its frequency
type WordCloudEntry struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

// ProductPrediction represents the classification of a single product
type ProductPrediction struct {
	ProductName    string  `json:"product_name"`
	Score          float64 `json:"score"`
	Confidence     float64 `json:"confidence"`      // 0-100
	PredictedTrend string  `json:"predicted_trend"` // "Trending" or "Not Trending"
}

// UpstreamHealth is the health report of the prediction API
type UpstreamHealth struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

// Verdict values emitted by the prediction API
const (
	VerdictTrending    = "Trending"
	VerdictNotTrending = "Not Trending"
)

// ForecastSummary describes the shape of the forecast series
type ForecastSummary struct {
	Points    int     `json:"points"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Slope     float64 `json:"slope"`     // change per forecast step
	Intercept float64 `json:"intercept"` // fitted value at the first point
	RSquared  float64 `json:"r_squared"` // R² (coefficient of determination)
	Direction string  `json:"direction"` // "Rising", "Falling" or "Flat"
}

// Forecast directions
const (
	DirectionRising  = "Rising"
	DirectionFalling = "Falling"
	DirectionFlat    = "Flat"
)
