package services

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode/utf16"

	"trend-dashboard/pkg/models"

	"github.com/tidwall/gjson"
)

// ラベル長の許容範囲（両端を含まない）
const (
	minLabelLength = 2
	maxLabelLength = 100
)

// ErrMalformedPayload はレスポンスボディがJSONオブジェクトでない場合のエラーです。
var ErrMalformedPayload = errors.New("prediction payload is not a JSON object")

// 空白文字クラス。ブラウザ側の \s と同じ範囲（NBSP、全角スペース、BOMなど）を含める。
const spaceClass = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	labelURLPattern   = regexp.MustCompile(`https?://[^` + spaceClass + `]+`)
	labelTagPattern   = regexp.MustCompile(`<[^>]*>`)
	labelSpacePattern = regexp.MustCompile(`[` + spaceClass + `]+`)
)

// CleanLabel は製品ラベルからURLとHTMLタグを除去し、空白を正規化します。
func CleanLabel(label string) string {
	cleaned := labelURLPattern.ReplaceAllString(label, "")
	cleaned = labelTagPattern.ReplaceAllString(cleaned, "")
	cleaned = labelSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.Trim(cleaned, " ")
}

// isDisplayableLabel はクリーニング後のラベルが表示に適した長さかを判定します。
// 長さはUTF-16のコード単位で数えます（絵文字などは2単位）。
func isDisplayableLabel(label string) bool {
	n := len(utf16.Encode([]rune(label)))
	return n > minLabelLength && n < maxLabelLength
}

// finiteFloat は数値を取り出し、1e999 のような非有限値は0として扱います。
func finiteFloat(value gjson.Result) float64 {
	f := value.Float()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// NormalizePrediction は予測APIの生レスポンスを、描画側でnullチェック不要な形に正規化します。
// 欠落または型が不正なフィールドは空の値で補完されます。
func NormalizePrediction(raw []byte) (*models.PredictionResponse, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrMalformedPayload
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, ErrMalformedPayload
	}

	return &models.PredictionResponse{
		Predictions:         normalizePredictions(doc.Get("predictions")),
		Products:            normalizeProducts(doc.Get("products")),
		TrendingProducts:    normalizeProducts(doc.Get("trending_products")),
		NonTrendingProducts: normalizeProducts(doc.Get("non_trending_products")),
		Forecasts:           normalizeForecasts(doc.Get("forecasts")),
		Sentiment:           normalizeSentiment(doc.Get("sentiment")),
		WordCloudData:       normalizeWordCloud(doc.Get("wordCloudData")),
	}, nil
}

// normalizePredictions はドキュメント順にエントリを走査するため、
// 同じラベルに正規化されたキーは後勝ちになります。
func normalizePredictions(field gjson.Result) map[string]string {
	predictions := make(map[string]string)
	if !field.IsObject() {
		return predictions
	}

	field.ForEach(func(key, value gjson.Result) bool {
		label := CleanLabel(key.String())
		if !isDisplayableLabel(label) {
			return true
		}
		if value.Type == gjson.String {
			predictions[label] = value.String()
		} else {
			predictions[label] = value.Raw
		}
		return true
	})
	return predictions
}

func normalizeForecasts(field gjson.Result) []models.ForecastPoint {
	forecasts := make([]models.ForecastPoint, 0)
	if !field.IsArray() {
		return forecasts
	}

	for _, item := range field.Array() {
		if !item.IsObject() {
			continue
		}
		forecasts = append(forecasts, models.ForecastPoint{
			Date:  item.Get("date").String(),
			Value: finiteFloat(item.Get("value")),
		})
	}
	return forecasts
}

func normalizeSentiment(field gjson.Result) models.Sentiment {
	if !field.IsObject() {
		return models.Sentiment{Avg: 0, TotalAnalyzed: 0}
	}
	return models.Sentiment{
		Avg:              finiteFloat(field.Get("avg")),
		TotalAnalyzed:    int(field.Get("total_analyzed").Int()),
		TrendingCount:    int(field.Get("trending_count").Int()),
		NonTrendingCount: int(field.Get("non_trending_count").Int()),
	}
}

func normalizeWordCloud(field gjson.Result) []models.WordCloudEntry {
	words := make([]models.WordCloudEntry, 0)
	if !field.IsArray() {
		return words
	}

	for _, item := range field.Array() {
		if !item.IsObject() {
			continue
		}
		words = append(words, models.WordCloudEntry{
			Text:  item.Get("text").String(),
			Value: finiteFloat(item.Get("value")),
		})
	}
	return words
}

func normalizeProducts(field gjson.Result) []models.ProductPrediction {
	products := make([]models.ProductPrediction, 0)
	if !field.IsArray() {
		return products
	}

	for _, item := range field.Array() {
		if !item.IsObject() {
			continue
		}
		products = append(products, models.ProductPrediction{
			ProductName:    item.Get("product_name").String(),
			Score:          finiteFloat(item.Get("score")),
			Confidence:     finiteFloat(item.Get("confidence")),
			PredictedTrend: item.Get("predicted_trend").String(),
		})
	}
	return products
}
