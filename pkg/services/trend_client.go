package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trend-dashboard/pkg/models"
)

// 予測APIのデフォルト設定
const (
	DefaultPredictionAPIBaseURL = "http://127.0.0.1:5000/api"
	DefaultPredictionAPITimeout = 10 * time.Second

	// 上流レスポンスの読み取り上限
	maxResponseBytes = 10 << 20
)

// ErrNoData は取得に失敗し、描画できるデータがないことを示すセンチネルです。
// FetchTrends が返すすべての *FetchError は errors.Is(err, ErrNoData) を満たします。
var ErrNoData = errors.New("no prediction data")

// FailureKind は取得失敗の分類です。
type FailureKind string

const (
	TimeoutError      FailureKind = "TimeoutError"
	ConnectivityError FailureKind = "ConnectivityError"
	UpstreamError     FailureKind = "UpstreamError"
)

// FetchError は分類済みの取得失敗を表します。
type FetchError struct {
	Kind       FailureKind
	BaseURL    string
	StatusCode int    // UpstreamError のみ
	Body       string // UpstreamError のみ。生のレスポンスボディ
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case TimeoutError:
		return fmt.Sprintf("prediction API request timed out: %v", e.Err)
	case ConnectivityError:
		return fmt.Sprintf("cannot connect to prediction API at %s: %v", e.BaseURL, e.Err)
	default:
		return fmt.Sprintf("prediction API error (status: %d): %s", e.StatusCode, e.Body)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is は ErrNoData との比較を可能にします。
func (e *FetchError) Is(target error) bool {
	return target == ErrNoData
}

// FetchOutcome は1回の取得結果の記録です。
type FetchOutcome struct {
	Timestamp  time.Time     `json:"timestamp"`
	Kind       string        `json:"kind"` // "ok" または FailureKind
	StatusCode int           `json:"statusCode,omitempty"`
	Latency    time.Duration `json:"latency"`
	Message    string        `json:"message,omitempty"`
}

// FetchObserver は取得結果を受け取ります。
type FetchObserver interface {
	RecordFetch(outcome FetchOutcome)
}

// TrendClient 予測APIクライアント
type TrendClient struct {
	baseURL  string
	client   *http.Client
	observer FetchObserver
}

// NewTrendClient 新しい予測APIクライアントを作成
func NewTrendClient(baseURL string, timeout time.Duration) *TrendClient {
	if baseURL == "" {
		baseURL = DefaultPredictionAPIBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultPredictionAPITimeout
	}
	return &TrendClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetObserver は取得結果の通知先を設定します。
func (tc *TrendClient) SetObserver(observer FetchObserver) {
	tc.observer = observer
}

// BaseURL は接続先のベースURLを返します。
func (tc *TrendClient) BaseURL() string {
	return tc.baseURL
}

// FetchTrends は予測データを1回取得し、正規化して返します。
// 失敗時は nil と *FetchError を返し、診断ログを1行出力します。
func (tc *TrendClient) FetchTrends(ctx context.Context) (*models.PredictionResponse, error) {
	start := time.Now()

	data, fetchErr := tc.fetchTrends(ctx)
	if fetchErr != nil {
		tc.logFailure(fetchErr)
		tc.record(FetchOutcome{
			Timestamp:  start,
			Kind:       string(fetchErr.Kind),
			StatusCode: fetchErr.StatusCode,
			Latency:    time.Since(start),
			Message:    fetchErr.Error(),
		})
		return nil, fetchErr
	}

	tc.record(FetchOutcome{
		Timestamp:  start,
		Kind:       "ok",
		StatusCode: http.StatusOK,
		Latency:    time.Since(start),
	})
	log.Printf("📈 [TrendClient] 予測データを取得しました: predictions=%d forecasts=%d keywords=%d",
		len(data.Predictions), len(data.Forecasts), len(data.WordCloudData))
	return data, nil
}

func (tc *TrendClient) fetchTrends(ctx context.Context) (*models.PredictionResponse, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+"/predict", nil)
	if err != nil {
		return nil, &FetchError{Kind: ConnectivityError, BaseURL: tc.baseURL, Err: fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tc.client.Do(req)
	if err != nil {
		return nil, tc.classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, tc.classifyTransportError(fmt.Errorf("レスポンスの読み取りに失敗: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			Kind:       UpstreamError,
			BaseURL:    tc.baseURL,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	data, err := NormalizePrediction(body)
	if err != nil {
		return nil, &FetchError{
			Kind:       UpstreamError,
			BaseURL:    tc.baseURL,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        err,
		}
	}
	return data, nil
}

// classifyTransportError はレスポンスを受け取れなかったエラーをタイムアウトと接続失敗に分類します。
func (tc *TrendClient) classifyTransportError(err error) *FetchError {
	kind := ConnectivityError
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = TimeoutError
	}
	return &FetchError{Kind: kind, BaseURL: tc.baseURL, Err: err}
}

func (tc *TrendClient) logFailure(fe *FetchError) {
	if fe.Kind == UpstreamError {
		log.Printf("❌ [TrendClient] fetchTrends error: kind=%s status=%d body=%s message=%v",
			fe.Kind, fe.StatusCode, fe.Body, fe.Err)
		return
	}
	log.Printf("❌ [TrendClient] fetchTrends error: kind=%s message=%v", fe.Kind, fe.Err)
}

func (tc *TrendClient) record(outcome FetchOutcome) {
	if tc.observer != nil {
		tc.observer.RecordFetch(outcome)
	}
}

// FetchProductDetails は製品詳細を取得し、レスポンスをそのまま返します。
// 失敗時はログのみ出力し nil を返します。
func (tc *TrendClient) FetchProductDetails(ctx context.Context, productName string) json.RawMessage {
	endpoint := fmt.Sprintf("%s/product/%s", tc.baseURL, url.PathEscape(productName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("⚠️ [TrendClient] Error fetching product details: %v", err)
		return nil
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		log.Printf("⚠️ [TrendClient] Error fetching product details: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Printf("⚠️ [TrendClient] Error fetching product details: %v", err)
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("⚠️ [TrendClient] Error fetching product details: status=%d body=%s", resp.StatusCode, string(body))
		return nil
	}

	// JSON以外のボディは文字列として包む
	if !json.Valid(body) {
		quoted, err := json.Marshal(string(body))
		if err != nil {
			return nil
		}
		return quoted
	}
	return json.RawMessage(body)
}

// CheckHealth は予測APIのヘルスチェックを行います。
func (tc *TrendClient) CheckHealth(ctx context.Context) (*models.UpstreamHealth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach prediction API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var health models.UpstreamHealth
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &health, nil
}
