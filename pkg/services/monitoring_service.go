package services

import (
	"sync"
	"time"
)

const maxRecentFailures = 10

// MonitoringService は予測APIへの取得結果を記録・集計します。
type MonitoringService struct {
	outcomes []FetchOutcome
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		outcomes: make([]FetchOutcome, 0),
		now:      time.Now,
	}
}

// RecordFetch は取得結果を記録します。
func (s *MonitoringService) RecordFetch(outcome FetchOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcome)
}

// FetchStats はモニタリングAPIで返す集計済みデータです。
type FetchStats struct {
	PeriodHours     int                      `json:"periodHours"`
	Total           int                      `json:"total"`
	ByKind          map[string]int           `json:"byKind"`
	SuccessRate     float64                  `json:"successRate"`
	AvgLatencyMs    int64                    `json:"avgLatencyMs"`
	FetchesOverTime []map[string]interface{} `json:"fetchesOverTime"`
	RecentFailures  []FetchOutcome           `json:"recentFailures"`
}

// GetFetchStats は指定された期間の取得結果を集計します。
func (s *MonitoringService) GetFetchStats(periodHours int) FetchStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if periodHours <= 0 {
		periodHours = 24
	}

	now := s.now()
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	filtered := make([]FetchOutcome, 0)
	for _, outcome := range s.outcomes {
		if outcome.Timestamp.After(since) {
			filtered = append(filtered, outcome)
		}
	}

	// 種別ごとの件数。全種別を0で初期化しておく
	byKind := map[string]int{
		"ok":                      0,
		string(TimeoutError):      0,
		string(ConnectivityError): 0,
		string(UpstreamError):     0,
	}
	var latencySum time.Duration
	for _, outcome := range filtered {
		byKind[outcome.Kind]++
		latencySum += outcome.Latency
	}

	stats := FetchStats{
		PeriodHours:    periodHours,
		Total:          len(filtered),
		ByKind:         byKind,
		RecentFailures: make([]FetchOutcome, 0),
	}
	if len(filtered) > 0 {
		stats.SuccessRate = float64(byKind["ok"]) / float64(len(filtered))
		stats.AvgLatencyMs = latencySum.Milliseconds() / int64(len(filtered))
	}

	// 時間バケット（過去から現在の順）
	buckets := make(map[string]int)
	for _, outcome := range filtered {
		buckets[outcome.Timestamp.In(now.Location()).Truncate(time.Hour).Format(time.RFC3339)]++
	}
	stats.FetchesOverTime = make([]map[string]interface{}, periodHours)
	for i := 0; i < periodHours; i++ {
		target := now.Add(-time.Duration(periodHours-1-i) * time.Hour)
		stats.FetchesOverTime[i] = map[string]interface{}{
			"time":    target.Format("15:00"),
			"fetches": buckets[target.Truncate(time.Hour).Format(time.RFC3339)],
		}
	}

	// 直近の失敗（新しい順）
	for i := len(filtered) - 1; i >= 0; i-- {
		if filtered[i].Kind == "ok" {
			continue
		}
		stats.RecentFailures = append(stats.RecentFailures, filtered[i])
		if len(stats.RecentFailures) >= maxRecentFailures {
			break
		}
	}

	return stats
}
