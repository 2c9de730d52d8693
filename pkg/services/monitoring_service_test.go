package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixedMonitoringService(now time.Time) *MonitoringService {
	s := NewMonitoringService()
	s.now = func() time.Time { return now }
	return s
}

func TestMonitoringServiceEmpty(t *testing.T) {
	s := newFixedMonitoringService(time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC))

	stats := s.GetFetchStats(0)
	assert.Equal(t, 24, stats.PeriodHours)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.SuccessRate)
	assert.Equal(t, map[string]int{"ok": 0, "TimeoutError": 0, "ConnectivityError": 0, "UpstreamError": 0}, stats.ByKind)
	assert.Len(t, stats.FetchesOverTime, 24)
	assert.NotNil(t, stats.RecentFailures)
	assert.Empty(t, stats.RecentFailures)
}

func TestMonitoringServiceAggregates(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	s := newFixedMonitoringService(now)

	s.RecordFetch(FetchOutcome{Timestamp: now.Add(-50 * time.Minute), Kind: "ok", StatusCode: http.StatusOK, Latency: 100 * time.Millisecond})
	s.RecordFetch(FetchOutcome{Timestamp: now.Add(-40 * time.Minute), Kind: string(UpstreamError), StatusCode: http.StatusInternalServerError, Latency: 300 * time.Millisecond})
	s.RecordFetch(FetchOutcome{Timestamp: now.Add(-10 * time.Minute), Kind: string(TimeoutError), Latency: 200 * time.Millisecond})
	s.RecordFetch(FetchOutcome{Timestamp: now.Add(-5 * time.Minute), Kind: "ok", StatusCode: http.StatusOK, Latency: 200 * time.Millisecond})
	// 集計期間外
	s.RecordFetch(FetchOutcome{Timestamp: now.Add(-3 * time.Hour), Kind: string(ConnectivityError)})

	stats := s.GetFetchStats(1)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByKind["ok"])
	assert.Equal(t, 1, stats.ByKind[string(UpstreamError)])
	assert.Equal(t, 1, stats.ByKind[string(TimeoutError)])
	assert.Zero(t, stats.ByKind[string(ConnectivityError)])
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
	assert.Equal(t, int64(200), stats.AvgLatencyMs)

	// 新しい順
	require.Len(t, stats.RecentFailures, 2)
	assert.Equal(t, string(TimeoutError), stats.RecentFailures[0].Kind)
	assert.Equal(t, string(UpstreamError), stats.RecentFailures[1].Kind)

	require.Len(t, stats.FetchesOverTime, 1)
	assert.Equal(t, "12:00", stats.FetchesOverTime[0]["time"])
	assert.Equal(t, 2, stats.FetchesOverTime[0]["fetches"])

	wide := s.GetFetchStats(24)
	assert.Equal(t, 5, wide.Total)
	assert.Equal(t, 1, wide.ByKind[string(ConnectivityError)])
}

func TestMonitoringServiceRecentFailuresLimit(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newFixedMonitoringService(now)

	for i := 0; i < 15; i++ {
		s.RecordFetch(FetchOutcome{Timestamp: now.Add(-time.Duration(15-i) * time.Minute), Kind: string(ConnectivityError)})
	}

	stats := s.GetFetchStats(1)
	assert.Equal(t, 15, stats.Total)
	assert.Len(t, stats.RecentFailures, maxRecentFailures)
	assert.Equal(t, now.Add(-time.Minute), stats.RecentFailures[0].Timestamp)
}
