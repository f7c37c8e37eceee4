package stats

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/repository"
)

type sourceMock struct {
	calls int64
	stats *repository.DashboardStats
	err   error
}

func (s *sourceMock) GetDashboardStats(context.Context, uuid.UUID, time.Time) (*repository.DashboardStats, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func sampleStats() *repository.DashboardStats {
	return &repository.DashboardStats{
		OrdersToday:   12,
		RevenueToday:  decimal.RequireFromString("240.50"),
		ProductCount:  30,
		CategoryCount: 5,
	}
}

func TestDashboard_CachesSecondRead(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	source := &sourceMock{stats: sampleStats()}
	svc := NewService(source, client)
	shopID := uuid.New()

	first, err := svc.Dashboard(context.Background(), shopID)
	require.NoError(t, err)
	assert.Equal(t, 12, first.OrdersToday)

	second, err := svc.Dashboard(context.Background(), shopID)
	require.NoError(t, err)
	assert.True(t, second.RevenueToday.Equal(first.RevenueToday))

	assert.Equal(t, int64(1), atomic.LoadInt64(&source.calls), "second read should come from cache")
}

func TestDashboard_ExpiredCacheHitsSourceAgain(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	source := &sourceMock{stats: sampleStats()}
	svc := NewService(source, client)
	shopID := uuid.New()

	_, err := svc.Dashboard(context.Background(), shopID)
	require.NoError(t, err)

	mr.FastForward(time.Minute)

	_, err = svc.Dashboard(context.Background(), shopID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&source.calls))
}

func TestDashboard_WorksWithoutRedis(t *testing.T) {
	source := &sourceMock{stats: sampleStats()}
	svc := NewService(source, nil)

	stats, err := svc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 30, stats.ProductCount)
}
