package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/restopos/restopos/internal/repository"
)

// Source is the aggregate query the service caches in front of.
type Source interface {
	GetDashboardStats(ctx context.Context, shopID uuid.UUID, now time.Time) (*repository.DashboardStats, error)
}

// Service caches dashboard stats: they are read on every dashboard load but
// only drift as orders come in, so a short TTL plus singleflight keeps the
// aggregate query off the hot path.
type Service struct {
	source Source
	client *redis.Client
	ttl    time.Duration
	sfg    singleflight.Group
}

func NewService(source Source, client *redis.Client) *Service {
	return &Service{
		source: source,
		client: client,
		ttl:    30 * time.Second,
	}
}

func (s *Service) Dashboard(ctx context.Context, shopID uuid.UUID) (*repository.DashboardStats, error) {
	key := statsKey(shopID)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		if s.client != nil {
			data, err := s.client.Get(ctx, key).Bytes()
			if err == nil {
				var cached repository.DashboardStats
				if err := json.Unmarshal(data, &cached); err == nil {
					return &cached, nil
				}
			} else if !errors.Is(err, redis.Nil) {
				log.Printf("stats cache get error: %v", err)
			}
		}

		stats, err := s.source.GetDashboardStats(ctx, shopID, time.Now())
		if err != nil {
			return nil, err
		}

		if s.client != nil {
			if data, err := json.Marshal(stats); err == nil {
				if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
					log.Printf("stats cache set error: %v", err)
				}
			}
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repository.DashboardStats), nil
}

func statsKey(shopID uuid.UUID) string {
	return fmt.Sprintf("stats:%s", shopID)
}
