package cache

import (
	"Resonance/internal/api/dto"
	"Resonance/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// RedisCache 跨实例共享的缓存后端；Redis 故障只降级为未命中
type RedisCache struct{}

func NewRedisCache() *RedisCache {
	return &RedisCache{}
}

func (s *RedisCache) Get(ctx context.Context, key string) ([]*dto.RecommendationDTO, bool) {
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "redis cache get failed", "key", key, "err", err)
		return nil, false
	}
	if value == "" {
		return nil, false
	}

	recs := make([]*dto.RecommendationDTO, 0)
	if err := json.Unmarshal([]byte(value), &recs); err != nil {
		log.WarnContext(ctx, "redis cache entry corrupted", "key", key, "err", err)
		return nil, false
	}
	return recs, true
}

func (s *RedisCache) Set(ctx context.Context, key string, recs []*dto.RecommendationDTO, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	b, err := json.Marshal(recs)
	if err != nil {
		log.WarnContext(ctx, "redis cache marshal failed", "key", key, "err", err)
		return
	}
	if err := redis.SetWithExpiration(ctx, key, string(b), ttl); err != nil {
		log.WarnContext(ctx, "redis cache set failed", "key", key, "err", err)
	}
}
