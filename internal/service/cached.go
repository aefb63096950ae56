package service

import (
	"Resonance/internal/api/dto"
	"Resonance/internal/pkg/cache"
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedRecommendService 评分引擎的缓存装饰器。
// 相同键的并发未命中默认各自重算（计算只读且幂等），
// 开启 singleFlight 后合并为一次。
type cachedRecommendService struct {
	next  RecommendService
	store cache.ResultCache
	ttl   time.Duration
	group *singleflight.Group
}

func NewCachedRecommendService(next RecommendService, store cache.ResultCache, ttl time.Duration, singleFlight bool) RecommendService {
	s := &cachedRecommendService{
		next:  next,
		store: store,
		ttl:   ttl,
	}
	if singleFlight {
		s.group = &singleflight.Group{}
	}
	return s
}

func (s *cachedRecommendService) Recommend(ctx context.Context, userID, queryType, phrase, hashtag string) ([]*dto.RecommendationDTO, error) {
	key := cache.BuildKey(userID, queryType, phrase, hashtag)

	if recs, ok := s.store.Get(ctx, key); ok {
		return recs, nil
	}

	compute := func() (interface{}, error) {
		recs, err := s.next.Recommend(ctx, userID, queryType, phrase, hashtag)
		if err != nil {
			return nil, err
		}
		s.store.Set(ctx, key, recs, s.ttl)
		return recs, nil
	}

	if s.group == nil {
		v, err := compute()
		if err != nil {
			return nil, err
		}
		return v.([]*dto.RecommendationDTO), nil
	}

	v, err, _ := s.group.Do(key, compute)
	if err != nil {
		return nil, err
	}
	return v.([]*dto.RecommendationDTO), nil
}
