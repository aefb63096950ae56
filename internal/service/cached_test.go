package service

import (
	"Resonance/internal/api/dto"
	"Resonance/internal/pkg/cache"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	calls int
	recs  []*dto.RecommendationDTO
	err   error
}

func (s *countingService) Recommend(context.Context, string, string, string, string) ([]*dto.RecommendationDTO, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.recs, nil
}

func TestCachedRecommendHitSkipsRecompute(t *testing.T) {
	next := &countingService{recs: []*dto.RecommendationDTO{{UserID: "u2"}}}
	svc := NewCachedRecommendService(next, cache.NewMemoryCache(), time.Minute, false)
	ctx := context.Background()

	first, err := svc.Recommend(ctx, "u1", TypeReply, "Hello", "spain")
	require.NoError(t, err)
	second, err := svc.Recommend(ctx, "u1", TypeReply, "Hello", "spain")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
}

func TestCachedRecommendDistinctKeys(t *testing.T) {
	next := &countingService{recs: []*dto.RecommendationDTO{}}
	svc := NewCachedRecommendService(next, cache.NewMemoryCache(), time.Minute, false)
	ctx := context.Background()

	_, _ = svc.Recommend(ctx, "u1", TypeReply, "Hello", "spain")
	_, _ = svc.Recommend(ctx, "u1", TypeRetweet, "Hello", "spain")
	_, _ = svc.Recommend(ctx, "u1", TypeReply, "hello", "spain")
	_, _ = svc.Recommend(ctx, "u2", TypeReply, "Hello", "spain")

	// 参数元组中任一成员不同都是不同的键，phrase 区分大小写
	assert.Equal(t, 4, next.calls)
}

func TestCachedRecommendEntryExpires(t *testing.T) {
	next := &countingService{recs: []*dto.RecommendationDTO{}}
	svc := NewCachedRecommendService(next, cache.NewMemoryCache(), 10*time.Millisecond, false)
	ctx := context.Background()

	_, _ = svc.Recommend(ctx, "u1", TypeReply, "Hello", "spain")
	time.Sleep(25 * time.Millisecond)
	_, _ = svc.Recommend(ctx, "u1", TypeReply, "Hello", "spain")

	assert.Equal(t, 2, next.calls)
}

func TestCachedRecommendErrorNotCached(t *testing.T) {
	next := &countingService{err: ErrUnexpected}
	svc := NewCachedRecommendService(next, cache.NewMemoryCache(), time.Minute, false)
	ctx := context.Background()

	_, err := svc.Recommend(ctx, "u1", TypeReply, "Hello", "spain")
	assert.ErrorIs(t, err, ErrUnexpected)

	next.err = nil
	next.recs = []*dto.RecommendationDTO{{UserID: "u2"}}
	recs, err := svc.Recommend(ctx, "u1", TypeReply, "Hello", "spain")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 2, next.calls)
}

func TestCachedRecommendSingleFlight(t *testing.T) {
	next := &countingService{recs: []*dto.RecommendationDTO{{UserID: "u2"}}}
	svc := NewCachedRecommendService(next, cache.NewMemoryCache(), time.Minute, true)

	recs, err := svc.Recommend(context.Background(), "u1", TypeBoth, "Hello", "spain")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, next.calls)
}
