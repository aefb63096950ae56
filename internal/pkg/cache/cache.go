package cache

import (
	"Resonance/internal/api/dto"
	"Resonance/internal/pkg/consts"
	"context"
	"strings"
	"time"
)

// ResultCache 推荐结果缓存端口，注入评分引擎的装饰器而非全局使用
type ResultCache interface {
	Get(ctx context.Context, key string) ([]*dto.RecommendationDTO, bool)
	Set(ctx context.Context, key string, recs []*dto.RecommendationDTO, ttl time.Duration)
}

// BuildKey 按查询参数元组确定性拼接缓存键。
// phrase 不做任何归一化，hashtag 的小写化由调用方完成。
func BuildKey(userID, queryType, phrase, hashtag string) string {
	return consts.RecommendCacheKey + strings.Join([]string{userID, queryType, phrase, hashtag}, "|")
}
