package consts

import "time"

const (
	// RecommendCacheKey 推荐结果缓存键前缀
	RecommendCacheKey = "recommend:"

	// RecommendCacheTTL 缺省缓存时长
	RecommendCacheTTL = 300 * time.Second

	// SpoolDoneSuffix 摄入完成的文件重命名后缀
	SpoolDoneSuffix = ".done"
)
