package wire

import (
	"Resonance/internal/api"
	"Resonance/internal/api/config"
	"Resonance/internal/api/handler"
	"Resonance/internal/job"
	"Resonance/internal/pkg/cache"
	"Resonance/internal/pkg/consts"
	"Resonance/internal/pkg/cron"
	"Resonance/internal/pkg/kafka"
	"Resonance/internal/repository"
	"Resonance/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepo(db)
	userRepo := repository.NewUserRepo(db)
	ingestRepo := repository.NewIngestRepo(db)

	recommendService := service.NewRecommendService(postRepo, userRepo, cfg.Scoring.Attribution)
	recommendService = service.NewCachedRecommendService(
		recommendService,
		buildResultCache(cfg.Cache),
		cacheTTL(cfg.Cache),
		cfg.Cache.SingleFlight,
	)

	handlers := &api.HandlersGroup{
		RecommendHandler: handler.NewRecommendHandler(recommendService, cfg.Service),
	}

	router := api.SetupRouter(handlers)

	spoolJob := job.NewSpoolJob(ingestRepo, cfg.Ingest.BatchSize, cfg.Ingest.SpoolDir)
	cronMgr := cron.NewCronManager(spoolJob, cfg.Ingest.SpoolSchedule)

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, ingestRepo)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}

func buildResultCache(cfg config.CacheConfig) cache.ResultCache {
	if cfg.Backend == "redis" {
		return cache.NewRedisCache()
	}
	return cache.NewMemoryCache()
}

func cacheTTL(cfg config.CacheConfig) time.Duration {
	if cfg.TTLSeconds > 0 {
		return time.Duration(cfg.TTLSeconds) * time.Second
	}
	return consts.RecommendCacheTTL
}
