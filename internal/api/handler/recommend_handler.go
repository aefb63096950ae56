package handler

import (
	"Resonance/internal/api/config"
	"Resonance/internal/api/dto"
	"Resonance/internal/pkg/response"
	"Resonance/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type RecommendHandler struct {
	recommendSvc service.RecommendService
	svcCfg       config.ServiceConfig
}

func NewRecommendHandler(recommendSvc service.RecommendService, svcCfg config.ServiceConfig) *RecommendHandler {
	return &RecommendHandler{
		recommendSvc: recommendSvc,
		svcCfg:       svcCfg,
	}
}

// Recommend hashtag 在进入缓存层之前小写化，phrase 保持原样
func (s *RecommendHandler) Recommend(c *gin.Context) {
	var q dto.RecommendQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	recs, err := s.recommendSvc.Recommend(
		c.Request.Context(),
		q.UserID,
		q.Type,
		q.Phrase,
		strings.ToLower(q.Hashtag),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Recommendations(c, &dto.RecommendResponse{
		TeamID:           s.svcCfg.TeamID,
		TeamAWSAccountID: s.svcCfg.TeamAWSAccountID,
		Recommendations:  recs,
	})
}
