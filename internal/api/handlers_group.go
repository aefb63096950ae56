package api

import (
	"Resonance/internal/api/handler"
)

// HandlersGroup 聚合所有 HTTP Handler
type HandlersGroup struct {
	RecommendHandler *handler.RecommendHandler
}
