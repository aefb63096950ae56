package response

import (
	"Resonance/internal/api/dto"
	"Resonance/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Recommendations 成功返回封装
func Recommendations(c *gin.Context, data *dto.RecommendResponse) {
	c.JSON(http.StatusOK, data)
}

// Error 处理错误：参数校验失败归为缺参，未登记的错误一律按内部错误兜底
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		err = service.ErrMissingParams
	}

	code, ok := service.ErrorMap[err]
	if !ok {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
		code = service.InternalServerError
		err = service.ErrUnexpected
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
