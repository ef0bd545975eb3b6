package api

import (
	"errors"
	"maps"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/logger"
)

// respondError 统一错误响应 {"error": {"code","message","details"}}
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperror.ToAppError(err)
	status := apperror.HTTPStatus(appErr)
	details := appErr.Details
	if status >= http.StatusInternalServerError {
		log := logger.FromContext(c.Request.Context(), h.log)
		log.Errorw("request failed", "path", c.FullPath(), "error", err)
		// 5xx 附带底层错误文本
		if appErr.Err != nil {
			details = maps.Clone(details)
			if details == nil {
				details = make(map[string]any, 1)
			}
			details["cause"] = appErr.Err.Error()
		}
	}
	c.JSON(status, gin.H{"error": gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": details,
	}})
}

// bindJSON 解析请求体，校验失败时返回 VALIDATION_ERROR
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) *apperror.AppError {
	appErr := apperror.NewValidation("请求参数错误")
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			appErr.WithDetail(fe.Field(), fe.Tag())
		}
		return appErr
	}
	return appErr.WithCause(err)
}

// queryLimit 解析 limit 参数，缺省或非法时使用 def
func queryLimit(c *gin.Context, def int) int {
	v, err := strconv.Atoi(c.Query("limit"))
	if err != nil || v <= 0 {
		return def
	}
	return min(v, 1000)
}
