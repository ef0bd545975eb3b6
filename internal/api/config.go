package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
)

// GetConfig 获取配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg.Get())
}

// UpdateConfig 保存配置
// PUT /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req config.AppConfig
	if !h.bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(c, apperror.NewValidation(err.Error()))
		return
	}
	if err := h.cfg.Update(req); err != nil {
		h.logs.Error("保存配置失败: " + err.Error())
		h.respondError(c, apperror.NewInternal(err))
		return
	}
	h.logs.Success("配置已保存")
	c.JSON(http.StatusOK, h.cfg.Get())
}
