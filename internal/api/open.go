package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/apperror"
)

// OpenRequest 打开路径
type OpenRequest struct {
	Path string `json:"path" binding:"required"`
}

// OpenPath 在系统文件管理器中打开文件或目录；打开失败只记录日志
// POST /api/open
func (h *Handler) OpenPath(c *gin.Context) {
	var req OpenRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if _, err := os.Stat(req.Path); errors.Is(err, os.ErrNotExist) {
		h.respondError(c, apperror.NewNotFound("路径", req.Path))
		return
	}

	if err := h.open(req.Path); err != nil {
		h.logs.Error("无法打开: " + req.Path + ": " + err.Error())
		c.JSON(http.StatusOK, gin.H{"opened": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"opened": true})
}
