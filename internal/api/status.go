package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/session"
	"github.com/orcapzh/ana/internal/workflow"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized   bool              `json:"initialized"`   // 是否已扫描到数据
	RecordCount   int               `json:"recordCount"`   // 条目数
	CustomerCount int               `json:"customerCount"` // 客户数
	Types         []string          `json:"types"`         // 客户类型
	Selection     session.Selection `json:"selection"`     // 当前选择
	Generate      workflow.Status   `json:"generate"`      // 生成流程状态
	ConfigPath    string            `json:"configPath"`    // 配置文件路径
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	idx := h.session.Index()
	c.JSON(http.StatusOK, StatusResponse{
		Initialized:   idx.RecordCount() > 0,
		RecordCount:   idx.RecordCount(),
		CustomerCount: len(idx.Customers()),
		Types:         idx.Types(),
		Selection:     h.session.Selection(),
		Generate:      h.session.Workflow().Status(),
		ConfigPath:    h.cfg.Path(),
	})
}
