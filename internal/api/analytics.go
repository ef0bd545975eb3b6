package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/analytics"
	"github.com/orcapzh/ana/internal/store"
)

// AnalyticsResponse 分析结果；范围内没有数据时 available=false
type AnalyticsResponse struct {
	Scope     string            `json:"scope"`
	Available bool              `json:"available"`
	Result    *analytics.Result `json:"result,omitempty"`
}

// GetAnalytics 统计分析
// GET /api/analytics?scope=
func (h *Handler) GetAnalytics(c *gin.Context) {
	if scope, ok := c.GetQuery("scope"); ok {
		h.session.SetScope(scope)
		h.saveSetting(store.SettingScope, h.session.Selection().Scope)
	}

	result, ok := h.session.Analytics()
	c.JSON(http.StatusOK, AnalyticsResponse{
		Scope:     h.session.Selection().Scope,
		Available: ok,
		Result:    result,
	})
}
