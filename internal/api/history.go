package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/store"
)

// ListScanHistory 扫描历史
// GET /api/history/scans?limit=
func (h *Handler) ListScanHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"scans": []store.ScanRun{}})
		return
	}
	runs, err := h.history.ListScans(c.Request.Context(), queryLimit(c, 50))
	if err != nil {
		h.respondError(c, apperror.NewInternal(err))
		return
	}
	if runs == nil {
		runs = []store.ScanRun{}
	}
	c.JSON(http.StatusOK, gin.H{"scans": runs})
}

// ListStatementHistory 对账单生成历史
// GET /api/history/statements?customer=&limit=
func (h *Handler) ListStatementHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"statements": []store.StatementRecord{}})
		return
	}
	recs, err := h.history.ListStatements(c.Request.Context(), c.Query("customer"), queryLimit(c, 100))
	if err != nil {
		h.respondError(c, apperror.NewInternal(err))
		return
	}
	if recs == nil {
		recs = []store.StatementRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"statements": recs})
}
