package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/model"
)

// ScanResponse 扫描响应
type ScanResponse struct {
	Result    model.ScanResult `json:"result"`
	Customers int              `json:"customers"`
	Types     []string         `json:"types"`
}

// Scan 扫描原始数据目录并替换当前快照
// POST /api/scan
func (h *Handler) Scan(c *gin.Context) {
	res, err := h.scanAndLoad(c.Request.Context(), h.cfg.Get())
	if err != nil {
		h.respondError(c, err)
		return
	}
	idx := h.session.Index()
	c.JSON(http.StatusOK, ScanResponse{
		Result:    res,
		Customers: len(idx.Customers()),
		Types:     idx.Types(),
	})
}

// Process 重新扫描并批量生成所有未生成的对账单
// POST /api/process
func (h *Handler) Process(c *gin.Context) {
	ctx := c.Request.Context()
	cfg := h.cfg.Get()

	res, err := h.scanAndLoad(ctx, cfg)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(res.Items) == 0 {
		h.respondError(c, apperror.NewNoData("未提取到任何数据").WithDetail("scan", res.Message))
		return
	}

	out, err := h.processor.ProcessAll(ctx, cfg, res.Items)
	if err != nil {
		h.logs.Error("批量生成失败: " + err.Error())
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) scanAndLoad(ctx context.Context, cfg config.AppConfig) (model.ScanResult, error) {
	started := time.Now()
	res, err := h.scanner.ScanAndValidate(ctx, cfg.Paths.RawDataPath)
	if err != nil {
		h.logs.Error("扫描失败: " + err.Error())
		return model.ScanResult{}, apperror.NewInternal(err)
	}

	// 扫描未执行（如目录不存在）时保留当前快照
	if scanRan(res) {
		h.session.Load(res.Items)
	}

	if h.history != nil {
		if _, err := h.history.RecordScan(ctx, cfg.Paths.RawDataPath, started, res); err != nil {
			h.log.Warnw("record scan failed", "error", err)
		}
	}
	return res, nil
}

// scanRan 扫描是否实际执行；执行过的扫描即使有错误文件也替换快照
func scanRan(res model.ScanResult) bool {
	return res.Success || res.TotalFiles > 0
}
