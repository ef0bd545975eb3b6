package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/workflow"
)

// GenerateRequest 生成请求；为空时使用当前选择
type GenerateRequest struct {
	Customer string `json:"customer"`
	Month    string `json:"month"`
}

// Generate 生成当前选择的对账单；文件已存在时进入待确认状态
// POST /api/generate
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	if h.session.Workflow().Status().State.InFlight() {
		h.respondStatus(c, h.session.Workflow().Status(), apperror.NewBusy())
		return
	}

	if req.Customer != "" {
		if _, err := h.session.SelectCustomer(req.Customer); err != nil {
			h.respondError(c, err)
			return
		}
	}
	if req.Month != "" {
		if err := h.session.SelectMonth(req.Month); err != nil {
			h.respondError(c, err)
			return
		}
	}

	st, err := h.session.GenerateSelected(c.Request.Context(), h.cfg.Get())
	h.respondStatus(c, st, err)
}

// ConfirmGenerate 确认覆盖已存在的对账单
// POST /api/generate/confirm
func (h *Handler) ConfirmGenerate(c *gin.Context) {
	st, err := h.session.Workflow().Confirm(c.Request.Context())
	h.respondStatus(c, st, err)
}

// CancelGenerate 取消覆盖
// POST /api/generate/cancel
func (h *Handler) CancelGenerate(c *gin.Context) {
	st, err := h.session.Workflow().Decline()
	h.respondStatus(c, st, err)
}

// GetGenerateState 生成流程状态
// GET /api/generate/state
func (h *Handler) GetGenerateState(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Workflow().Status())
}

func (h *Handler) respondStatus(c *gin.Context, st workflow.Status, err error) {
	if err != nil {
		appErr := apperror.ToAppError(err)
		h.respondError(c, appErr.WithDetail("state", st))
		return
	}
	c.JSON(http.StatusOK, st)
}
