package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/ledger"
	"github.com/orcapzh/ana/internal/model"
	"github.com/orcapzh/ana/internal/session"
	"github.com/orcapzh/ana/internal/store"
)

// CustomerItem 客户列表项
type CustomerItem struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	LastActivity string `json:"lastActivity"`
	MonthCount   int    `json:"monthCount"`
}

// MonthItem 月份列表项
type MonthItem struct {
	Month    string  `json:"month"`
	Count    int     `json:"count"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// BucketResponse 客户某月的条目与汇总
type BucketResponse struct {
	Customer string         `json:"customer"`
	Month    string         `json:"month"`
	Items    []model.Record `json:"items"`
	Summary  ledger.Summary `json:"summary"`
}

// SelectRequest 选择客户/月份
type SelectRequest struct {
	Customer string `json:"customer" binding:"required"`
	Month    string `json:"month"`
}

// SelectResponse 选择结果
type SelectResponse struct {
	Selection session.Selection `json:"selection"`
	Bucket    BucketResponse    `json:"bucket"`
}

// ListCustomers 按类型和关键字过滤客户
// GET /api/customers?type=&q=
func (h *Handler) ListCustomers(c *gin.Context) {
	typeFilter := c.DefaultQuery("type", ledger.TypeAll)
	h.session.SetFilter(typeFilter, c.Query("q"))
	h.saveSetting(store.SettingTypeFilter, typeFilter)

	idx := h.session.Index()
	names := h.session.VisibleCustomers()
	items := make([]CustomerItem, 0, len(names))
	for _, name := range names {
		items = append(items, CustomerItem{
			Name:         name,
			Type:         idx.CustomerType(name),
			LastActivity: idx.LastActivity(name),
			MonthCount:   len(idx.Months(name)),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": items,
		"types":     append([]string{ledger.TypeAll}, idx.Types()...),
		"selection": h.session.Selection(),
	})
}

// ListMonths 客户的月份列表（按时间倒序）
// GET /api/customers/:name/months
func (h *Handler) ListMonths(c *gin.Context) {
	name := c.Param("name")
	idx := h.session.Index()
	if !idx.Has(name) {
		h.respondError(c, apperror.NewNotFound("客户", name))
		return
	}

	months := ledger.CustomerMonths(idx, name)
	items := make([]MonthItem, 0, len(months))
	for _, m := range months {
		sum := ledger.Summarize(idx.Bucket(name, m))
		items = append(items, MonthItem{Month: m, Count: sum.Count, Quantity: sum.Quantity, Amount: sum.Amount})
	}
	c.JSON(http.StatusOK, gin.H{"customer": name, "months": items})
}

// Select 选择客户（未指定月份时自动选中最近月份）
// POST /api/select
func (h *Handler) Select(c *gin.Context) {
	var req SelectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if _, err := h.session.SelectCustomer(req.Customer); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Month != "" {
		if err := h.session.SelectMonth(req.Month); err != nil {
			h.respondError(c, err)
			return
		}
	}

	sel := h.session.Selection()
	c.JSON(http.StatusOK, SelectResponse{
		Selection: sel,
		Bucket:    bucketResponse(sel.Customer, sel.Month, h.session.SelectedBucket()),
	})
}

// GetBucket 客户某月的明细，参数缺省时使用当前选择
// GET /api/bucket?customer=&month=
func (h *Handler) GetBucket(c *gin.Context) {
	customer, month := c.Query("customer"), c.Query("month")
	if customer == "" && month == "" {
		sel := h.session.Selection()
		c.JSON(http.StatusOK, bucketResponse(sel.Customer, sel.Month, h.session.SelectedBucket()))
		return
	}

	idx := h.session.Index()
	if !idx.Has(customer) {
		h.respondError(c, apperror.NewNotFound("客户", customer))
		return
	}
	c.JSON(http.StatusOK, bucketResponse(customer, month, idx.Bucket(customer, month)))
}

// ListProducts 商品汇总，可按客户过滤
// GET /api/products?customer=
func (h *Handler) ListProducts(c *gin.Context) {
	records := h.session.Records()
	if customer := c.Query("customer"); customer != "" {
		filtered := make([]model.Record, 0, len(records))
		for _, r := range records {
			if r.Customer == customer {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	c.JSON(http.StatusOK, gin.H{"products": ledger.ProductSummaries(records)})
}

func bucketResponse(customer, month string, items []model.Record) BucketResponse {
	if items == nil {
		items = []model.Record{}
	}
	return BucketResponse{
		Customer: customer,
		Month:    month,
		Items:    items,
		Summary:  ledger.Summarize(items),
	}
}
