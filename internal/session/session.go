// Package session 保存当前会话的数据快照与选择状态，并持有生成流程。
package session

import (
	"context"
	"sync"

	"github.com/orcapzh/ana/internal/analytics"
	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/ledger"
	"github.com/orcapzh/ana/internal/model"
	"github.com/orcapzh/ana/internal/workflow"
)

// Selection 当前选择
type Selection struct {
	TypeFilter string `json:"typeFilter"`
	Search     string `json:"search"`
	Customer   string `json:"customer"`
	Month      string `json:"month"`
	Scope      string `json:"scope"`
}

type analyticsCache struct {
	version uint64
	scope   string
	result  *analytics.Result
	ok      bool
	valid   bool
}

// Session 会话状态。记录集与索引是整体替换的快照，从不局部修改。
type Session struct {
	mu sync.RWMutex

	records []model.Record
	index   *ledger.Index
	version uint64

	sel   Selection
	cache analyticsCache

	workflow *workflow.Workflow
}

// New 创建会话
func New(wf *workflow.Workflow) *Session {
	return &Session{
		index:    ledger.BuildIndex(nil),
		sel:      Selection{TypeFilter: ledger.TypeAll, Scope: analytics.ScopeAll},
		workflow: wf,
	}
}

// Load 用新的扫描结果替换快照，并清空选择
func (s *Session) Load(records []model.Record) {
	snapshot := make([]model.Record, len(records))
	copy(snapshot, records)
	idx := ledger.BuildIndex(snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snapshot
	s.index = idx
	s.version++
	s.sel.Customer = ""
	s.sel.Month = ""
	if s.sel.Scope != analytics.ScopeAll && !idx.Has(s.sel.Scope) {
		s.sel.Scope = analytics.ScopeAll
	}
}

// Records 当前记录集（只读）
func (s *Session) Records() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Index 当前索引快照
func (s *Session) Index() *ledger.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Selection 当前选择
func (s *Session) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel
}

// SetFilter 设置客户类型过滤与搜索关键字
func (s *Session) SetFilter(typeFilter, search string) {
	if typeFilter == "" {
		typeFilter = ledger.TypeAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.TypeFilter = typeFilter
	s.sel.Search = search
}

// VisibleCustomers 过滤后的客户列表
func (s *Session) VisibleCustomers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.FilteredCustomers(s.index, s.sel.TypeFilter, s.sel.Search)
}

// SelectCustomer 选择客户并自动选中最近的月份（没有月份时为空）
func (s *Session) SelectCustomer(customer string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.index.Has(customer) {
		return "", apperror.NewNotFound("客户", customer)
	}
	s.sel.Customer = customer
	s.sel.Month = ""
	if months := ledger.CustomerMonths(s.index, customer); len(months) > 0 {
		s.sel.Month = months[0]
	}
	return s.sel.Month, nil
}

// SelectMonth 选择当前客户的月份
func (s *Session) SelectMonth(month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.Customer == "" {
		return apperror.NewValidation("请先选择客户")
	}
	if len(s.index.Bucket(s.sel.Customer, month)) == 0 {
		return apperror.NewNotFound("月份", month)
	}
	s.sel.Month = month
	return nil
}

// SelectedBucket 当前选中月份的条目
func (s *Session) SelectedBucket() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedBucketLocked()
}

func (s *Session) selectedBucketLocked() []model.Record {
	if s.sel.Customer == "" || s.sel.Month == "" {
		return nil
	}
	return s.index.Bucket(s.sel.Customer, s.sel.Month)
}

// SelectedSummary 当前选中月份的汇总
func (s *Session) SelectedSummary() ledger.Summary {
	return ledger.Summarize(s.SelectedBucket())
}

// SetScope 设置分析范围（all 或客户名）
func (s *Session) SetScope(scope string) {
	if scope == "" {
		scope = analytics.ScopeAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Scope = scope
}

// Analytics 当前范围的分析结果；只有记录集或范围变化时才重新计算
func (s *Session) Analytics() (*analytics.Result, bool) {
	s.mu.RLock()
	c := s.cache
	version, scope, records := s.version, s.sel.Scope, s.records
	s.mu.RUnlock()

	if c.valid && c.version == version && c.scope == scope {
		return c.result, c.ok
	}

	result, ok := analytics.Analyze(records, scope)

	s.mu.Lock()
	if s.version == version && s.sel.Scope == scope {
		s.cache = analyticsCache{version: version, scope: scope, result: result, ok: ok, valid: true}
	}
	s.mu.Unlock()
	return result, ok
}

// Workflow 生成流程
func (s *Session) Workflow() *workflow.Workflow {
	return s.workflow
}

// GenerateSelected 为当前选中的客户/月份发起生成
func (s *Session) GenerateSelected(ctx context.Context, cfg config.AppConfig) (workflow.Status, error) {
	s.mu.RLock()
	sel := s.sel
	items := s.selectedBucketLocked()
	s.mu.RUnlock()

	return s.workflow.Generate(ctx, workflow.Request{
		Config:   cfg,
		Items:    items,
		Customer: sel.Customer,
		Month:    sel.Month,
	})
}
