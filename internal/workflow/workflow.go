// Package workflow 实现单张对账单的生成流程：请求、冲突确认覆盖、失败终止。
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/logger"
	"github.com/orcapzh/ana/internal/model"
)

// Renderer 对账单渲染服务
type Renderer interface {
	GenerateSingleStatement(ctx context.Context, cfg config.AppConfig, items []model.Record, customer, month string, overwrite bool) (model.GenerateResult, error)
}

// Request 一次生成请求
type Request struct {
	Config   config.AppConfig
	Items    []model.Record
	Customer string
	Month    string
}

// Status 流程状态快照
type Status struct {
	State    State  `json:"state"`
	Customer string `json:"customer,omitempty"`
	Month    string `json:"month,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}

// Workflow 生成流程状态机，同一时间只允许一个请求在途
type Workflow struct {
	mu       sync.Mutex
	renderer Renderer
	logs     *logger.Stream

	state   State
	pending *Request
	status  Status
}

// New 创建流程
func New(renderer Renderer, logs *logger.Stream) *Workflow {
	if logs == nil {
		logs = logger.NewStream(nil, 0)
	}
	return &Workflow{
		renderer: renderer,
		logs:     logs,
		state:    StateIdle,
		status:   Status{State: StateIdle},
	}
}

// Status 当前状态
func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Generate 发起生成。前置条件不满足时直接失败，不调用渲染服务。
// 处于冲突待确认状态时再次发起，视为放弃上一次覆盖。
func (w *Workflow) Generate(ctx context.Context, req Request) (Status, error) {
	w.mu.Lock()
	if w.state.InFlight() {
		w.mu.Unlock()
		return w.Status(), apperror.NewBusy()
	}
	if w.state == StateConflict {
		w.declineLocked()
	}

	w.status = Status{State: w.state, Customer: req.Customer, Month: req.Month}
	if err := checkRequest(req); err != nil {
		w.failLocked(err)
		st := w.status
		w.mu.Unlock()
		return st, err
	}

	if err := w.transitionLocked(evStart); err != nil {
		w.mu.Unlock()
		return w.Status(), apperror.NewInternal(err)
	}
	w.logs.Info(fmt.Sprintf("正在生成 %s %s 的对账单...", req.Customer, req.Month))
	w.mu.Unlock()

	return w.call(ctx, req, false)
}

// Confirm 用户确认覆盖，使用 overwrite=true 重新请求一次；再次失败即终止
func (w *Workflow) Confirm(ctx context.Context) (Status, error) {
	w.mu.Lock()
	if w.state != StateConflict || w.pending == nil {
		st := w.status
		w.mu.Unlock()
		return st, apperror.NewValidation("当前没有待确认的覆盖请求")
	}
	req := *w.pending
	w.pending = nil
	if err := w.transitionLocked(evConfirm); err != nil {
		w.mu.Unlock()
		return w.Status(), apperror.NewInternal(err)
	}
	w.status.Prompt = ""
	w.logs.Info(fmt.Sprintf("确认覆盖，重新生成 %s %s 的对账单...", req.Customer, req.Month))
	w.mu.Unlock()

	return w.call(ctx, req, true)
}

// Decline 用户取消覆盖
func (w *Workflow) Decline() (Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateConflict {
		return w.status, apperror.NewValidation("当前没有待确认的覆盖请求")
	}
	w.declineLocked()
	return w.status, nil
}

// Run 同步执行完整流程，冲突时调用 confirm 询问是否覆盖
func (w *Workflow) Run(ctx context.Context, req Request, confirm func(prompt string) bool) (Status, error) {
	st, err := w.Generate(ctx, req)
	if st.State != StateConflict {
		return st, err
	}
	if confirm != nil && confirm(st.Prompt) {
		return w.Confirm(ctx)
	}
	return w.Decline()
}

func (w *Workflow) call(ctx context.Context, req Request, overwrite bool) (Status, error) {
	res, err := w.renderer.GenerateSingleStatement(ctx, req.Config, req.Items, req.Customer, req.Month, overwrite)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.Attempts++

	switch {
	case err == nil && res.Success:
		_ = w.transitionLocked(evSuccess)
		w.status.FilePath = res.FilePath
		w.status.Error = ""
		w.logs.Success(fmt.Sprintf("对账单已生成: %s", res.FilePath))
		return w.status, nil

	case err == nil:
		msg := res.Message
		if msg == "" {
			msg = "渲染服务返回失败"
		}
		err = errors.New(msg)

	case !overwrite && apperror.IsFileExists(err):
		_ = w.transitionLocked(evConflict)
		copied := req
		w.pending = &copied
		w.status.Prompt = fmt.Sprintf("%s %s 的对账单已存在，是否覆盖？", req.Customer, req.Month)
		w.logs.Warn(fmt.Sprintf("%s %s 的对账单已存在，等待确认是否覆盖", req.Customer, req.Month))
		return w.status, nil
	}

	w.failLocked(err)
	return w.status, err
}

func (w *Workflow) failLocked(err error) {
	if to, terr := w.state.next(evFailure); terr == nil {
		w.state = to
	} else {
		w.state = StateFailed
	}
	w.status.State = w.state
	w.status.Error = err.Error()
	w.logs.Error(fmt.Sprintf("生成失败: %s", err.Error()))
}

func (w *Workflow) declineLocked() {
	_ = w.transitionLocked(evDecline)
	w.logs.Info(fmt.Sprintf("已取消覆盖 %s %s 的对账单", w.status.Customer, w.status.Month))
	w.pending = nil
	w.status.Prompt = ""
}

func (w *Workflow) transitionLocked(ev event) error {
	to, err := w.state.next(ev)
	if err != nil {
		return err
	}
	w.state = to
	w.status.State = to
	return nil
}

func checkRequest(req Request) error {
	if !req.Config.HasOutputPath() {
		return apperror.NewConfig("请先设置输出目录")
	}
	if len(req.Items) == 0 {
		return apperror.NewNoData("所选月份没有数据")
	}
	return nil
}
