// Package api 提供对账工具的 HTTP 接口。
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/logger"
	"github.com/orcapzh/ana/internal/model"
	"github.com/orcapzh/ana/internal/session"
	"github.com/orcapzh/ana/internal/store"
)

// Scanner 原始数据扫描服务
type Scanner interface {
	ScanAndValidate(ctx context.Context, root string) (model.ScanResult, error)
}

// Processor 批量生成服务
type Processor interface {
	ProcessAll(ctx context.Context, cfg config.AppConfig, records []model.Record) (model.ProcessResult, error)
}

// History 历史记录存储
type History interface {
	RecordScan(ctx context.Context, root string, startedAt time.Time, res model.ScanResult) (string, error)
	ListScans(ctx context.Context, limit int) ([]store.ScanRun, error)
	ListStatements(ctx context.Context, customer string, limit int) ([]store.StatementRecord, error)
	ListLogs(ctx context.Context, limit int) ([]model.LogEntry, error)
	GetAllSettings() (map[string]string, error)
	SetSetting(key, value string) error
}

// Opener 在系统中打开文件或目录
type Opener func(path string) error

// Deps 处理器依赖
type Deps struct {
	Config    *config.Manager
	Session   *session.Session
	Scanner   Scanner
	Processor Processor
	History   History // 可为 nil
	Logs      *logger.Stream
	Logger    *logger.Logger
	Open      Opener
}

// Handler API 处理器
type Handler struct {
	cfg       *config.Manager
	session   *session.Session
	scanner   Scanner
	processor Processor
	history   History
	logs      *logger.Stream
	log       *logger.Logger
	open      Opener

	heartbeat time.Duration
}

// NewHandler 创建 API 处理器
func NewHandler(d Deps) *Handler {
	l := d.Logger
	if l == nil {
		l = logger.Nop()
	}
	logs := d.Logs
	if logs == nil {
		logs = logger.NewStream(l, 0)
	}
	open := d.Open
	if open == nil {
		open = func(string) error { return nil }
	}
	return &Handler{
		cfg:       d.Config,
		session:   d.Session,
		scanner:   d.Scanner,
		processor: d.Processor,
		history:   d.History,
		logs:      logs,
		log:       l.WithComponent("api"),
		open:      open,
		heartbeat: 15 * time.Second,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 配置管理
	router.GET("/config", h.GetConfig)
	router.PUT("/config", h.UpdateConfig)

	// 扫描原始数据
	router.POST("/scan", h.Scan)

	// 客户与月份
	router.GET("/customers", h.ListCustomers)
	router.GET("/customers/:name/months", h.ListMonths)
	router.POST("/select", h.Select)
	router.GET("/bucket", h.GetBucket)
	router.GET("/products", h.ListProducts)

	// 统计分析
	router.GET("/analytics", h.GetAnalytics)

	// 对账单生成
	router.POST("/generate", h.Generate)
	router.POST("/generate/confirm", h.ConfirmGenerate)
	router.POST("/generate/cancel", h.CancelGenerate)
	router.GET("/generate/state", h.GetGenerateState)
	router.POST("/process", h.Process)

	// 打开文件/目录
	router.POST("/open", h.OpenPath)

	// 日志
	router.GET("/logs", h.ListLogs)
	router.DELETE("/logs", h.ClearLogs)
	router.GET("/logs/stream", h.StreamLogs)

	// 历史记录
	router.GET("/history/scans", h.ListScanHistory)
	router.GET("/history/statements", h.ListStatementHistory)
}

// RestoreSelection 恢复上次保存的客户类型过滤与分析范围
func (h *Handler) RestoreSelection() {
	if h.history == nil {
		return
	}
	settings, err := h.history.GetAllSettings()
	if err != nil {
		h.log.Warnw("restore settings failed", "error", err)
		return
	}
	if v, ok := settings[store.SettingTypeFilter]; ok {
		h.session.SetFilter(v, "")
	}
	if v, ok := settings[store.SettingScope]; ok {
		h.session.SetScope(v)
	}
}

func (h *Handler) saveSetting(key, value string) {
	if h.history == nil {
		return
	}
	if err := h.history.SetSetting(key, value); err != nil {
		h.log.Warnw("save setting failed", "key", key, "error", err)
	}
}
