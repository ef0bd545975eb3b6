// Package statement 生成客户月度对账单 Excel 文件。
package statement

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/ledger"
	"github.com/orcapzh/ana/internal/logger"
	"github.com/orcapzh/ana/internal/model"
	"github.com/orcapzh/ana/internal/store"
)

// History 生成记录
type History interface {
	RecordStatement(ctx context.Context, rec store.StatementRecord) (string, error)
}

// Renderer 对账单渲染服务
type Renderer struct {
	logs    *logger.Stream
	history History
}

// NewRenderer 创建渲染服务，history 可为 nil
func NewRenderer(logs *logger.Stream, history History) *Renderer {
	if logs == nil {
		logs = logger.NewStream(nil, 0)
	}
	return &Renderer{logs: logs, history: history}
}

var unsafePathChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// FileName 对账单文件名 statement_<客户>_<YYYY-MM>.xlsx；无法解析的月份标签原样使用
func FileName(customer, month string) string {
	ym, _ := ledger.LabelYearMonth(month)
	return unsafePathChars.Replace(fmt.Sprintf("statement_%s_%s.xlsx", customer, ym))
}

// FilePath 对账单输出路径 <输出目录>/<客户>/<文件名>
func FilePath(outputDir, customer, month string) string {
	return filepath.Join(outputDir, unsafePathChars.Replace(customer), FileName(customer, month))
}

// GenerateSingleStatement 为一个客户的一个月份生成对账单
// 文件已存在且 overwrite=false 时返回 FILE_EXISTS 错误
func (r *Renderer) GenerateSingleStatement(ctx context.Context, cfg config.AppConfig, items []model.Record, customer, month string, overwrite bool) (model.GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return model.GenerateResult{}, err
	}
	if !cfg.HasOutputPath() {
		return model.GenerateResult{}, apperror.NewConfig("请先设置输出目录")
	}
	if len(items) == 0 {
		return model.GenerateResult{}, apperror.NewNoData("所选月份没有数据")
	}
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return model.GenerateResult{}, apperror.NewValidation("客户名称不能为空")
	}

	path := FilePath(cfg.Paths.OutputPath, customer, month)
	existed := fileExists(path)
	if existed && !overwrite {
		return model.GenerateResult{}, apperror.NewFileExists(filepath.Base(path))
	}

	if err := r.write(cfg.Company, items, customer, month, path); err != nil {
		r.logs.Error(fmt.Sprintf("生成对账单失败: %s %s: %v", customer, month, err))
		return model.GenerateResult{}, apperror.NewInternal(err)
	}
	r.record(ctx, customer, month, path, items, existed)

	if existed {
		r.logs.Success(fmt.Sprintf("已覆盖对账单: %s", path))
	} else {
		r.logs.Success(fmt.Sprintf("已生成对账单: %s", path))
	}
	return model.GenerateResult{Success: true, Message: "对账单生成成功", FilePath: path}, nil
}

// ProcessAll 批量生成所有 客户+月份 的对账单，已存在的文件跳过
func (r *Renderer) ProcessAll(ctx context.Context, cfg config.AppConfig, records []model.Record) (model.ProcessResult, error) {
	if !cfg.HasOutputPath() {
		return model.ProcessResult{}, apperror.NewConfig("请先设置输出目录")
	}
	if len(records) == 0 {
		return model.ProcessResult{}, apperror.NewNoData("未提取到任何数据")
	}

	output := cfg.Paths.OutputPath
	if err := os.MkdirAll(output, 0755); err != nil {
		return model.ProcessResult{}, fmt.Errorf("创建输出目录失败: %w", err)
	}

	idx := ledger.BuildIndex(records)
	r.logs.Info("开始生成对账单...")

	res := model.ProcessResult{OutputPath: output}
	for _, customer := range idx.Customers() {
		for _, month := range ledger.CustomerMonths(idx, customer) {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			path := FilePath(output, customer, month)
			if fileExists(path) {
				r.logs.Info(fmt.Sprintf("已存在，跳过: %s %s", customer, month))
				res.SkippedCount++
				continue
			}

			items := idx.Bucket(customer, month)
			r.logs.Info(fmt.Sprintf("生成: %s %s", customer, month))
			if err := r.write(cfg.Company, items, customer, month, path); err != nil {
				r.logs.Error(fmt.Sprintf("生成对账单失败: %s %s: %v", customer, month, err))
				return res, fmt.Errorf("生成对账单失败: %w", err)
			}
			r.record(ctx, customer, month, path, items, false)
			res.GeneratedCount++
		}
	}

	r.logs.Success("所有对账单生成完成！")
	r.logs.Info(fmt.Sprintf("新生成: %d 个对账单", res.GeneratedCount))
	r.logs.Info(fmt.Sprintf("已跳过: %d 个对账单", res.SkippedCount))

	res.Success = true
	res.Message = "处理完成"
	return res, nil
}

func (r *Renderer) write(company config.CompanyConfig, items []model.Record, customer, month, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建客户文件夹失败: %w", err)
	}

	f, err := buildWorkbook(company, items, customer, month)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (r *Renderer) record(ctx context.Context, customer, month, path string, items []model.Record, overwritten bool) {
	if r.history == nil {
		return
	}
	amount := decimal.Zero
	for _, it := range items {
		amount = amount.Add(decimal.NewFromFloat(it.Amount))
	}
	_, err := r.history.RecordStatement(ctx, store.StatementRecord{
		Customer:    customer,
		Month:       month,
		FilePath:    path,
		ItemCount:   len(items),
		Amount:      amount.Round(2).InexactFloat64(),
		Overwritten: overwritten,
	})
	if err != nil {
		r.logs.Warn(fmt.Sprintf("记录生成历史失败: %v", err))
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
