// Package scanner 扫描原始数据目录，解析并校验送货单。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/orcapzh/ana/internal/logger"
	"github.com/orcapzh/ana/internal/model"
)

// 扫描结果提示
const (
	MsgRootMissing = "原始数据目录不存在"
	MsgNoFiles     = "未找到 Excel 文件"
	MsgAllValid    = "数据验证通过"
)

// Scanner 原始数据扫描服务
type Scanner struct {
	logs    *logger.Stream
	workers int
}

// New 创建扫描服务
func New(logs *logger.Stream) *Scanner {
	if logs == nil {
		logs = logger.NewStream(nil, 0)
	}
	return &Scanner{
		logs:    logs,
		workers: min(runtime.NumCPU(), 8),
	}
}

// WithWorkers 设置并行解析的文件数
func (s *Scanner) WithWorkers(n int) *Scanner {
	if n > 0 {
		s.workers = n
	}
	return s
}

// ScanAndValidate 扫描目录、解析所有送货单并校验
// 目录不存在或没有文件时不返回 error，由结果中的 Success/Message 体现
func (s *Scanner) ScanAndValidate(ctx context.Context, root string) (model.ScanResult, error) {
	empty := model.ScanResult{
		Errors:   []model.FileDiagnostic{},
		Warnings: []model.FileDiagnostic{},
		Items:    []model.Record{},
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		s.logs.Error(fmt.Sprintf("%s: %s", MsgRootMissing, root))
		res := empty
		res.Message = MsgRootMissing
		return res, nil
	}

	s.logs.Info(fmt.Sprintf("开始扫描 Excel 文件: %s", root))
	files, err := Discover(root)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("扫描文件失败: %w", err)
	}
	if len(files) == 0 {
		s.logs.Warn(MsgNoFiles)
		res := empty
		res.Success = true
		res.Message = MsgNoFiles
		return res, nil
	}
	s.logs.Info(fmt.Sprintf("找到 %d 个 Excel 文件", len(files)))

	parsed, err := s.parseAll(ctx, files)
	if err != nil {
		return model.ScanResult{}, err
	}

	v := validate(parsed)
	res := model.ScanResult{
		Success:    len(v.errors) == 0,
		TotalFiles: len(files),
		ValidFiles: v.validFiles(len(files)),
		Errors:     nonNil(v.errors),
		Warnings:   nonNil(v.warnings),
		Items:      v.items,
	}
	if res.Items == nil {
		res.Items = []model.Record{}
	}

	for _, d := range res.Errors {
		s.logs.Error(fmt.Sprintf("%s: %s", baseName(d.File), d.Error))
	}
	for _, d := range res.Warnings {
		s.logs.Warn(fmt.Sprintf("%s: %s", baseName(d.File), d.Error))
	}

	switch {
	case len(v.errors) > 0:
		res.Message = fmt.Sprintf("发现 %d 个文件存在问题", len(v.errors))
		s.logs.Error(res.Message)
	case len(v.warnings) > 0:
		res.Message = fmt.Sprintf("%s，但发现 %d 个警告", MsgAllValid, len(v.warnings))
		s.logs.Warn(res.Message)
	default:
		res.Message = MsgAllValid
		s.logs.Success(fmt.Sprintf("%s，共 %d 条记录", MsgAllValid, len(res.Items)))
	}
	return res, nil
}

// parseAll 并行解析，结果顺序与发现顺序一致
func (s *Scanner) parseAll(ctx context.Context, files []model.SourceFile) ([]parsedFile, error) {
	out := make([]parsedFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, src := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items, err := ParseDeliveryOrder(src)
			out[i] = parsedFile{src: src, items: items, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logs.Warn("扫描已取消")
		}
		return nil, err
	}
	return out, nil
}

func nonNil(d []model.FileDiagnostic) []model.FileDiagnostic {
	if d == nil {
		return []model.FileDiagnostic{}
	}
	return d
}
