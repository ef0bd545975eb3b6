package scanner

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/orcapzh/ana/internal/model"
)

const (
	msgEmptyFile   = "该文件未包含有效数据或格式不匹配"
	msgInvalidDate = "无法识别的日期格式或日期无效"
)

var (
	dateLayouts    = []string{"2006-1-2", "2006/1/2", "2006年1月2日"}
	filenameDateRe = regexp.MustCompile(`(\d{4})[-.](\d{1,2})[-.](\d{1,2})`)
)

// ParseDate 解析送货日期，支持 YYYY-MM-DD、YYYY/MM/DD、YYYY年MM月DD日
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(msgInvalidDate)
}

// FilenameDate 从文件名中提取日期（YYYY-MM-DD 或 YYYY.MM.DD）
func FilenameDate(name string) (time.Time, bool) {
	m := filenameDateRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	// 拒绝 2024-02-30 这类会被 time.Date 归一化的日期
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// parsedFile 单个文件的解析结果
type parsedFile struct {
	src   model.SourceFile
	items []model.Record
	err   error
}

type orderKey struct {
	customer string
	orderNo  string
}

// validation 按发现顺序逐个校验文件
type validation struct {
	items    []model.Record
	errors   []model.FileDiagnostic
	warnings []model.FileDiagnostic
	orders   map[orderKey]string
}

func validate(files []parsedFile) validation {
	v := validation{orders: make(map[orderKey]string)}
	for _, pf := range files {
		v.file(pf)
	}

	// 同一警告可能在循环中重复出现
	slices.SortFunc(v.warnings, compareDiagnostic)
	v.warnings = slices.Compact(v.warnings)
	return v
}

func (v *validation) file(pf parsedFile) {
	path := pf.src.Path
	if pf.err != nil {
		v.errors = append(v.errors, model.FileDiagnostic{File: path, Error: fmt.Sprintf("解析失败: %v", pf.err)})
		return
	}
	if len(pf.items) == 0 {
		v.warnings = append(v.warnings, model.FileDiagnostic{File: path, Error: msgEmptyFile})
		return
	}

	fileDate, hasFileDate := FilenameDate(filepath.Base(path))
	hasError := false
	badDates := make(map[string]struct{})

	for _, item := range pf.items {
		contentDate, err := ParseDate(item.Date)
		if err != nil {
			hasError = true
			if _, seen := badDates[item.Date]; !seen {
				badDates[item.Date] = struct{}{}
				v.errors = append(v.errors, model.FileDiagnostic{
					File:  path,
					Error: fmt.Sprintf("日期错误 '%s': %v", item.Date, err),
				})
			}
		} else if hasFileDate && !fileDate.Equal(contentDate) {
			msg := fmt.Sprintf("日期不一致: 文件名日期 (%s) 与内容日期 (%s) 不同",
				fileDate.Format("2006-01-02"), contentDate.Format("2006-01-02"))
			v.warnings = append(v.warnings, model.FileDiagnostic{File: path, Error: msg})
		}

		if item.DeliveryOrderNo == "" {
			continue
		}
		key := orderKey{customer: item.Customer, orderNo: item.DeliveryOrderNo}
		existing, ok := v.orders[key]
		if !ok {
			v.orders[key] = path
			continue
		}
		if existing != path {
			msg := fmt.Sprintf("送货单号重复: 客户 '%s' 的单号 '%s' 已在文件 '%s' 中存在",
				item.Customer, item.DeliveryOrderNo, baseName(existing))
			v.warnings = append(v.warnings, model.FileDiagnostic{File: path, Error: msg})
		}
	}

	if !hasError {
		v.items = append(v.items, pf.items...)
	}
}

// validFiles 没有任何错误或警告的文件数
func (v *validation) validFiles(total int) int {
	flagged := make(map[string]struct{})
	for _, d := range v.errors {
		flagged[d.File] = struct{}{}
	}
	for _, d := range v.warnings {
		flagged[d.File] = struct{}{}
	}
	return max(total-len(flagged), 0)
}

func compareDiagnostic(a, b model.FileDiagnostic) int {
	return cmp.Or(strings.Compare(a.File, b.File), strings.Compare(a.Error, b.Error))
}

// baseName 兼容 / 与 \ 分隔的路径
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
