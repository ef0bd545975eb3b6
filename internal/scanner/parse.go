package scanner

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/orcapzh/ana/internal/model"
)

// 送货单版式（0 起始的行列号）
const (
	headerRow     = 4 // 第5行：客户、日期
	customerCol   = 1 // B5
	dateCol       = 7 // H5
	firstItemRow  = 8 // 数据从第9行开始
	headerScanEnd = 8 // 单号标签在前8行内查找

	colProduct = 0
	colSpec    = 2
	colQty     = 4
	colUnit    = 5
	colPrice   = 6
	colAmount  = 7

	totalMarker = "合计"
)

// ErrXLSUnsupported 旧版 .xls 无法读取
var ErrXLSUnsupported = errors.New("暂不支持 .xls 格式")

// ParseDeliveryOrder 从送货单文件中提取条目
func ParseDeliveryOrder(src model.SourceFile) ([]model.Record, error) {
	if strings.EqualFold(filepath.Ext(src.Path), ".xls") {
		return nil, ErrXLSUnsupported
	}

	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("工作簿没有工作表")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("无法读取工作表: %w", err)
	}

	return parseRows(rows, src), nil
}

func parseRows(rows [][]string, src model.SourceFile) []model.Record {
	customer := strings.TrimSpace(cellAt(rows, headerRow, customerCol))
	date := excelDateString(cellAt(rows, headerRow, dateCol))
	deliveryNo := labelledValue(rows, isDeliveryNoLabel)
	orderNo := labelledValue(rows, isOrderNoLabel)

	var items []model.Record
	for r := firstItemRow; r < len(rows); r++ {
		first := cellAt(rows, r, colProduct)
		if strings.Contains(first, totalMarker) {
			break
		}

		name := cleanProductName(first)
		if name == "" {
			continue
		}
		qty, ok := parseNumber(cellAt(rows, r, colQty))
		if !ok {
			continue
		}
		price, _ := parseNumber(cellAt(rows, r, colPrice))
		amount, _ := parseNumber(cellAt(rows, r, colAmount))

		items = append(items, model.Record{
			Customer:        customer,
			CustomerType:    src.CustomerType,
			Date:            date,
			DeliveryOrderNo: deliveryNo,
			OrderNo:         orderNo,
			ProductName:     name,
			Spec:            strings.TrimSpace(cellAt(rows, r, colSpec)),
			Unit:            strings.TrimSpace(cellAt(rows, r, colUnit)),
			Quantity:        qty,
			UnitPrice:       price,
			Amount:          amount,
			SourceFile:      src.Path,
		})
	}
	return items
}

func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) || c < 0 || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

func cleanProductName(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// excelDateString 日期单元格：序列号按 1899-12-30 起算转为 YYYY-MM-DD，文本原样保留
func excelDateString(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	t, err := excelize.ExcelDateToTime(math.Floor(serial), false)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

func isDeliveryNoLabel(s string) bool {
	if strings.Contains(s, "订单号") {
		return false
	}
	return strings.Contains(s, "送货单号") || strings.Contains(s, "单号")
}

func isOrderNoLabel(s string) bool {
	if strings.Contains(s, "订单号") {
		return true
	}
	u := strings.ToUpper(strings.TrimSpace(s))
	return strings.HasPrefix(u, "PO")
}

// labelledValue 在表头区域查找标签单元格：取冒号后的文本，否则取同行下一个非空单元格
func labelledValue(rows [][]string, isLabel func(string) bool) string {
	end := min(headerScanEnd, len(rows))
	for r := 0; r < end; r++ {
		for c, v := range rows[r] {
			if !isLabel(v) {
				continue
			}
			if i := strings.IndexAny(v, ":："); i >= 0 {
				_, size := utf8.DecodeRuneInString(v[i:])
				if rest := strings.TrimSpace(v[i+size:]); rest != "" {
					return rest
				}
			}
			for _, next := range rows[r][c+1:] {
				if next = strings.TrimSpace(next); next != "" {
					return next
				}
			}
		}
	}
	return ""
}
