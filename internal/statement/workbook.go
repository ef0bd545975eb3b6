package statement

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/model"
)

// SheetName 对账单工作表名
const SheetName = "对账单"

const (
	dataStartRow = 6 // 数据从第6行开始，第5行为表头
	headerRow    = 5
)

var rowDateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006年1月2日",
	"2006-1-2 15:04:05",
}

// layout 列布局：订单号列仅在有订单号时出现
type layout struct {
	hasOrderNo bool
	headers    []string
	widths     []float64
	qtyCol     int // 1 起始
	priceCol   int
	amountCol  int
}

func newLayout(items []model.Record) layout {
	l := layout{
		hasOrderNo: slices.ContainsFunc(items, func(r model.Record) bool { return r.OrderNo != "" }),
	}
	l.headers = []string{"送货日期", "送货单号"}
	l.widths = []float64{12, 15}
	productWidth := 35.0
	if l.hasOrderNo {
		l.headers = append(l.headers, "订单号")
		l.widths = append(l.widths, 15)
		productWidth = 20
	}
	l.headers = append(l.headers, "品名规格", "单位", "数量", "单价", "金额", "备注")
	l.widths = append(l.widths, productWidth, 8, 10, 10, 12, 12)

	l.amountCol = len(l.headers) - 1
	l.priceCol = l.amountCol - 1
	l.qtyCol = l.priceCol - 1
	return l
}

func (l layout) lastCol() int { return len(l.headers) }

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

type styles struct {
	title, subtitle, center, header, cell, amount, wrap, caps, total int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	amountFmt := "¥#,##0.00"
	totalFmt := `"人民币小写："¥#,##0.00"元"`

	var s styles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Size: 18, Bold: true}, Alignment: centered}},
		{&s.subtitle, &excelize.Style{Font: &excelize.Font{Size: 10}, Alignment: centered}},
		{&s.center, &excelize.Style{Alignment: &excelize.Alignment{Horizontal: "center"}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Size: 11, Bold: true},
			Alignment: centered,
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
			Border:    border,
		}},
		{&s.cell, &excelize.Style{Font: &excelize.Font{Size: 10}, Alignment: centered, Border: border}},
		{&s.amount, &excelize.Style{Font: &excelize.Font{Size: 10}, Alignment: centered, Border: border, CustomNumFmt: &amountFmt}},
		{&s.wrap, &excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    border,
		}},
		{&s.caps, &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{&s.total, &excelize.Style{
			Font:         &excelize.Font{Size: 11},
			Alignment:    &excelize.Alignment{Horizontal: "right"},
			CustomNumFmt: &totalFmt,
		}},
	}

	for i, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("create style %d: %w", i, err)
		}
		*d.dst = id
	}
	return s, nil
}

// buildWorkbook 生成单张对账单工作簿
func buildWorkbook(company config.CompanyConfig, items []model.Record, customer, month string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeStatement(f, company, items, customer, month); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func writeStatement(f *excelize.File, company config.CompanyConfig, items []model.Record, customer, month string) error {
	sheet := SheetName
	l := newLayout(items)
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	for i, w := range l.widths {
		col := colName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	last := l.lastCol()
	merged := func(row int, from, to int, value any, style int) error {
		start, end := cellName(from, row), cellName(to, row)
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, start, value); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, start, end, style)
	}

	// 抬头
	if err := merged(1, 1, last, company.Name, st.title); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheet, 1, 30); err != nil {
		return err
	}
	if err := merged(2, 1, last, "地址："+company.Address, st.subtitle); err != nil {
		return err
	}
	contact := fmt.Sprintf("电话：%s    传真：%s", company.Phone, company.Fax)
	if err := merged(3, 1, last, contact, st.subtitle); err != nil {
		return err
	}
	if err := merged(4, 1, 3, "客户："+customer, 0); err != nil {
		return err
	}
	if err := merged(4, 4, 6, month+"对账单", st.center); err != nil {
		return err
	}

	// 表头
	for i, h := range l.headers {
		if err := f.SetCellValue(sheet, cellName(i+1, headerRow), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, cellName(1, headerRow), cellName(last, headerRow), st.header); err != nil {
		return err
	}

	// 数据行按日期排序
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b model.Record) int { return strings.Compare(a.Date, b.Date) })

	total := decimal.Zero
	for i, item := range sorted {
		row := dataStartRow + i
		values := []any{formatRowDate(item.Date), item.DeliveryOrderNo}
		if l.hasOrderNo {
			values = append(values, item.OrderNo)
		}
		values = append(values, strings.TrimSpace(item.ProductName+" "+item.Spec), item.Unit, item.Quantity, item.UnitPrice)
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return err
		}

		formula := fmt.Sprintf("%s*%s", cellName(l.qtyCol, row), cellName(l.priceCol, row))
		if err := f.SetCellFormula(sheet, cellName(l.amountCol, row), formula); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(1, row), cellName(last, row), st.cell); err != nil {
			return err
		}
		productCol := l.qtyCol - 2
		if err := f.SetCellStyle(sheet, cellName(productCol, row), cellName(productCol, row), st.wrap); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(l.amountCol, row), cellName(l.amountCol, row), st.amount); err != nil {
			return err
		}

		total = total.Add(decimal.NewFromFloat(item.Amount))
	}

	// 合计行，与数据区之间空一行
	lastDataRow := dataStartRow + max(len(sorted), 1) - 1
	summaryRow := dataStartRow + len(sorted) + 2
	caps := "合计人民币大写：" + AmountToChinese(total)
	if err := merged(summaryRow, 1, 4, caps, st.caps); err != nil {
		return err
	}

	amountColName := colName(l.amountCol)
	sumFormula := fmt.Sprintf("SUM(%s%d:%s%d)", amountColName, dataStartRow, amountColName, lastDataRow)
	start, end := cellName(5, summaryRow), cellName(last, summaryRow)
	if err := f.MergeCell(sheet, start, end); err != nil {
		return err
	}
	if err := f.SetCellFormula(sheet, start, sumFormula); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, st.total)
}

// formatRowDate 统一为 YYYY-MM-DD，无法解析时去掉时间部分后原样输出
func formatRowDate(date string) string {
	date = strings.TrimSpace(date)
	for _, layout := range rowDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02")
		}
	}
	before, _, _ := strings.Cut(date, "T")
	return before
}
