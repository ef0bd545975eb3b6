package statement

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/model"
	"github.com/orcapzh/ana/internal/store"
)

type fakeHistory struct {
	records []store.StatementRecord
}

func (h *fakeHistory) RecordStatement(_ context.Context, rec store.StatementRecord) (string, error) {
	h.records = append(h.records, rec)
	return "id", nil
}

func testConfig(t *testing.T) config.AppConfig {
	cfg := *config.DefaultConfig()
	cfg.Paths.OutputPath = t.TempDir()
	return cfg
}

func marchItems() []model.Record {
	return []model.Record{
		{Customer: "华南", Date: "2024-03-20", DeliveryOrderNo: "002", ProductName: "纸箱", Spec: "A4", Unit: "只", Quantity: 2, UnitPrice: 4, Amount: 8},
		{Customer: "华南", Date: "2024-03-05", DeliveryOrderNo: "001", ProductName: "胶袋", Spec: "30x40", Unit: "个", Quantity: 10, UnitPrice: 1.5, Amount: 15},
	}
}

func openSheet(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, axis)
	require.NoError(t, err)
	return v
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "statement_华南_2024-03.xlsx", FileName("华南", "2024年3月"))
	assert.Equal(t, "statement_华南_未知.xlsx", FileName("华南", "未知"))
	assert.Equal(t, "statement_A_B_2024-12.xlsx", FileName("A/B", "2024年12月"))
	assert.Equal(t, filepath.Join("out", "A_B", "statement_A_B_2024-12.xlsx"), FilePath("out", "A/B", "2024年12月"))
}

func TestGenerateSingleStatement_Preconditions(t *testing.T) {
	r := NewRenderer(nil, nil)
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.Paths.OutputPath = " "
	_, err := r.GenerateSingleStatement(ctx, cfg, marchItems(), "华南", "2024年3月", false)
	assert.True(t, apperror.Is(err, apperror.CodeConfig))

	_, err = r.GenerateSingleStatement(ctx, testConfig(t), nil, "华南", "2024年3月", false)
	assert.True(t, apperror.Is(err, apperror.CodeNoData))
}

func TestGenerateSingleStatement_WritesWorkbook(t *testing.T) {
	hist := &fakeHistory{}
	r := NewRenderer(nil, hist)
	cfg := testConfig(t)

	res, err := r.GenerateSingleStatement(context.Background(), cfg, marchItems(), "华南", "2024年3月", false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, filepath.Join(cfg.Paths.OutputPath, "华南", "statement_华南_2024-03.xlsx"), res.FilePath)

	f := openSheet(t, res.FilePath)
	assert.Equal(t, "百惠行对账单", cell(t, f, "A1"))
	assert.Equal(t, "地址：东莞市黄江镇华南塑胶城区132号", cell(t, f, "A2"))
	assert.Equal(t, "电话：(0769) 83631717    传真：83637787", cell(t, f, "A3"))
	assert.Equal(t, "客户：华南", cell(t, f, "A4"))
	assert.Equal(t, "2024年3月对账单", cell(t, f, "D4"))

	header, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"送货日期", "送货单号", "品名规格", "单位", "数量", "单价", "金额", "备注"}, header[4])

	// 按日期排序
	assert.Equal(t, "2024-03-05", cell(t, f, "A6"))
	assert.Equal(t, "胶袋 30x40", cell(t, f, "C6"))
	assert.Equal(t, "2024-03-20", cell(t, f, "A7"))

	formula, err := f.GetCellFormula(SheetName, "G6")
	require.NoError(t, err)
	assert.Equal(t, "E6*F6", formula)

	assert.Equal(t, "合计人民币大写：贰拾叁元整", cell(t, f, "A10"))
	sum, err := f.GetCellFormula(SheetName, "E10")
	require.NoError(t, err)
	assert.Equal(t, "SUM(G6:G7)", sum)

	require.Len(t, hist.records, 1)
	assert.Equal(t, "华南", hist.records[0].Customer)
	assert.Equal(t, 2, hist.records[0].ItemCount)
	assert.InDelta(t, 23, hist.records[0].Amount, 1e-9)
	assert.False(t, hist.records[0].Overwritten)
}

func TestGenerateSingleStatement_OrderNoColumn(t *testing.T) {
	items := marchItems()
	items[0].OrderNo = "PO-1"

	res, err := NewRenderer(nil, nil).GenerateSingleStatement(context.Background(), testConfig(t), items, "华南", "2024年3月", false)
	require.NoError(t, err)

	f := openSheet(t, res.FilePath)
	assert.Equal(t, "订单号", cell(t, f, "C5"))
	assert.Equal(t, "备注", cell(t, f, "I5"))
	formula, err := f.GetCellFormula(SheetName, "H7")
	require.NoError(t, err)
	assert.Equal(t, "F7*G7", formula)
}

func TestGenerateSingleStatement_FileExists(t *testing.T) {
	hist := &fakeHistory{}
	r := NewRenderer(nil, hist)
	cfg := testConfig(t)
	ctx := context.Background()

	_, err := r.GenerateSingleStatement(ctx, cfg, marchItems(), "华南", "2024年3月", false)
	require.NoError(t, err)

	_, err = r.GenerateSingleStatement(ctx, cfg, marchItems(), "华南", "2024年3月", false)
	require.Error(t, err)
	assert.True(t, apperror.IsFileExists(err))
	assert.Contains(t, err.Error(), "FILE_EXISTS")
	assert.Contains(t, err.Error(), "statement_华南_2024-03.xlsx")
	assert.Equal(t, 409, apperror.HTTPStatus(err))

	res, err := r.GenerateSingleStatement(ctx, cfg, marchItems(), "华南", "2024年3月", true)
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.Len(t, hist.records, 2)
	assert.True(t, hist.records[1].Overwritten)
}

func TestProcessAll_SkipsExisting(t *testing.T) {
	cfg := testConfig(t)
	records := append(marchItems(),
		model.Record{Customer: "华南", Date: "2024-01-02", ProductName: "x", Quantity: 1, Amount: 1},
		model.Record{Customer: "东莞", Date: "2024/01/09", ProductName: "y", Quantity: 1, Amount: 2},
		model.Record{Customer: "", Date: "2024-01-09", ProductName: "z", Quantity: 1, Amount: 3},
	)
	r := NewRenderer(nil, nil)

	res, err := r.ProcessAll(context.Background(), cfg, records)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.GeneratedCount)
	assert.Zero(t, res.SkippedCount)
	assert.Equal(t, cfg.Paths.OutputPath, res.OutputPath)

	for _, p := range []string{
		FilePath(cfg.Paths.OutputPath, "华南", "2024年3月"),
		FilePath(cfg.Paths.OutputPath, "华南", "2024年1月"),
		FilePath(cfg.Paths.OutputPath, "东莞", "2024年1月"),
	} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}

	res, err = r.ProcessAll(context.Background(), cfg, records)
	require.NoError(t, err)
	assert.Zero(t, res.GeneratedCount)
	assert.Equal(t, 3, res.SkippedCount)
}

func TestProcessAll_NoRecords(t *testing.T) {
	_, err := NewRenderer(nil, nil).ProcessAll(context.Background(), testConfig(t), nil)
	assert.True(t, apperror.Is(err, apperror.CodeNoData))
}
