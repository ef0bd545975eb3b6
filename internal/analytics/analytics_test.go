package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcapzh/ana/internal/model"
)

func TestAnalyze_NoData(t *testing.T) {
	t.Parallel()

	_, ok := Analyze(nil, ScopeAll)
	assert.False(t, ok)

	_, ok = Analyze([]model.Record{{Customer: "A", Amount: 1}}, "B")
	assert.False(t, ok)
}

func TestAnalyze_GlobalScope(t *testing.T) {
	t.Parallel()

	res, ok := Analyze([]model.Record{
		{Customer: "A", Date: "2024-03-05", Amount: 100, Quantity: 2},
		{Customer: "A", Date: "2024-03-20", Amount: 50, Quantity: 1},
		{Customer: "B", Date: "2024-01-10", Amount: 200, Quantity: 4},
		{Customer: "C", Date: "2024年2月1日", Amount: 10, Quantity: 1},
	}, ScopeAll)
	require.True(t, ok)

	assert.Equal(t, 360.0, res.TotalAmount)
	assert.Equal(t, 8.0, res.TotalQuantity)
	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, []MonthAmount{
		{Month: "2024-01", Amount: 200},
		{Month: "2024-02", Amount: 10},
		{Month: "2024-03", Amount: 150},
	}, res.MonthlyTrend)

	assert.Equal(t, SubjectCustomer, res.RankingSubject)
	require.Len(t, res.Ranking, 3)
	assert.Equal(t, "B", res.Ranking[0].Name)
	assert.Equal(t, "A", res.Ranking[1].Name)
	assert.Equal(t, 150.0, res.Ranking[1].Amount)
	assert.Nil(t, res.Ranking[0].Quantity)
	assert.Empty(t, res.ProductTrends)
}

func TestAnalyze_RankingTopTenNonIncreasing(t *testing.T) {
	t.Parallel()

	var records []model.Record
	for i := 0; i < 15; i++ {
		records = append(records, model.Record{
			Customer: fmt.Sprintf("客户%02d", i),
			Date:     "2024-05-01",
			Amount:   float64((i * 37) % 11),
		})
	}
	res, ok := Analyze(records, ScopeAll)
	require.True(t, ok)

	require.Len(t, res.Ranking, RankingLimit)
	for i := 1; i < len(res.Ranking); i++ {
		assert.GreaterOrEqual(t, res.Ranking[i-1].Amount, res.Ranking[i].Amount)
	}
}

func TestAnalyze_MonthlyTrendHasNoDuplicateKeys(t *testing.T) {
	t.Parallel()

	res, ok := Analyze([]model.Record{
		{Customer: "A", Date: "2024-02-01", Amount: 1},
		{Customer: "A", Date: "2024/2/15", Amount: 2},
		{Customer: "A", Date: "2024.2.28", Amount: 3},
		{Customer: "A", Date: "garbage", Amount: 4},
	}, "A")
	require.True(t, ok)

	assert.Equal(t, []MonthAmount{
		{Month: "2024-02", Amount: 6},
		{Month: "Unknown", Amount: 4},
	}, res.MonthlyTrend)
}

func TestAnalyze_CustomerScopeRanksProducts(t *testing.T) {
	t.Parallel()

	res, ok := Analyze([]model.Record{
		{Customer: "A", ProductName: "胶袋", Amount: 30, Quantity: 3, Date: "2024-01-01"},
		{Customer: "A", ProductName: "纸箱", Amount: 80, Quantity: 2, Date: "2024-01-01"},
		{Customer: "A", ProductName: "胶袋", Amount: 60, Quantity: 6, Date: "2024-02-01"},
		{Customer: "B", ProductName: "胶纸", Amount: 999, Quantity: 1, Date: "2024-02-01"},
	}, "A")
	require.True(t, ok)

	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, SubjectProduct, res.RankingSubject)
	require.Len(t, res.Ranking, 2)
	assert.Equal(t, "胶袋", res.Ranking[0].Name)
	assert.Equal(t, 90.0, res.Ranking[0].Amount)
	require.NotNil(t, res.Ranking[0].Quantity)
	assert.Equal(t, 9.0, *res.Ranking[0].Quantity)
}

func TestAnalyze_ProductTrendsUseUnweightedMeans(t *testing.T) {
	t.Parallel()

	res, ok := Analyze([]model.Record{
		{Customer: "A", ProductName: "Widget", Spec: "B", Date: "2024-02-03", UnitPrice: 5, Quantity: 1, Amount: 5},
		{Customer: "A", ProductName: "Widget", Spec: "A", Date: "2024-01-05", UnitPrice: 10, Quantity: 1, Amount: 10},
		{Customer: "A", ProductName: "Widget", Spec: "A", Date: "2024-01-20", UnitPrice: 20, Quantity: 9, Amount: 180},
		{Customer: "A", ProductName: "Widget", Spec: "A", Date: "2024-02-11", UnitPrice: 12, Quantity: 1, Amount: 12},
		{Customer: "A", ProductName: "Widget", Spec: "B", Date: "2024-01-09", UnitPrice: 4, Quantity: 2, Amount: 8},
		{Customer: "A", ProductName: "Widget", Spec: "B", Date: "2024-02-23", UnitPrice: 7, Quantity: 3, Amount: 21},
	}, "A")
	require.True(t, ok)
	require.Len(t, res.ProductTrends, 2)

	a := res.ProductTrends[0]
	assert.Equal(t, "Widget::A", a.Key)
	assert.Equal(t, []PricePoint{
		{Month: "2024-01", AveragePrice: 15},
		{Month: "2024-02", AveragePrice: 12},
	}, a.Timeline)

	b := res.ProductTrends[1]
	assert.Equal(t, "Widget::B", b.Key)
	assert.Equal(t, []PricePoint{
		{Month: "2024-01", AveragePrice: 4},
		{Month: "2024-02", AveragePrice: 6},
	}, b.Timeline)

	delta, dir, ok := a.Change()
	assert.True(t, ok)
	assert.Equal(t, -3.0, delta)
	assert.Equal(t, DirectionDown, dir)

	_, dir, _ = b.Change()
	assert.Equal(t, DirectionUp, dir)
}

func TestAnalyze_DoesNotRetainState(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		{Customer: "A", Date: "2024-01-01", Amount: 1},
		{Customer: "B", Date: "2024-01-01", Amount: 2},
	}
	first, _ := Analyze(records, ScopeAll)
	_, _ = Analyze(records, "A")
	second, _ := Analyze(records, ScopeAll)
	assert.Equal(t, first, second)
}

func TestProductTrend_ChangeNeedsTwoPoints(t *testing.T) {
	t.Parallel()

	p := ProductTrend{Timeline: []PricePoint{{Month: "2024-01", AveragePrice: 3}}}
	_, dir, ok := p.Change()
	assert.False(t, ok)
	assert.Equal(t, DirectionFlat, dir)

	latest, ok := p.Latest()
	assert.True(t, ok)
	assert.Equal(t, 3.0, latest.AveragePrice)
}
