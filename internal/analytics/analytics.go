// Package analytics 计算经营分析视图：汇总、月度趋势、排行以及商品单价走势。
package analytics

import (
	"sort"

	"github.com/orcapzh/ana/internal/ledger"
	"github.com/orcapzh/ana/internal/model"
)

// ScopeAll 全部客户
const ScopeAll = "all"

// RankingLimit 排行榜条数
const RankingLimit = 10

// RankingSubject 排行对象
type RankingSubject string

const (
	SubjectCustomer RankingSubject = "customer"
	SubjectProduct  RankingSubject = "product"
)

// MonthAmount 月度销售额
type MonthAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// RankEntry 排行条目；客户排行不含数量
type RankEntry struct {
	Name     string   `json:"name"`
	Amount   float64  `json:"amount"`
	Quantity *float64 `json:"quantity,omitempty"`
}

// PricePoint 某月的平均单价（条目单价的算术平均，不按数量加权）
type PricePoint struct {
	Month        string  `json:"month"`
	AveragePrice float64 `json:"averagePrice"`
}

// ProductTrend 单个 货名+规格 的单价走势
type ProductTrend struct {
	Key         string       `json:"key"`
	ProductName string       `json:"productName"`
	Spec        string       `json:"spec"`
	Timeline    []PricePoint `json:"timeline"`
}

// Result 分析结果快照，生成后不再修改
type Result struct {
	Scope          string         `json:"scope"`
	TotalAmount    float64        `json:"totalAmount"`
	TotalQuantity  float64        `json:"totalQuantity"`
	TotalCount     int            `json:"totalCount"`
	MonthlyTrend   []MonthAmount  `json:"monthlyTrend"`
	RankingSubject RankingSubject `json:"rankingSubject"`
	Ranking        []RankEntry    `json:"ranking"`
	ProductTrends  []ProductTrend `json:"productTrends,omitempty"`
}

// Analyze 计算给定范围的分析结果；范围内没有数据时返回 false
func Analyze(records []model.Record, scope string) (*Result, bool) {
	if scope == "" {
		scope = ScopeAll
	}

	items := records
	if scope != ScopeAll {
		items = make([]model.Record, 0, len(records))
		for _, r := range records {
			if r.Customer == scope {
				items = append(items, r)
			}
		}
	}
	if len(items) == 0 {
		return nil, false
	}

	res := &Result{
		Scope:      scope,
		TotalCount: len(items),
	}
	for _, r := range items {
		res.TotalAmount += r.Amount
		res.TotalQuantity += r.Quantity
	}

	res.MonthlyTrend = monthlyTrend(items)
	if scope == ScopeAll {
		res.RankingSubject = SubjectCustomer
		res.Ranking = rankBy(items, func(r model.Record) string { return r.Customer }, false)
	} else {
		res.RankingSubject = SubjectProduct
		res.Ranking = rankBy(items, func(r model.Record) string { return r.ProductName }, true)
		res.ProductTrends = productTrends(items)
	}
	return res, true
}

func monthlyTrend(items []model.Record) []MonthAmount {
	sums := make(map[string]float64)
	for _, r := range items {
		sums[ledger.MonthKey(r.Date)] += r.Amount
	}
	out := make([]MonthAmount, 0, len(sums))
	for month, amount := range sums {
		out = append(out, MonthAmount{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}

type rankGroup struct {
	name     string
	amount   float64
	quantity float64
}

func rankBy(items []model.Record, keyOf func(model.Record) string, withQuantity bool) []RankEntry {
	pos := make(map[string]int)
	var groups []rankGroup
	for _, r := range items {
		key := keyOf(r)
		i, ok := pos[key]
		if !ok {
			i = len(groups)
			pos[key] = i
			groups = append(groups, rankGroup{name: key})
		}
		groups[i].amount += r.Amount
		groups[i].quantity += r.Quantity
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].amount > groups[j].amount
	})
	if len(groups) > RankingLimit {
		groups = groups[:RankingLimit]
	}

	out := make([]RankEntry, len(groups))
	for i, g := range groups {
		out[i] = RankEntry{Name: g.name, Amount: g.amount}
		if withQuantity {
			q := g.quantity
			out[i].Quantity = &q
		}
	}
	return out
}

type priceAcc struct {
	sum   float64
	count int
}

func productTrends(items []model.Record) []ProductTrend {
	type group struct {
		trend  ProductTrend
		months map[string]*priceAcc
	}
	groups := make(map[string]*group)

	for _, r := range items {
		key := ProductKey(r.ProductName, r.Spec)
		g, ok := groups[key]
		if !ok {
			g = &group{
				trend:  ProductTrend{Key: key, ProductName: r.ProductName, Spec: r.Spec},
				months: make(map[string]*priceAcc),
			}
			groups[key] = g
		}
		month := ledger.MonthKey(r.Date)
		acc, ok := g.months[month]
		if !ok {
			acc = &priceAcc{}
			g.months[month] = acc
		}
		acc.sum += r.UnitPrice
		acc.count++
	}

	out := make([]ProductTrend, 0, len(groups))
	for _, g := range groups {
		timeline := make([]PricePoint, 0, len(g.months))
		for month, acc := range g.months {
			timeline = append(timeline, PricePoint{Month: month, AveragePrice: acc.sum / float64(acc.count)})
		}
		sort.Slice(timeline, func(i, j int) bool {
			return timeline[i].Month < timeline[j].Month
		})
		g.trend.Timeline = timeline
		out = append(out, g.trend)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].Spec < out[j].Spec
	})
	return out
}

// ProductKey 商品走势的分组键
func ProductKey(name, spec string) string {
	return name + "::" + spec
}
