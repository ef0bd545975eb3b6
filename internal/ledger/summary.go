package ledger

import (
	"math"
	"sort"
	"strings"

	"github.com/orcapzh/ana/internal/model"
)

// Summary 月份分组汇总（保留完整精度，展示时再保留两位小数）
type Summary struct {
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
}

// Summarize 汇总数量与金额
func Summarize(records []model.Record) Summary {
	var s Summary
	for _, r := range records {
		s.Quantity += r.Quantity
		s.Amount += r.Amount
	}
	s.Count = len(records)
	return s
}

// Add 合并两个汇总
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Quantity: s.Quantity + other.Quantity,
		Amount:   s.Amount + other.Amount,
		Count:    s.Count + other.Count,
	}
}

type productKey struct {
	name, spec, unit string
}

// ProductSummaries 按 货名+规格+单位 汇总，按金额倒序
func ProductSummaries(records []model.Record) []model.ProductSummary {
	index := make(map[productKey]int)
	var out []model.ProductSummary
	customers := make(map[productKey][]string)

	for _, r := range records {
		key := productKey{r.ProductName, r.Spec, r.Unit}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, model.ProductSummary{
				ProductName: r.ProductName,
				Spec:        r.Spec,
				Unit:        r.Unit,
			})
		}
		out[i].Quantity += r.Quantity
		out[i].Amount += r.Amount
		if r.Customer != "" && !containsString(customers[key], r.Customer) {
			customers[key] = append(customers[key], r.Customer)
		}
	}

	for i := range out {
		key := productKey{out[i].ProductName, out[i].Spec, out[i].Unit}
		out[i].Customers = strings.Join(customers[key], ", ")
		if out[i].Quantity > 0 {
			out[i].AveragePrice = math.Round(out[i].Amount/out[i].Quantity*100) / 100
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
