package ledger

import (
	"sort"
	"strings"

	"github.com/orcapzh/ana/internal/model"
)

// Index 客户 -> 月份分组 -> 条目 的只读索引，每次扫描后整体重建
type Index struct {
	buckets      map[string]map[string][]model.Record
	types        map[string]string
	lastActivity map[string]string
	customers    []string
	total        int
}

// BuildIndex 按客户和月份分组构建索引。客户为空的条目被丢弃，组内保持输入顺序。
func BuildIndex(records []model.Record) *Index {
	idx := &Index{
		buckets:      make(map[string]map[string][]model.Record),
		types:        make(map[string]string),
		lastActivity: make(map[string]string),
	}

	var encountered []string
	for _, r := range records {
		if strings.TrimSpace(r.Customer) == "" {
			continue
		}
		name := r.Customer

		months, ok := idx.buckets[name]
		if !ok {
			months = make(map[string][]model.Record)
			idx.buckets[name] = months
			idx.types[name] = r.CustomerType
			idx.lastActivity[name] = r.Date
			encountered = append(encountered, name)
		} else if r.Date > idx.lastActivity[name] {
			idx.lastActivity[name] = r.Date
		}

		label := BucketLabel(r.Date)
		months[label] = append(months[label], r)
		idx.total++
	}

	// 最近活动日期按字符串倒序，相同日期保持首次出现顺序
	sort.SliceStable(encountered, func(i, j int) bool {
		return idx.lastActivity[encountered[i]] > idx.lastActivity[encountered[j]]
	})
	idx.customers = encountered
	return idx
}

// Customers 按最近活动日期倒序的客户列表
func (idx *Index) Customers() []string {
	out := make([]string, len(idx.customers))
	copy(out, idx.customers)
	return out
}

// Has 客户是否存在
func (idx *Index) Has(customer string) bool {
	_, ok := idx.buckets[customer]
	return ok
}

// CustomerType 客户首次出现时的类型
func (idx *Index) CustomerType(customer string) string {
	return idx.types[customer]
}

// LastActivity 客户出现过的最大原始日期字符串
func (idx *Index) LastActivity(customer string) string {
	return idx.lastActivity[customer]
}

// Bucket 返回客户某月份分组的条目副本
func (idx *Index) Bucket(customer, month string) []model.Record {
	items := idx.buckets[customer][month]
	if len(items) == 0 {
		return nil
	}
	out := make([]model.Record, len(items))
	copy(out, items)
	return out
}

// Months 客户的月份标签，未排序
func (idx *Index) Months(customer string) []string {
	months := idx.buckets[customer]
	out := make([]string, 0, len(months))
	for label := range months {
		out = append(out, label)
	}
	return out
}

// RecordCount 索引中的条目总数
func (idx *Index) RecordCount() int {
	return idx.total
}

// Types 出现过的客户类型（按首次出现顺序）
func (idx *Index) Types() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range idx.customers {
		t := idx.types[c]
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
