package ledger

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// TypeAll 不按客户类型过滤
const TypeAll = "all"

// FilteredCustomers 在排序后的客户列表上按类型和名称关键字（忽略大小写的子串）过滤，保持原顺序
func FilteredCustomers(idx *Index, typeFilter, search string) []string {
	if idx == nil {
		return nil
	}
	search = strings.TrimSpace(search)
	fold := cases.Fold()
	needle := fold.String(search)

	out := make([]string, 0, len(idx.customers))
	for _, c := range idx.customers {
		if typeFilter != "" && typeFilter != TypeAll && idx.types[c] != typeFilter {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(c), needle) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CustomerMonths 客户的月份标签，按 year*100+month 倒序；无法解析的标签排在最后
func CustomerMonths(idx *Index, customer string) []string {
	if idx == nil {
		return nil
	}
	months := idx.Months(customer)
	sort.SliceStable(months, func(i, j int) bool {
		ki, kj := LabelSortKey(months[i]), LabelSortKey(months[j])
		if ki != kj {
			return ki > kj
		}
		return months[i] < months[j]
	})
	return months
}
