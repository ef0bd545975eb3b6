package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 月份分组的哨兵标签，三者互不合并
const (
	LabelUnknown   = "未知"     // 日期为空
	LabelOther     = "其他日期"   // 找不到 年-月 结构
	LabelMalformed = "日期格式错误" // 有 年-月 结构但月份无法解析
)

// UnknownMonthKey 统计用月份键无法解析时的取值
const UnknownMonthKey = "Unknown"

var (
	dateSeparators = regexp.MustCompile(`[-/]`)
	numericDateRe  = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.]\d{1,2}`)
	chineseMonthRe = regexp.MustCompile(`(\d{4})年(\d{1,2})月`)
	labelRe        = regexp.MustCompile(`(\d+)年(\d+)月`)
)

// BucketLabel 将日期字符串映射为展示用的月份分组标签，如 "2024-03-05" -> "2024年3月"
func BucketLabel(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return LabelUnknown
	}

	parts := dateSeparators.Split(date, -1)
	if len(parts) < 2 {
		return LabelOther
	}

	year := strings.TrimSpace(parts[0])
	if !isDigits(year) {
		return LabelOther
	}

	month, ok := leadingInt(parts[1])
	if !ok {
		return LabelMalformed
	}
	return fmt.Sprintf("%s年%d月", year, month)
}

// MonthKey 统计用的规范化月份键 YYYY-MM；与 BucketLabel 相互独立
func MonthKey(date string) string {
	date = strings.TrimSpace(date)
	if m := numericDateRe.FindStringSubmatch(date); m != nil {
		return formatMonthKey(m[1], m[2])
	}
	if m := chineseMonthRe.FindStringSubmatch(date); m != nil {
		return formatMonthKey(m[1], m[2])
	}
	return UnknownMonthKey
}

// LabelSortKey 从分组标签解析 year*100+month，无法解析时为 0
func LabelSortKey(label string) int {
	m := labelRe.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return 0
	}
	return year*100 + month
}

// LabelYearMonth 将分组标签转换为 YYYY-MM（用于文件名），无法解析时原样返回且 ok=false
func LabelYearMonth(label string) (string, bool) {
	m := labelRe.FindStringSubmatch(label)
	if m == nil {
		return label, false
	}
	return formatMonthKey(m[1], m[2]), true
}

func formatMonthKey(year, month string) string {
	m, _ := strconv.Atoi(month)
	return fmt.Sprintf("%s-%02d", year, m)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// leadingInt 解析字符串开头的数字，如 "03" -> 3、"5日" -> 5
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
