package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	cnDigits     = [...]string{"零", "壹", "贰", "叁", "肆", "伍", "陆", "柒", "捌", "玖"}
	cnUnits      = [...]string{"", "拾", "佰", "仟"}
	cnSections   = [...]string{"", "万", "亿", "万亿"}
	maxRMBAmount = decimal.New(1, 16) // 万亿级以内
)

// AmountToChinese 金额转人民币大写，按四舍五入保留两位
// 例：1005.30 -> 壹仟零伍元叁角整，0.05 -> 伍分，100000000 -> 壹亿元整
func AmountToChinese(amount decimal.Decimal) string {
	amount = amount.Round(2)
	if amount.IsZero() {
		return "零元整"
	}

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteString("负")
		amount = amount.Neg()
	}
	if amount.GreaterThanOrEqual(maxRMBAmount) {
		// 超出大写范围时退回数字
		b.WriteString(amount.StringFixed(2))
		b.WriteString("元")
		return b.String()
	}

	cents := amount.Shift(2).IntPart()
	yuan := cents / 100
	jiao := int(cents / 10 % 10)
	fen := int(cents % 10)

	if yuan > 0 {
		writeInteger(&b, yuan)
		b.WriteString("元")
	}

	switch {
	case jiao == 0 && fen == 0:
		b.WriteString("整")
	case jiao == 0:
		if yuan > 0 {
			b.WriteString("零")
		}
		b.WriteString(cnDigits[fen])
		b.WriteString("分")
	default:
		b.WriteString(cnDigits[jiao])
		b.WriteString("角")
		if fen > 0 {
			b.WriteString(cnDigits[fen])
			b.WriteString("分")
		} else {
			b.WriteString("整")
		}
	}
	return b.String()
}

// writeInteger 按万/亿分节写出整数部分，节内与节间的连续零合并为一个"零"
func writeInteger(b *strings.Builder, n int64) {
	digits := []byte(decimal.NewFromInt(n).String())
	total := len(digits)
	pendingZero := false
	sectionHasDigit := false

	for i, ch := range digits {
		d := int(ch - '0')
		pos := total - 1 - i
		unit, section := pos%4, pos/4

		if d == 0 {
			pendingZero = true
		} else {
			if pendingZero && b.Len() > 0 {
				b.WriteString("零")
			}
			pendingZero = false
			sectionHasDigit = true
			b.WriteString(cnDigits[d])
			b.WriteString(cnUnits[unit])
		}

		if unit == 0 {
			if sectionHasDigit {
				b.WriteString(cnSections[section])
			}
			sectionHasDigit = false
		}
	}
}
