package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountToChinese(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "零元整"},
		{"0.004", "零元整"},
		{"1", "壹元整"},
		{"10", "壹拾元整"},
		{"105", "壹佰零伍元整"},
		{"1005.30", "壹仟零伍元叁角整"},
		{"1000.05", "壹仟元零伍分"},
		{"0.05", "伍分"},
		{"0.5", "伍角整"},
		{"12.345", "壹拾贰元叁角伍分"},
		{"20500", "贰万零伍佰元整"},
		{"110000", "壹拾壹万元整"},
		{"100000000", "壹亿元整"},
		{"100010000", "壹亿零壹万元整"},
		{"123456789.12", "壹亿贰仟叁佰肆拾伍万陆仟柒佰捌拾玖元壹角贰分"},
		{"-15.2", "负壹拾伍元贰角整"},
	}
	for _, tc := range cases {
		got := AmountToChinese(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got, tc.in)
	}
}
