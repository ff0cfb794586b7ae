package dataset

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var currencyStripper = strings.NewReplacer("$", "", ",", "")

// displayString 值的原始文本形式
func displayString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

// numericValue 数字或去掉 $ 与 , 后可解析的字符串
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case string:
		s := strings.TrimSpace(currencyStripper.Replace(x))
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// FormatNumber 大于等于 1000 时使用千分位
func FormatNumber(v float64) string {
	if v >= 1000 {
		return humanize.Commaf(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatCurrency 美元金额，不保留分
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.", -v)
	}
	return "$" + humanize.FormatFloat("#,###.", v)
}

// FormatPrice 价格显示文本；无法解析时返回原文
func FormatPrice(v any) string {
	if n, ok := numericValue(v); ok {
		return FormatCurrency(n)
	}
	return displayString(v)
}

// IsPriceColumn 列名包含 price（不区分大小写）
func IsPriceColumn(key string) bool {
	return strings.Contains(strings.ToLower(key), "price")
}

// linkTarget 完整的 http(s) 链接
func linkTarget(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.String(), true
}
