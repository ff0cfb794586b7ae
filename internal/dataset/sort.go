package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"houseboard/internal/model"
)

// NextSortConfig 同一列切换方向，新列重置为升序
func NextSortConfig(cur model.SortConfig, key string) model.SortConfig {
	if cur.Key == key {
		if cur.Direction == model.Descending {
			return model.SortConfig{Key: key, Direction: model.Ascending}
		}
		return model.SortConfig{Key: key, Direction: model.Descending}
	}
	return model.SortConfig{Key: key, Direction: model.Ascending}
}

// SortBy 返回按 key 排序后的新数据集与新排序配置
// 相等的值保持原有相对顺序
func SortBy(ds model.Dataset, cur model.SortConfig, key string) (model.Dataset, model.SortConfig) {
	next := NextSortConfig(cur, key)

	out := make(model.Dataset, len(ds))
	copy(out, ds)

	sort.SliceStable(out, func(i, j int) bool {
		c := Compare(sortValue(out[i], key), sortValue(out[j], key))
		if next.Desc() {
			return c > 0
		}
		return c < 0
	})
	return out, next
}

// sortValue 去掉 $ 和 , 之后的文本，缺失为空串
func sortValue(row model.Row, key string) string {
	v, _ := row.Get(key)
	return strings.TrimSpace(currencyStripper.Replace(displayString(v)))
}

// Compare 两边都能解析为数字时按数值比较，否则按字符串比较
func Compare(a, b string) int {
	na, okA := finiteFloat(a)
	nb, okB := finiteFloat(b)
	if okA && okB {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// finiteFloat 只接受有限数值，NaN 与 Inf 文本按字符串比较
func finiteFloat(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
