package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"houseboard/internal/model"
)

// 各逻辑字段接受的列名，按顺序匹配，区分大小写
var (
	LatitudeColumns  = []string{"Latitude", "latitude", "lat", "Lat", "LAT"}
	LongitudeColumns = []string{"Longitude", "longitude", "lng", "Lng", "LNG", "Long"}
	NameColumns      = []string{"Name", "name", "Property", "Title"}
	PriceColumns     = []string{"Price", "price"}
)

// Normalize 按当前顺序把记录解析为 Listing
func Normalize(ds model.Dataset) []model.Listing {
	out := make([]model.Listing, len(ds))
	for i, row := range ds {
		out[i] = NormalizeRow(row, i+1)
	}
	return out
}

// NormalizeRow 解析单条记录，position 从 1 开始
func NormalizeRow(row model.Row, position int) model.Listing {
	l := model.Listing{Position: position, Row: row}

	if v, ok := firstValue(row, NameColumns); ok {
		l.Name = displayString(v)
	}
	if l.Name == "" {
		l.Name = fmt.Sprintf("Property #%d", position)
	}

	latRaw, hasLat := firstValue(row, LatitudeColumns)
	lngRaw, hasLng := firstValue(row, LongitudeColumns)
	if hasLat && hasLng {
		lat, okLat := parseCoordinate(latRaw)
		lng, okLng := parseCoordinate(lngRaw)
		if okLat && okLng {
			l.Lat, l.Lng, l.HasCoords = lat, lng, true
		}
	}

	l.Price, l.HasPrice = firstValue(row, PriceColumns)
	return l
}

// firstValue 第一个存在且非空的候选列
func firstValue(row model.Row, candidates []string) (any, bool) {
	for _, key := range candidates {
		v, ok := row.Get(key)
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// parseCoordinate 坐标必须是有限数
func parseCoordinate(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
