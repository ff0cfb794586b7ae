// Package dataset 房源表格的解码、归一化、排序与渲染
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"houseboard/internal/model"
)

// ErrNoSheets 工作簿没有工作表
var ErrNoSheets = errors.New("workbook has no sheets")

// Decode 解码表格二进制内容，返回第一个工作表的记录
// 第一行为表头；空单元格不产生列；全空行跳过
func Decode(data []byte) (model.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return model.Dataset{}, nil
	}

	header := headerKeys(rows[0])
	ds := make(model.Dataset, 0, len(rows)-1)

	for i, raw := range rows[1:] {
		rowNum := i + 2
		keys := make([]string, 0, len(raw))
		values := make(map[string]any, len(raw))

		for col, cell := range raw {
			if col >= len(header) || strings.TrimSpace(cell) == "" {
				continue
			}
			key := header[col]
			keys = append(keys, key)
			values[key] = cellValue(f, sheet, col+1, rowNum, cell)
		}

		if len(keys) == 0 {
			continue
		}
		ds = append(ds, model.NewRow(keys, values))
	}

	return ds, nil
}

// headerKeys 生成列名：空表头为 __EMPTY，重复表头追加 _1、_2…
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "__EMPTY"
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				candidate := fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[candidate]; !taken {
					seen[base] = n
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		keys[i] = name
	}
	return keys
}

// cellValue 数字单元格返回 float64，其他返回 string
func cellValue(f *excelize.File, sheet string, col, row int, raw string) any {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}
