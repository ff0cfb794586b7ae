package dataset

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"houseboard/internal/model"
)

// row 按给定顺序构造记录：row("Name", "A", "Price", 500000.0)
func row(kv ...any) model.Row {
	keys := make([]string, 0, len(kv)/2)
	values := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		k := kv[i].(string)
		keys = append(keys, k)
		values[k] = kv[i+1]
	}
	return model.NewRow(keys, values)
}

// buildWorkbook 在内存中生成只有一个工作表的 xlsx
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		r := rows[i]
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func names(ds model.Dataset) []string {
	out := make([]string, len(ds))
	for i, l := range Normalize(ds) {
		out[i] = l.Name
	}
	return out
}
