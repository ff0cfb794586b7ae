package dataset

import (
	"bytes"
	"fmt"
	"html/template"

	"houseboard/internal/apperr"
	"houseboard/internal/model"
)

// MissingPlaceholder 列缺失时显示的占位符
const MissingPlaceholder = "-"

// Cell 表格单元格
type Cell struct {
	Text    string `json:"text"`
	Link    string `json:"link,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

// Header 表头
type Header struct {
	Key       string
	Active    bool
	Direction model.Direction
}

// Arrow 排序方向标记
func (h Header) Arrow() string {
	if h.Direction == model.Descending {
		return "▼"
	}
	return "▲"
}

// Table 渲染结果
type Table struct {
	Columns []string      `json:"columns"`
	Rows    [][]Cell      `json:"rows"`
	HTML    template.HTML `json:"html"`
}

var tableTmpl = template.Must(template.New("table").Parse(`{{if .Rows}}<table class="listing-table">
<thead><tr>{{range .Headers}}<th data-sort-key="{{.Key}}"{{if .Active}} class="sorted-{{.Direction}}"{{end}}>{{.Key}}{{if .Active}} {{.Arrow}}{{end}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td{{if .Missing}} class="missing"{{end}}>{{if .Link}}<a href="{{.Link}}" target="_blank" rel="noopener noreferrer">{{.Text}}</a>{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{else}}<p class="empty-state">No properties to display.</p>{{end}}`))

var errorTmpl = template.Must(template.New("error").Parse(
	`<div class="data-error">Could not load {{.Path}}: {{.Reason}}</div>`))

// RenderTable 全量渲染表格
// 列集合只取第一条记录的列；后续记录缺失的列显示占位符，多出的列忽略
func RenderTable(ds model.Dataset, sort model.SortConfig) (Table, error) {
	t := Table{Columns: []string{}, Rows: [][]Cell{}}
	if len(ds) > 0 {
		t.Columns = ds[0].Keys()
	}

	for _, row := range ds {
		cells := make([]Cell, len(t.Columns))
		for i, key := range t.Columns {
			cells[i] = renderCell(key, row)
		}
		t.Rows = append(t.Rows, cells)
	}

	headers := make([]Header, len(t.Columns))
	for i, key := range t.Columns {
		h := Header{Key: key}
		if sort.Key == key {
			h.Active = true
			h.Direction = sort.Direction
			if h.Direction == "" {
				h.Direction = model.Ascending
			}
		}
		headers[i] = h
	}

	var buf bytes.Buffer
	err := tableTmpl.Execute(&buf, struct {
		Headers []Header
		Rows    [][]Cell
	}{headers, t.Rows})
	if err != nil {
		return Table{}, fmt.Errorf("render table: %w", err)
	}
	t.HTML = template.HTML(buf.String())
	return t, nil
}

func renderCell(key string, row model.Row) Cell {
	v, ok := row.Get(key)
	if !ok || v == nil {
		return Cell{Text: MissingPlaceholder, Missing: true}
	}

	if IsPriceColumn(key) {
		if n, ok := numericValue(v); ok {
			return Cell{Text: FormatCurrency(n)}
		}
	}
	if n, ok := v.(float64); ok {
		return Cell{Text: FormatNumber(n)}
	}
	if link, ok := linkTarget(v); ok {
		return Cell{Text: "View", Link: link}
	}
	return Cell{Text: displayString(v)}
}

// RenderError 表格区域的错误信息（已转义）
func RenderError(path string, err error) template.HTML {
	reason := apperr.ReasonOf(err)
	var buf bytes.Buffer
	if e := errorTmpl.Execute(&buf, struct{ Path, Reason string }{path, reason}); e != nil {
		return template.HTML(template.HTMLEscapeString("Could not load " + path))
	}
	return template.HTML(buf.String())
}
