package report

import (
	"bytes"
	"fmt"
	"html/template"

	"houseboard/internal/apperr"
	"houseboard/internal/model"
)

// 缺失字段的默认文字
const (
	DefaultTitle   = "Untitled"
	DefaultContent = "No details available"
)

var cardsTmpl = template.Must(template.New("cards").Parse(`{{range .}}<div class="insight-card">
{{if .Category}}<small class="insight-category">{{.Category}}</small>
{{end}}<h4>{{.Title}}</h4>
<p>{{.Content}}</p>
{{if .Action}}<div class="pro-tip">💡 <b>Action:</b> {{.Action}}</div>
{{end}}</div>
{{end}}`))

var statusTmpl = template.Must(template.New("status").Parse(
	`<span class="market-status-pill">Status: {{.}}</span>`))

var unavailableTmpl = template.Must(template.New("unavailable").Parse(
	`<p class="insights-unavailable">Insights unavailable: could not load {{.Path}} ({{.Reason}})</p>`))

// RenderInsights 每条 insight 一张卡片，按数组顺序
func RenderInsights(r *model.Report) (template.HTML, error) {
	if r == nil {
		return "", nil
	}
	cards := make([]model.Insight, len(r.StrategicInsights))
	for i, in := range r.StrategicInsights {
		if in.Title == "" {
			in.Title = DefaultTitle
		}
		if in.Content == "" {
			in.Content = DefaultContent
		}
		cards[i] = in
	}

	var buf bytes.Buffer
	if err := cardsTmpl.Execute(&buf, cards); err != nil {
		return "", fmt.Errorf("render insights: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RenderStatus 市场状态标签；没有状态时为空
func RenderStatus(status string) template.HTML {
	if status == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := statusTmpl.Execute(&buf, status); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

// RenderUnavailable 报告不可用时的占位信息
func RenderUnavailable(path string, err error) template.HTML {
	var buf bytes.Buffer
	data := struct{ Path, Reason string }{path, apperr.ReasonOf(err)}
	if e := unavailableTmpl.Execute(&buf, data); e != nil {
		return template.HTML(template.HTMLEscapeString("Insights unavailable: " + path))
	}
	return template.HTML(buf.String())
}
