package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseboard/internal/apperr"
	"houseboard/internal/model"
)

func TestRenderInsightsDefaultsAndOrder(t *testing.T) {
	html, err := RenderInsights(&model.Report{StrategicInsights: []model.Insight{
		{Category: "Demand", Title: "First", Content: "c1", Action: "a1"},
		{},
	}})
	require.NoError(t, err)

	s := string(html)
	assert.Equal(t, 2, strings.Count(s, `class="insight-card"`))
	assert.Less(t, strings.Index(s, "First"), strings.Index(s, DefaultTitle))
	assert.Contains(t, s, DefaultContent)
	assert.Equal(t, 1, strings.Count(s, "insight-category"))
	assert.Equal(t, 1, strings.Count(s, "Action:"))
}

func TestRenderInsightsEscapes(t *testing.T) {
	html, err := RenderInsights(&model.Report{StrategicInsights: []model.Insight{
		{Title: `<img src=x onerror="alert(1)">`, Content: "a & b"},
	}})
	require.NoError(t, err)

	s := string(html)
	assert.NotContains(t, s, "<img")
	assert.Contains(t, s, "&lt;img")
	assert.Contains(t, s, "a &amp; b")
}

func TestRenderStatus(t *testing.T) {
	assert.Empty(t, RenderStatus(""))
	assert.Equal(t,
		`<span class="market-status-pill">Status: Hot &amp; rising</span>`,
		string(RenderStatus("Hot & rising")))
}

func TestRenderUnavailableNamesPath(t *testing.T) {
	err := apperr.Transport(reportPath, 404, errors.New("file not found at "+reportPath))
	s := string(RenderUnavailable(reportPath, err))
	assert.Contains(t, s, "Insights unavailable")
	assert.Contains(t, s, reportPath)
	assert.Contains(t, s, "HTTP 404")
}
