package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"houseboard/internal/dashboard"
	"houseboard/internal/geomap"
	"houseboard/internal/model"
	"houseboard/internal/theme"
)

type staticReport struct{}

func (staticReport) Path() string { return "report.json" }

func (staticReport) Load(ctx context.Context) (*model.Report, error) {
	return &model.Report{
		MarketStatus:      "Cooling <fast>",
		StrategicInsights: []model.Insight{{Title: "Wait"}},
	}, nil
}

type staticDataset struct{}

func (staticDataset) Path() string { return "listings.xlsx" }

func (staticDataset) Load(ctx context.Context) (model.Dataset, error) {
	return model.Dataset{
		model.NewRow([]string{"Name", "lat", "lng"}, map[string]any{"Name": "</script>", "lat": 1.0, "lng": 2.0}),
	}, nil
}

func newTestServer(t *testing.T, regions dashboard.Regions) (*Server, *theme.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zaptest.NewLogger(t)
	m := geomap.New(geomap.TileLayer{Name: "light"}, geomap.TileLayer{Name: "dark"}, geomap.LatLng{}, 4)
	hub := theme.NewHub(logger)
	app := dashboard.New(dashboard.Options{
		Report:     staticReport{},
		Dataset:    staticDataset{},
		Theme:      theme.NewController(theme.NewMemoryPrefs(), "theme", hub, m, logger),
		Map:        m,
		Regions:    regions,
		FitPadding: 50,
		Logger:     logger,
	})
	app.Init(context.Background(), nil, dashboard.WaitOptions{})

	s := NewServer(app, hub, Options{
		DevMode:    true,
		LibraryURL: "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js",
	}, logger)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, hub
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIndexPage(t *testing.T) {
	s, _ := newTestServer(t, dashboard.AllRegions())

	w := get(t, s.Handler(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`data-theme="light"`,
		`id="status-container"`,
		`Status: Cooling &lt;fast&gt;`,
		`id="insights-section"`,
		`id="table-container"`,
		`id="map"`,
		`leaflet.css`,
		`1 listings`,
		`>Dark Mode</button>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, `class="embedded"`) {
		t.Errorf("index page should not be marked embedded")
	}
	// 嵌入的 JSON 状态不能提前结束 script 元素
	if strings.Count(body, "</script>") != 3 {
		t.Errorf("unexpected </script> count %d", strings.Count(body, "</script>"))
	}
}

func TestEmbedPage(t *testing.T) {
	s, _ := newTestServer(t, dashboard.AllRegions())

	w := get(t, s.Handler(), "/embed")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `class="embedded"`) {
		t.Fatalf("embed page not marked embedded")
	}
}

func TestPageSkipsMissingRegions(t *testing.T) {
	s, _ := newTestServer(t, dashboard.Regions{Table: true})

	body := get(t, s.Handler(), "/").Body.String()
	for _, absent := range []string{`id="status-container"`, `id="insights-section"`, `id="map"`, `id="row-count"`} {
		if strings.Contains(body, absent) {
			t.Errorf("page should not contain %q", absent)
		}
	}
	if !strings.Contains(body, `id="table-container"`) {
		t.Errorf("page missing table region")
	}
}

func TestStaticAssets(t *testing.T) {
	s, _ := newTestServer(t, dashboard.AllRegions())

	for _, path := range []string{"/static/dashboard.css", "/static/dashboard.js"} {
		if w := get(t, s.Handler(), path); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}
}

func TestWritePageDefaults(t *testing.T) {
	var buf bytes.Buffer
	v := dashboard.View{Regions: dashboard.Regions{RowCount: true}, RowCount: 7}
	if err := WritePage(&buf, v, PageOptions{Base: "/board"}); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Property Dashboard</title>") {
		t.Errorf("default title missing")
	}
	if !strings.Contains(out, `href="/board/static/dashboard.css"`) {
		t.Errorf("base path not normalized")
	}
	if !strings.Contains(out, "7 listings") {
		t.Errorf("row count missing")
	}
}

func TestThemeSocket(t *testing.T) {
	s, hub := newTestServer(t, dashboard.AllRegions())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/theme?role=parent"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(theme.Message{Type: theme.MessageTheme, Theme: model.ThemeDark}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// 父文档报告主题后，页面加载按父文档主题显示
	var body string
	for i := 0; i < 50; i++ {
		if got, ok := hub.CurrentTheme(); ok && got == model.ThemeDark {
			body = get(t, s.Handler(), "/").Body.String()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(body, `data-theme="dark"`) {
		t.Fatalf("page did not follow parent theme")
	}
}

func TestWritePageStatic(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePage(&buf, dashboard.View{}, PageOptions{Static: true}); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "static/dashboard.js") || strings.Contains(out, "static/dashboard.css") {
		t.Fatalf("static page should inline its assets")
	}
	if !strings.Contains(out, `"static":true`) {
		t.Fatalf("static flag missing from page state")
	}
	if !strings.Contains(out, "dashboard-state") {
		t.Fatalf("page state missing")
	}
}
