// Package dashboard 持有唯一的应用状态：数据集、排序、主题与各区域的渲染结果
// 每次修改状态都在同一把锁内完成全部相关区域的重新渲染
package dashboard

import (
	"context"
	"html/template"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"houseboard/internal/apperr"
	"houseboard/internal/dataset"
	"houseboard/internal/geomap"
	"houseboard/internal/model"
	"houseboard/internal/report"
	"houseboard/internal/store"
	"houseboard/internal/theme"
)

// 加载日志中的资源名
const (
	ResourceReport  = "report"
	ResourceDataset = "dataset"
)

// Regions 页面上存在的区域；缺失的区域静默跳过
type Regions struct {
	Map      bool `json:"map"`
	Table    bool `json:"table"`
	Insights bool `json:"insights"`
	Status   bool `json:"status"`
	RowCount bool `json:"rowCount"`
}

// AllRegions 所有区域都存在
func AllRegions() Regions {
	return Regions{Map: true, Table: true, Insights: true, Status: true, RowCount: true}
}

// LoadLogger 记录每次资源加载，store.Store 实现该接口
type LoadLogger interface {
	CreateLoadLog(cycleID, resource, path string) (int64, error)
	FinishLoadLog(id int64, status string, rows, httpStatus int, errorKind, errorMessage string) error
	RecentLoadLogs(limit int) ([]store.LoadLog, error)
}

// ReportSource 报告来源
type ReportSource interface {
	Path() string
	Load(ctx context.Context) (*model.Report, error)
}

// DatasetSource 表格来源
type DatasetSource interface {
	Path() string
	Load(ctx context.Context) (model.Dataset, error)
}

// Options App 依赖
type Options struct {
	Report     ReportSource
	Dataset    DatasetSource
	Theme      *theme.Controller
	Map        *geomap.Map
	LoadLog    LoadLogger // 可为 nil
	Regions    Regions
	FitPadding int
	Logger     *zap.Logger
}

// View 各区域当前的渲染结果（副本）
type View struct {
	CycleID      string           `json:"cycleId"`
	Regions      Regions          `json:"regions"`
	Theme        theme.State      `json:"theme"`
	StatusHTML   template.HTML    `json:"statusHtml"`
	InsightsHTML template.HTML    `json:"insightsHtml"`
	TableHTML    template.HTML    `json:"tableHtml"`
	Columns      []string         `json:"columns"`
	RowCount     int              `json:"rowCount"`
	Sort         model.SortConfig `json:"sort"`
	MapEnabled   bool             `json:"mapEnabled"`
	Map          geomap.Snapshot  `json:"map"`
}

// App 应用状态
type App struct {
	mu sync.Mutex

	reportSrc  ReportSource
	datasetSrc DatasetSource
	theme      *theme.Controller
	gmap       *geomap.Map
	loadLog    LoadLogger
	regions    Regions
	padding    int
	logger     *zap.Logger

	dataset    model.Dataset
	sortConfig model.SortConfig
	mapEnabled bool

	cycleID      string
	statusHTML   template.HTML
	insightsHTML template.HTML
	tableHTML    template.HTML
	columns      []string
	rowCount     int

	reloads singleflight.Group
}

// New 创建 App
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		reportSrc:  opts.Report,
		datasetSrc: opts.Dataset,
		theme:      opts.Theme,
		gmap:       opts.Map,
		loadLog:    opts.LoadLog,
		regions:    opts.Regions,
		padding:    opts.FitPadding,
		logger:     logger,
		mapEnabled: opts.Regions.Map && opts.Map != nil,
	}
}

// Init 页面就绪：同步应用主题，等待可选地图库，然后加载数据
func (a *App) Init(ctx context.Context, libs []Library, wait WaitOptions) {
	if a.theme != nil {
		a.theme.Apply()
	}

	if a.regions.Map && len(libs) > 0 {
		missing := WaitForLibraries(ctx, libs, wait)
		if len(missing) > 0 {
			a.logger.Warn("optional libraries unavailable, continuing without map",
				zap.Strings("libraries", missing), zap.Duration("waited", wait.Timeout))
			a.mu.Lock()
			a.mapEnabled = false
			a.mu.Unlock()
		}
	}

	a.Reload(ctx)
}

// Reload 开始新的加载周期；并发调用合并为一次
// 报告与表格并行加载，任何一方失败都不影响另一方
// 加载结果由所有页面共享，发起者断开不取消本轮加载
func (a *App) Reload(ctx context.Context) string {
	ctx = context.WithoutCancel(ctx)
	v, _, _ := a.reloads.Do("reload", func() (interface{}, error) {
		return a.reload(ctx), nil
	})
	return v.(string)
}

func (a *App) reload(ctx context.Context) string {
	cycleID := uuid.New().String()
	a.mu.Lock()
	a.cycleID = cycleID
	a.mu.Unlock()

	logger := a.logger.With(zap.String("cycle", cycleID))
	logger.Info("load cycle started")

	var wg sync.WaitGroup
	if a.reportSrc != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.loadReport(ctx, cycleID, logger)
		}()
	}
	if a.datasetSrc != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.loadDataset(ctx, cycleID, logger)
		}()
	}
	wg.Wait()

	logger.Info("load cycle finished")
	return cycleID
}

func (a *App) loadReport(ctx context.Context, cycleID string, logger *zap.Logger) {
	path := a.reportSrc.Path()
	logID := a.startLog(cycleID, ResourceReport, path)

	rep, err := a.reportSrc.Load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	// 状态标签独立于 insights 的成败
	if rep != nil && a.regions.Status {
		a.statusHTML = report.RenderStatus(rep.MarketStatus)
	}

	if err == nil {
		html, rerr := report.RenderInsights(rep)
		if rerr == nil {
			if a.regions.Insights {
				a.insightsHTML = html
			}
			a.finishLog(logID, len(rep.StrategicInsights), nil)
			return
		}
		err = rerr
	}

	logger.Warn("report unavailable", zap.String("path", path), zap.Error(err))
	if a.regions.Insights {
		a.insightsHTML = report.RenderUnavailable(path, err)
	}
	a.finishLog(logID, 0, err)
}

func (a *App) loadDataset(ctx context.Context, cycleID string, logger *zap.Logger) {
	path := a.datasetSrc.Path()
	logID := a.startLog(cycleID, ResourceDataset, path)

	ds, err := a.datasetSrc.Load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err == nil {
		a.dataset = ds
		a.sortConfig = model.SortConfig{Direction: model.Ascending}
		err = a.renderDatasetLocked()
		if err == nil {
			logger.Info("dataset loaded", zap.String("path", path), zap.Int("rows", len(ds)))
			a.finishLog(logID, len(ds), nil)
			return
		}
	}

	logger.Warn("dataset unavailable", zap.String("path", path), zap.Error(err))
	a.dataset = nil
	a.columns = nil
	a.rowCount = 0
	if a.gmap != nil {
		a.gmap.ClearMarkers()
	}
	if a.regions.Table {
		a.tableHTML = dataset.RenderError(path, err)
	}
	a.finishLog(logID, 0, err)
}

// renderDatasetLocked 表格、标记与计数一起重新渲染，调用方持有锁
func (a *App) renderDatasetLocked() error {
	tbl, err := dataset.RenderTable(a.dataset, a.sortConfig)
	if err != nil {
		return err
	}

	if a.mapEnabled && a.gmap != nil {
		if _, err := dataset.RenderMarkers(dataset.Normalize(a.dataset), a.gmap, a.padding); err != nil {
			return err
		}
	}

	if a.regions.Table {
		a.tableHTML = tbl.HTML
	}
	a.columns = tbl.Columns
	a.rowCount = len(a.dataset)
	return nil
}

// SortBy 按列排序并重新渲染表格与标记
func (a *App) SortBy(key string) (model.SortConfig, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.dataset) == 0 {
		return a.sortConfig, nil
	}
	a.dataset, a.sortConfig = dataset.SortBy(a.dataset, a.sortConfig, key)
	if err := a.renderDatasetLocked(); err != nil {
		a.logger.Error("re-render after sort failed", zap.String("key", key), zap.Error(err))
		return a.sortConfig, err
	}
	return a.sortConfig, nil
}

// ToggleTheme 切换主题
func (a *App) ToggleTheme() theme.State {
	if a.theme == nil {
		return theme.State{Theme: model.DefaultTheme}
	}
	return a.theme.Toggle()
}

// ApplyTheme 重新按优先级确定主题（页面加载时调用）
func (a *App) ApplyTheme() theme.State {
	if a.theme == nil {
		return theme.State{Theme: model.DefaultTheme}
	}
	return a.theme.Apply()
}

// Dataset 当前数据集（副本）
func (a *App) Dataset() model.Dataset {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(model.Dataset, len(a.dataset))
	copy(out, a.dataset)
	return out
}

// View 当前渲染结果
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := View{
		CycleID:      a.cycleID,
		Regions:      a.regions,
		StatusHTML:   a.statusHTML,
		InsightsHTML: a.insightsHTML,
		TableHTML:    a.tableHTML,
		Columns:      append([]string(nil), a.columns...),
		Sort:         a.sortConfig,
		MapEnabled:   a.mapEnabled,
	}
	if a.regions.RowCount {
		v.RowCount = a.rowCount
	}
	if a.theme != nil {
		v.Theme = a.theme.Current()
	}
	if a.mapEnabled && a.gmap != nil {
		v.Map = a.gmap.Snapshot()
	}
	return v
}

// LoadLog 最近的加载记录
func (a *App) LoadLog(limit int) ([]store.LoadLog, error) {
	if a.loadLog == nil {
		return []store.LoadLog{}, nil
	}
	return a.loadLog.RecentLoadLogs(limit)
}

func (a *App) startLog(cycleID, resource, path string) int64 {
	if a.loadLog == nil {
		return 0
	}
	id, err := a.loadLog.CreateLoadLog(cycleID, resource, path)
	if err != nil {
		a.logger.Warn("failed to record load start", zap.String("resource", resource), zap.Error(err))
		return 0
	}
	return id
}

func (a *App) finishLog(id int64, rows int, err error) {
	if a.loadLog == nil || id == 0 {
		return
	}
	status, kind, msg := store.LoadStatusOK, "", ""
	if err != nil {
		status, kind, msg = store.LoadStatusFailed, string(apperr.KindOf(err)), err.Error()
	}
	if ferr := a.loadLog.FinishLoadLog(id, status, rows, apperr.StatusOf(err), kind, msg); ferr != nil {
		a.logger.Warn("failed to record load result", zap.Int64("id", id), zap.Error(ferr))
	}
}
