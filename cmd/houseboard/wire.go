package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"houseboard/internal/config"
	"houseboard/internal/dashboard"
	"houseboard/internal/dataset"
	"houseboard/internal/fetch"
	"houseboard/internal/geomap"
	"houseboard/internal/model"
	"houseboard/internal/report"
	"houseboard/internal/store"
	"houseboard/internal/theme"
)

// loadConfig 加载配置并应用命令行覆盖
func loadConfig() (*config.AppConfig, error) {
	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if configPath != "" {
		cfg, info, err = config.LoadFile(configPath)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", info.Path, err)
	}

	if port > 0 && !info.PortSpecified {
		cfg.Server.Port = port
	}
	if devMode {
		cfg.Server.DevMode = true
	}
	if openBrowser {
		cfg.Server.OpenBrowser = true
	}
	if dataDir != "" {
		cfg.Data.DataDir = dataDir
	}
	return cfg, nil
}

// newLogger 生产配置；--verbose 打开 debug，开发模式使用开发配置
func newLogger(verbose, dev bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if dev {
		zcfg = zap.NewDevelopmentConfig()
	}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// dataRoute 资源路径中指向数据目录的前缀，也是静态路由 /data
const dataRoute = "data"

// components 组装好的依赖
type components struct {
	cfg     *config.AppConfig
	dataDir string
	store   *store.Store // 打开失败时为 nil
	hub     *theme.Hub   // render 时为 nil
	app     *dashboard.App
}

// build 按配置组装 App；withHub 为 true 时创建主题同步 Hub
func build(cfg *config.AppConfig, withHub bool, logger *zap.Logger) (*components, error) {
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	c := &components{cfg: cfg, dataDir: dir}

	var (
		prefs   theme.Prefs = theme.NewMemoryPrefs()
		loadLog dashboard.LoadLogger
	)
	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		logger.Warn("preference store unavailable, theme will not persist", zap.Error(err))
	} else {
		c.store = st
		prefs = st
		loadLog = st
	}

	var peer theme.Peer
	if withHub {
		c.hub = theme.NewHub(logger.Named("hub"))
		peer = c.hub
	}

	gmap := geomap.New(
		geomap.TileLayer{Name: string(model.ThemeLight), URL: cfg.Map.Light.URL, Attribution: cfg.Map.Light.Attribution},
		geomap.TileLayer{Name: string(model.ThemeDark), URL: cfg.Map.Dark.URL, Attribution: cfg.Map.Dark.Attribution},
		geomap.LatLng{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng},
		cfg.Map.Zoom,
	)

	ctrl := theme.NewController(prefs, cfg.Theme.StorageKey, peer, gmap, logger.Named("theme"))

	f := newFetcher(cfg, dir)
	c.app = dashboard.New(dashboard.Options{
		Report:     report.NewLoader(f, cfg.Sources.ReportPath, logger.Named("report")),
		Dataset:    dataset.NewPipeline(f, cfg.Sources.DatasetPath, logger.Named("dataset")),
		Theme:      ctrl,
		Map:        gmap,
		LoadLog:    loadLog,
		Regions:    regions(cfg),
		FitPadding: cfg.Map.FitPadding,
		Logger:     logger.Named("dashboard"),
	})
	return c, nil
}

// Close 释放资源
func (c *components) Close() {
	if c.hub != nil {
		c.hub.Close()
	}
	if c.store != nil {
		_ = c.store.Close()
	}
}

// newFetcher 配置了 base_url 时走 HTTP，否则从数据目录读取
// 资源路径形如 data/houseproject1/report.json，data/ 对应数据目录，与 /data 路由一致
func newFetcher(cfg *config.AppConfig, dir string) fetch.Fetcher {
	if cfg.Sources.BaseURL != "" {
		return fetch.NewHTTPFetcher(cfg.Sources.BaseURL, cfg.Sources.CacheBust)
	}
	f := fetch.NewFileFetcher(dir)
	f.Prefix = dataRoute
	return f
}

func regions(cfg *config.AppConfig) dashboard.Regions {
	return dashboard.Regions{
		Map:      cfg.Layout.Map,
		Table:    cfg.Layout.Table,
		Insights: cfg.Layout.Insights,
		Status:   cfg.Layout.Status,
		RowCount: cfg.Layout.RowCount,
	}
}

// libraries 地图脚本是唯一的可选外部库
func libraries(cfg *config.AppConfig) []dashboard.Library {
	if cfg.Map.LibraryURL == "" {
		return nil
	}
	return []dashboard.Library{
		dashboard.HTTPLibrary("leaflet", cfg.Map.LibraryURL, http.DefaultClient),
	}
}

func waitOptions(cfg *config.AppConfig) dashboard.WaitOptions {
	return dashboard.WaitOptions{
		Timeout:  cfg.Map.LibraryWait.Duration,
		Interval: cfg.Map.PollInterval.Duration,
	}
}
