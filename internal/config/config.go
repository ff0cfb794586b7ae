package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Sources SourcesConfig `toml:"sources"`
	Map     MapConfig     `toml:"map"`
	Theme   ThemeConfig   `toml:"theme"`
	Layout  LayoutConfig  `toml:"layout"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据目录与数据库
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBName  string `toml:"db_name"`
}

// SourcesConfig 报告与表格资源
// BaseURL 为空时从数据目录读取
type SourcesConfig struct {
	BaseURL     string `toml:"base_url"`
	ReportPath  string `toml:"report_path"`
	DatasetPath string `toml:"dataset_path"`
	CacheBust   bool   `toml:"cache_bust"`
}

// TileConfig 底图配置
type TileConfig struct {
	URL         string `toml:"url"`
	Attribution string `toml:"attribution"`
}

// MapConfig 地图配置
type MapConfig struct {
	Light        TileConfig `toml:"light"`
	Dark         TileConfig `toml:"dark"`
	CenterLat    float64    `toml:"center_lat"`
	CenterLng    float64    `toml:"center_lng"`
	Zoom         int        `toml:"zoom"`
	FitPadding   int        `toml:"fit_padding"`
	LibraryURL   string     `toml:"library_url"`
	LibraryWait  Duration   `toml:"library_wait"`
	PollInterval Duration   `toml:"poll_interval"`
}

// ThemeConfig 主题配置
type ThemeConfig struct {
	StorageKey string `toml:"storage_key"`
}

// LayoutConfig 页面包含哪些区域
type LayoutConfig struct {
	Map      bool `toml:"map"`
	Table    bool `toml:"table"`
	Insights bool `toml:"insights"`
	Status   bool `toml:"status"`
	RowCount bool `toml:"row_count"`
}

// Duration 支持 "5s" 形式的 TOML 时长
type Duration struct {
	time.Duration
}

// UnmarshalText 解析时长文本
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText 输出时长文本
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port: 20262,
		},
		Data: DataConfig{
			DataDir: "data",
			DBName:  "houseboard.db",
		},
		Sources: SourcesConfig{
			ReportPath:  "data/houseproject1/report.json",
			DatasetPath: "data/houseproject1/listings.xlsx",
			CacheBust:   true,
		},
		Map: MapConfig{
			Light: TileConfig{
				URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
				Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
			},
			Dark: TileConfig{
				URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
				Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
			},
			CenterLat:    39.8283,
			CenterLng:    -98.5795,
			Zoom:         4,
			FitPadding:   50,
			LibraryURL:   "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js",
			LibraryWait:  Duration{5 * time.Second},
			PollInterval: Duration{100 * time.Millisecond},
		},
		Theme: ThemeConfig{
			StorageKey: "theme",
		},
		Layout: LayoutConfig{
			Map:      true,
			Table:    true,
			Insights: true,
			Status:   true,
			RowCount: true,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件目录下的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return LoadFile(filepath.Join(exeDir, "config.toml"))
}

// LoadFile 从指定文件加载配置，文件不存在时使用默认配置
// .env 与 HOUSEBOARD_* 环境变量覆盖文件中的值
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	cfg := DefaultConfig()

	// .env 可选
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	if applyEnv(cfg) {
		info.PortSpecified = true
	}
	return cfg, info, nil
}

// applyEnv 环境变量覆盖；返回端口是否被覆盖
func applyEnv(cfg *AppConfig) bool {
	if v := os.Getenv("HOUSEBOARD_BASE_URL"); v != "" {
		cfg.Sources.BaseURL = v
	}
	if v := os.Getenv("HOUSEBOARD_REPORT_PATH"); v != "" {
		cfg.Sources.ReportPath = v
	}
	if v := os.Getenv("HOUSEBOARD_DATASET_PATH"); v != "" {
		cfg.Sources.DatasetPath = v
	}
	if v := os.Getenv("HOUSEBOARD_DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv("HOUSEBOARD_DEV"); v != "" {
		cfg.Server.DevMode = parseBool(v)
	}
	if v := os.Getenv("HOUSEBOARD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
			return true
		}
	}
	return false
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// SaveConfig 保存配置到 path
func SaveConfig(path string, cfg *AppConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录：绝对路径原样返回，相对路径基于可执行文件目录
func ResolveDataDir(cfg *AppConfig) string {
	if filepath.IsAbs(cfg.Data.DataDir) {
		return cfg.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, cfg.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(cfg *AppConfig) (string, error) {
	dir := ResolveDataDir(cfg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DBPath 数据库文件路径
func DBPath(cfg *AppConfig) string {
	return filepath.Join(ResolveDataDir(cfg), cfg.Data.DBName)
}
