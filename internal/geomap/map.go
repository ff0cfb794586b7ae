// Package geomap 维护地图覆盖层状态：底图、标记与视口
// 页面只负责按快照绘制
package geomap

import (
	"sync"

	"houseboard/internal/model"
)

// LatLng 经纬度
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TileLayer 底图图层
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// Marker 地图标记
type Marker struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Tooltip string  `json:"tooltip"`
	Popup   string  `json:"popup"` // 已转义的 HTML
}

// Viewport 视口
type Viewport struct {
	Center  LatLng  `json:"center"`
	Zoom    int     `json:"zoom"`
	Bounds  *Bounds `json:"bounds,omitempty"`
	Padding int     `json:"padding,omitempty"`
}

// Snapshot 页面绘制所需的地图状态
type Snapshot struct {
	Tiles    []TileLayer `json:"tiles"`
	Markers  []Marker    `json:"markers"`
	Viewport Viewport    `json:"viewport"`
}

// Map 地图状态
type Map struct {
	mu       sync.RWMutex
	layers   map[model.Theme]TileLayer
	attached []TileLayer
	markers  []Marker
	view     Viewport
}

// New 创建地图，light/dark 各一个底图
func New(light, dark TileLayer, center LatLng, zoom int) *Map {
	return &Map{
		layers: map[model.Theme]TileLayer{
			model.ThemeLight: light,
			model.ThemeDark:  dark,
		},
		view: Viewport{Center: center, Zoom: zoom},
	}
}

// UseTiles 切换到主题对应的底图
// 先移除已挂载的图层再挂载新图层，任何时刻最多一个
func (m *Map) UseTiles(theme model.Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	layer, ok := m.layers[theme]
	if !ok {
		layer = m.layers[model.DefaultTheme]
	}
	m.attached = m.attached[:0]
	m.attached = append(m.attached, layer)
}

// Tiles 当前挂载的底图
func (m *Map) Tiles() []TileLayer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TileLayer, len(m.attached))
	copy(out, m.attached)
	return out
}

// ClearMarkers 移除所有标记
func (m *Map) ClearMarkers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = nil
}

// AddMarker 添加标记
func (m *Map) AddMarker(mk Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, mk)
}

// Markers 当前标记（副本）
func (m *Map) Markers() []Marker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// FitBounds 将视口调整到给定范围
func (m *Map) FitBounds(b Bounds, padding int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bb := b
	m.view.Bounds = &bb
	m.view.Padding = padding
	m.view.Center = b.Center()
}

// Viewport 当前视口
func (m *Map) Viewport() Viewport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v := m.view
	if v.Bounds != nil {
		bb := *v.Bounds
		v.Bounds = &bb
	}
	return v
}

// Snapshot 导出当前状态
func (m *Map) Snapshot() Snapshot {
	return Snapshot{
		Tiles:    m.Tiles(),
		Markers:  m.Markers(),
		Viewport: m.Viewport(),
	}
}
