package geomap

// Bounds 经纬度范围
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`

	empty bool
}

// EmptyBounds 返回可扩展的空范围
func EmptyBounds() Bounds {
	return Bounds{MinLat: 90, MinLng: 180, MaxLat: -90, MaxLng: -180, empty: true}
}

// Extend 扩展范围以包含点
func (b *Bounds) Extend(lat, lng float64) {
	b.empty = false
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	if lng < b.MinLng {
		b.MinLng = lng
	}
	if lng > b.MaxLng {
		b.MaxLng = lng
	}
}

// IsEmpty 是否未包含任何点
func (b Bounds) IsEmpty() bool {
	return b.empty
}

// Center 中心点
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}
