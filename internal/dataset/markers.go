package dataset

import (
	"bytes"
	"fmt"
	"html/template"

	"houseboard/internal/geomap"
	"houseboard/internal/model"
)

// MarkerSink 接收标记的地图
type MarkerSink interface {
	ClearMarkers()
	AddMarker(m geomap.Marker)
	FitBounds(b geomap.Bounds, padding int)
}

var popupTmpl = template.Must(template.New("popup").Parse(
	`<strong>{{.Name}}</strong><br>{{.Coords}}{{if .Price}}<br>Price: {{.Price}}{{end}}`))

// RenderMarkers 清除旧标记后为每条有效坐标的记录放置标记
// 至少一个标记时把视口调整到所有标记的范围，否则视口不变
func RenderMarkers(listings []model.Listing, sink MarkerSink, padding int) (int, error) {
	sink.ClearMarkers()

	bounds := geomap.EmptyBounds()
	count := 0
	for _, l := range listings {
		if !l.HasCoords {
			continue
		}
		mk, err := buildMarker(l)
		if err != nil {
			return count, err
		}
		sink.AddMarker(mk)
		bounds.Extend(l.Lat, l.Lng)
		count++
	}

	if count > 0 {
		sink.FitBounds(bounds, padding)
	}
	return count, nil
}

func buildMarker(l model.Listing) (geomap.Marker, error) {
	price := ""
	if l.HasPrice {
		price = FormatPrice(l.Price)
	}

	// 页面把 tooltip 当作 HTML 插入
	tooltip := template.HTMLEscapeString(l.Name)
	if price != "" {
		tooltip = template.HTMLEscapeString(fmt.Sprintf("%s - %s", l.Name, price))
	}

	var buf bytes.Buffer
	err := popupTmpl.Execute(&buf, struct {
		Name, Coords, Price string
	}{
		Name:   l.Name,
		Coords: fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lng),
		Price:  price,
	})
	if err != nil {
		return geomap.Marker{}, fmt.Errorf("render popup for %s: %w", l.Name, err)
	}

	return geomap.Marker{
		Lat:     l.Lat,
		Lng:     l.Lng,
		Tooltip: tooltip,
		Popup:   buf.String(),
	}, nil
}
