package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"houseboard/internal/dashboard"
)

//go:embed web
var webFS embed.FS

var pageTmpl = template.Must(template.ParseFS(webFS, "web/page.html"))

// PageOptions 页面参数
type PageOptions struct {
	Title      string
	Base       string // 以 / 结尾
	Embedded   bool
	LibraryURL string // 地图脚本地址
	Static     bool   // 离线页面：内联样式与脚本，不调用服务端
}

type pageState struct {
	Base   string         `json:"base"`
	Static bool           `json:"static,omitempty"`
	View   dashboard.View `json:"view"`
}

// WritePage 把当前视图渲染为完整页面
func WritePage(w io.Writer, v dashboard.View, opts PageOptions) error {
	if opts.Title == "" {
		opts.Title = "Property Dashboard"
	}
	if opts.Base == "" || !strings.HasSuffix(opts.Base, "/") {
		opts.Base += "/"
	}

	data := struct {
		Title      string
		Base       string
		Embedded   bool
		Static     bool
		LeafletJS  string
		LeafletCSS string
		InlineCSS  template.CSS
		InlineJS   template.JS
		View       dashboard.View
		State      pageState
	}{
		Title:      opts.Title,
		Base:       opts.Base,
		Embedded:   opts.Embedded,
		Static:     opts.Static,
		LeafletJS:  opts.LibraryURL,
		LeafletCSS: strings.TrimSuffix(opts.LibraryURL, ".js") + ".css",
		View:       v,
		State:      pageState{Base: opts.Base, Static: opts.Static, View: v},
	}

	if opts.Static {
		css, err := webFS.ReadFile("web/static/dashboard.css")
		if err != nil {
			return fmt.Errorf("read embedded css: %w", err)
		}
		js, err := webFS.ReadFile("web/static/dashboard.js")
		if err != nil {
			return fmt.Errorf("read embedded js: %w", err)
		}
		data.InlineCSS = template.CSS(css)
		data.InlineJS = template.JS(js)
	}

	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
