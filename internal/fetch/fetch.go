// Package fetch 读取报告与表格资源
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"houseboard/internal/apperr"
)

// Fetcher 按逻辑路径读取资源
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// HTTPFetcher 通过 HTTP GET 读取资源
// 不设置超时，只受 ctx 控制
type HTTPFetcher struct {
	BaseURL   string
	CacheBust bool
	Client    *http.Client

	now func() time.Time
}

// NewHTTPFetcher 创建 HTTP 读取器
func NewHTTPFetcher(baseURL string, cacheBust bool) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		CacheBust: cacheBust,
		Client:    &http.Client{},
		now:       time.Now,
	}
}

// Fetch 读取资源；非 2xx 状态视为传输错误
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	target, err := f.resolve(path)
	if err != nil {
		return nil, apperr.Transport(path, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperr.Transport(path, 0, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, apperr.Transport(path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Transport(path, resp.StatusCode, fmt.Errorf("file not found at %s", path))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Transport(path, 0, fmt.Errorf("read body: %w", err))
	}
	return data, nil
}

func (f *HTTPFetcher) resolve(path string) (string, error) {
	// 相对路径不能以 / 开头，否则会丢掉 BaseURL 中的子路径
	rel := strings.TrimLeft(path, "/")
	u, err := url.Parse(f.BaseURL + "/" + rel)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if f.CacheBust {
		q := u.Query()
		q.Set("t", strconv.FormatInt(f.now().UnixMilli(), 10))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// FileFetcher 从本地目录读取资源
// Prefix 非空时，以 Prefix/ 开头的路径去掉该前缀后再在 Root 下查找
type FileFetcher struct {
	Root   string
	Prefix string
}

// NewFileFetcher 创建本地读取器
func NewFileFetcher(root string) *FileFetcher {
	return &FileFetcher{Root: root}
}

// Fetch 读取 Root 下的文件；文件不存在映射为 404
func (f *FileFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Transport(path, 0, err)
	}

	clean := filepath.Clean("/" + path)
	if f.Prefix != "" {
		prefix := filepath.Clean("/" + f.Prefix)
		if clean == prefix {
			clean = "/"
		} else if strings.HasPrefix(clean, prefix+string(filepath.Separator)) {
			clean = strings.TrimPrefix(clean, prefix)
		}
	}
	data, err := os.ReadFile(filepath.Join(f.Root, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Transport(path, http.StatusNotFound, fmt.Errorf("file not found at %s", path))
		}
		return nil, apperr.Transport(path, 0, err)
	}
	return data, nil
}

// Probe 检查可选外部资源（地图库等）是否可访问
func Probe(ctx context.Context, client *http.Client, target string) bool {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
