package dashboard

import (
	"context"
	"net/http"
	"time"

	"houseboard/internal/fetch"
)

// Library 可选外部库（例如前端地图脚本）
type Library struct {
	Name  string
	Ready func(ctx context.Context) bool
}

// WaitOptions 等待参数
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// HTTPLibrary 通过 HEAD 请求判断库是否可用
func HTTPLibrary(name, url string, client *http.Client) Library {
	return Library{
		Name: name,
		Ready: func(ctx context.Context) bool {
			return fetch.Probe(ctx, client, url)
		},
	}
}

// WaitForLibraries 轮询直到所有库可用或超时，返回仍不可用的库名
func WaitForLibraries(ctx context.Context, libs []Library, opts WaitOptions) []string {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pending := libs
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		still := pending[:0:0]
		for _, lib := range pending {
			if !lib.Ready(ctx) {
				still = append(still, lib)
			}
		}
		pending = still
		if len(pending) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			names := make([]string, len(pending))
			for i, lib := range pending {
				names[i] = lib.Name
			}
			return names
		case <-ticker.C:
		}
	}
}
