// Package report 读取并渲染策略报告
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"houseboard/internal/apperr"
	"houseboard/internal/fetch"
	"houseboard/internal/model"
)

// Loader 报告加载器
type Loader struct {
	fetcher fetch.Fetcher
	path    string
	logger  *zap.Logger
}

// NewLoader 创建报告加载器
func NewLoader(fetcher fetch.Fetcher, path string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, path: path, logger: logger}
}

// Path 报告资源路径
func (l *Loader) Path() string {
	return l.path
}

type rawReport struct {
	MarketStatus      *string         `json:"marketStatus"`
	StrategicInsights json.RawMessage `json:"strategicInsights"`
}

// Load 读取并校验报告
// insights 缺失、不是数组或为空时返回 shape 错误，但仍返回已解析的 MarketStatus
func (l *Loader) Load(ctx context.Context) (*model.Report, error) {
	data, err := l.fetcher.Fetch(ctx, l.path)
	if err != nil {
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			err = apperr.Transport(l.path, 0, err)
		}
		return nil, err
	}

	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.Decode(l.path, err)
	}

	rep := &model.Report{}
	if raw.MarketStatus != nil {
		rep.MarketStatus = *raw.MarketStatus
	}

	trimmed := bytes.TrimSpace(raw.StrategicInsights)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return rep, apperr.Shape(l.path, "strategicInsights is missing")
	}
	if trimmed[0] != '[' {
		return rep, apperr.Shape(l.path, "strategicInsights is not an array")
	}

	var insights []model.Insight
	if err := json.Unmarshal(trimmed, &insights); err != nil {
		return rep, apperr.Decode(l.path, err)
	}
	if len(insights) == 0 {
		return rep, apperr.Shape(l.path, "strategicInsights is empty")
	}

	rep.StrategicInsights = insights
	l.logger.Debug("report loaded", zap.String("path", l.path), zap.Int("insights", len(insights)))
	return rep, nil
}
