package dataset

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"houseboard/internal/apperr"
	"houseboard/internal/fetch"
	"houseboard/internal/model"
)

// Pipeline 读取并解码房源表格
type Pipeline struct {
	fetcher fetch.Fetcher
	path    string
	logger  *zap.Logger
}

// NewPipeline 创建数据管道
func NewPipeline(fetcher fetch.Fetcher, path string, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, path: path, logger: logger}
}

// Path 表格资源路径
func (p *Pipeline) Path() string {
	return p.path
}

// Load 读取 -> 解码 -> 校验非空
// 返回的错误均为 *apperr.Error
func (p *Pipeline) Load(ctx context.Context) (model.Dataset, error) {
	data, err := p.fetcher.Fetch(ctx, p.path)
	if err != nil {
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			err = apperr.Transport(p.path, 0, err)
		}
		return nil, err
	}

	ds, err := Decode(data)
	if err != nil {
		return nil, apperr.Decode(p.path, err)
	}
	if len(ds) == 0 {
		return nil, apperr.Shape(p.path, "no rows found in the first sheet")
	}

	p.logger.Debug("dataset decoded", zap.String("path", p.path), zap.Int("rows", len(ds)))
	return ds, nil
}
