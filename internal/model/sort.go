package model

// Direction 排序方向
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortConfig 当前排序配置，零值为升序、未选择列
type SortConfig struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Desc 是否降序
func (c SortConfig) Desc() bool {
	return c.Direction == Descending
}
