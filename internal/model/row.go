package model

// Row 表格中的一条房源记录
// 列名不固定，值只可能是 float64 或 string；缺失的列不出现在 Keys 中
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow 创建记录（复制入参，之后不可修改）
func NewRow(keys []string, values map[string]any) Row {
	r := Row{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]any, len(values)),
	}
	for _, k := range keys {
		v, ok := values[k]
		if !ok {
			continue
		}
		r.keys = append(r.keys, k)
		r.values[k] = v
	}
	return r
}

// Keys 返回列名（按表头顺序）
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get 获取列值
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Dataset 当前加载的记录集合，每次加载整体替换
type Dataset []Row
