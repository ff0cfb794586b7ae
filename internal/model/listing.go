package model

// Listing 归一化后的房源记录
// 同义列名在渲染前一次性解析完毕
type Listing struct {
	Position int    // 1-based，当前顺序中的位置
	Name     string // 名称，缺失时为 "Property #N"

	Lat       float64
	Lng       float64
	HasCoords bool // 两个坐标都能解析为有限数

	Price    any // 原始价格值
	HasPrice bool

	Row Row
}
