package model

// Insight 策略报告中的一张卡片
type Insight struct {
	Category string `json:"category,omitempty"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	Action   string `json:"action,omitempty"`
}

// Report 策略报告
type Report struct {
	MarketStatus      string    `json:"marketStatus,omitempty"`
	StrategicInsights []Insight `json:"strategicInsights,omitempty"`
}
