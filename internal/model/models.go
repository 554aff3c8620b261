package model

import "time"

// CoinDescriptor 描述一个受支持的币种 (启动时定义，之后不可变)
type CoinDescriptor struct {
	ID      string `json:"id"`      // 外部 API 使用的标识，例如 "bitcoin"
	Symbol  string `json:"symbol"`  // 简短代号，例如 "btc"
	Name    string `json:"name"`    // 展示名称
	IconRef string `json:"iconRef"` // 图标 URI
}

// MarketSnapshot 代表某个币种在某一时刻的市场数据快照
// 由 Data Fetcher 生成，立即交给 View Renderer 消费，不做保留
type MarketSnapshot struct {
	CoinID            string  // 快照所属币种 (用于过期检查)
	PriceUSD          float64 // 当前价格
	Change24hPercent  float64 // 24 小时涨跌幅 (%)
	MarketCapUSD      float64
	Volume24hUSD      float64
	CirculatingSupply float64
	AthUSD            float64
	High24hUSD        float64
	Low24hUSD         float64
	MarketCapRank     int // 0 表示上游未提供排名
}

// PricePoint 价格序列中的一个采样点
type PricePoint struct {
	Timestamp int64   // 毫秒时间戳
	PriceUSD  float64 // 价格
}

// Time 将毫秒时间戳转换为 time.Time
func (p PricePoint) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// PriceSeries 某个币种在某个时间范围内的历史价格，按时间升序排列
type PriceSeries struct {
	CoinID    string // 序列所属币种
	RangeDays int    // 请求时使用的天数范围
	Points    []PricePoint
}

// Prices 返回序列中的纯价格切片
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.PriceUSD
	}
	return prices
}
