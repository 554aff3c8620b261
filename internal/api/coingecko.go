package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"crypto-dashboard/internal/model"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// coinResponse 适配 /coins/{id} 的响应，只解析需要的字段
type coinResponse struct {
	ID            string      `json:"id"`
	MarketCapRank *int        `json:"market_cap_rank"`
	MarketData    *marketData `json:"market_data"` // 被限流时上游不返回这个对象
}

// marketData 中的价格字段按计价货币分组，例如 current_price.usd
type marketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	PriceChangePercentage24h *float64           `json:"price_change_percentage_24h"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	CirculatingSupply        *float64           `json:"circulating_supply"`
	Ath                      map[string]float64 `json:"ath"`
	High24h                  map[string]float64 `json:"high_24h"`
	Low24h                   map[string]float64 `json:"low_24h"`
}

// marketChartResponse 适配 /coins/{id}/market_chart，prices 为 [毫秒时间戳, 价格] 数组
type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// CoinGecko 是上游行情 API 的只读客户端，两个方法都可以安全重试
type CoinGecko struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCoinGecko 创建客户端，timeout 为 0 时使用网络层默认行为
func NewCoinGecko(baseURL string, timeout time.Duration, logger *zap.Logger) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CoinGecko{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("component", "coingecko")),
	}
}

// FetchSnapshot 拉取币种当前行情
// 网络失败或响应无法解析返回 ErrAPIUnavailable，缺少 market_data 返回 ErrIncompleteData
func (c *CoinGecko) FetchSnapshot(ctx context.Context, coinID string) (model.MarketSnapshot, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "false")
	endpoint := fmt.Sprintf("%s/coins/%s?%s", c.baseURL, url.PathEscape(coinID), q.Encode())

	var resp coinResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return model.MarketSnapshot{}, fmt.Errorf("snapshot [%s]: %w", coinID, err)
	}

	m := resp.MarketData
	if m == nil {
		return model.MarketSnapshot{}, fmt.Errorf("snapshot [%s]: response has no market_data: %w", coinID, model.ErrIncompleteData)
	}
	price, ok := m.CurrentPrice["usd"]
	if !ok {
		return model.MarketSnapshot{}, fmt.Errorf("snapshot [%s]: response has no usd price: %w", coinID, model.ErrIncompleteData)
	}

	snap := model.MarketSnapshot{
		CoinID:       coinID,
		PriceUSD:     price,
		MarketCapUSD: m.MarketCap["usd"],
		Volume24hUSD: m.TotalVolume["usd"],
		AthUSD:       m.Ath["usd"],
		High24hUSD:   m.High24h["usd"],
		Low24hUSD:    m.Low24h["usd"],
	}
	if m.PriceChangePercentage24h != nil {
		snap.Change24hPercent = *m.PriceChangePercentage24h
	}
	if m.CirculatingSupply != nil {
		snap.CirculatingSupply = *m.CirculatingSupply
	}
	if resp.MarketCapRank != nil {
		snap.MarketCapRank = *resp.MarketCapRank
	}
	return snap, nil
}

// FetchSeries 拉取币种在 days 天内的历史价格，按时间升序返回
// 网络失败或响应格式不正确返回 ErrAPIUnavailable
func (c *CoinGecko) FetchSeries(ctx context.Context, coinID string, days int) (model.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d", c.baseURL, url.PathEscape(coinID), days)

	var resp marketChartResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return model.PriceSeries{}, fmt.Errorf("series [%s/%dd]: %w", coinID, days, err)
	}
	if resp.Prices == nil {
		return model.PriceSeries{}, fmt.Errorf("series [%s/%dd]: response has no prices: %w", coinID, days, model.ErrAPIUnavailable)
	}

	points := make([]model.PricePoint, 0, len(resp.Prices))
	for i, pair := range resp.Prices {
		if len(pair) < 2 {
			return model.PriceSeries{}, fmt.Errorf("series [%s/%dd]: malformed sample #%d: %w", coinID, days, i, model.ErrAPIUnavailable)
		}
		points = append(points, model.PricePoint{Timestamp: int64(pair[0]), PriceUSD: pair[1]})
	}
	slices.SortStableFunc(points, func(a, b model.PricePoint) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})

	return model.PriceSeries{CoinID: coinID, RangeDays: days, Points: points}, nil
}

// getJSON 发起 GET 请求并解码响应
// 429 (限流) 视为数据不完整，其它非 2xx 视为 API 不可用
func (c *CoinGecko) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w: %w", model.ErrAPIUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("GET", zap.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w: %w", model.ErrAPIUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limited (%s): %w", resp.Status, model.ErrIncompleteData)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API error: %s - %s: %w", resp.Status, strings.TrimSpace(string(body)), model.ErrAPIUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("JSON parse error: %w: %w", model.ErrAPIUnavailable, err)
	}
	return nil
}
