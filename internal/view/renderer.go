package view

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"crypto-dashboard/internal/format"
	"crypto-dashboard/internal/model"
	"crypto-dashboard/internal/state"
	"crypto-dashboard/pkg/ta"
)

// 图表标签格式：1 天范围显示时刻，其它显示日期 (en-US)
const (
	timeOfDayLayout = "03:04 PM"
	dateLayout      = "1/2/2006"
)

// Palette 涨跌两套配色
type Palette struct {
	Positive     string
	Negative     string
	PositiveFill string
	NegativeFill string
	FillEnd      string
}

// Options 定义了 Renderer 的展示参数
type Options struct {
	Location            *time.Location
	Palette             Palette
	MovingAveragePeriod int // 0 表示不叠加均线
}

// Renderer 把 Selection 和拉取到的数据投影到展示层
// 每次调用都是整体覆盖写入，相同输入重复调用结果相同
type Renderer struct {
	writer Writer
	charts ChartSurface
	opts   Options
	logger *zap.Logger

	mu    sync.Mutex
	chart Chart // 当前图表实例
}

// NewRenderer 创建 Renderer
func NewRenderer(writer Writer, charts ChartSurface, opts Options, logger *zap.Logger) *Renderer {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Renderer{
		writer: writer,
		charts: charts,
		opts:   opts,
		logger: logger.With(zap.String("component", "renderer")),
	}
}

// RenderCoinList 按注册顺序填充币种下拉列表
func (r *Renderer) RenderCoinList(coins []model.CoinDescriptor) {
	items := make([]Item, len(coins))
	for i, c := range coins {
		items[i] = Item{Key: c.ID, Label: c.Name, Icon: c.IconRef}
	}
	r.writer.Write(Update{Field: FieldCoinDropdown, Prop: PropItems, Items: items})
}

// RenderSelection 切换币种后立即更新页头，价格显示为加载中并关闭下拉列表
func (r *Renderer) RenderSelection(sel state.Selected) {
	coin := sel.Coin
	r.writer.Write(
		text(FieldCoinName, coin.Name),
		text(FieldCoinSymbol, strings.ToUpper(coin.Symbol)),
		text(FieldBreadcrumb, " > "+coin.Name),
		Update{Field: FieldCoinIcon, Prop: PropSrc, Value: coin.IconRef},
		Update{Field: FieldCoinDropdown, Prop: PropOpen, Value: "false"},
		text(FieldCurrentPrice, LoadingText),
	)
}

// RenderSnapshot 写入行情快照和侧边栏，并刷新换算结果
// 快照币种与当前选中币种不一致时丢弃，返回 false
func (r *Renderer) RenderSnapshot(sel state.Selected, snap model.MarketSnapshot, usdAmount float64) bool {
	if !sel.MatchesCoin(snap.CoinID) {
		return false
	}

	coin := sel.Coin
	symbol := strings.ToUpper(coin.Symbol)
	change := snap.Change24hPercent

	r.writer.Write(
		text(FieldCurrentPrice, format.Currency(snap.PriceUSD)),
		Update{Field: FieldPriceChange, Prop: PropClass, Value: "price-change " + format.Tone(change)},
		Update{Field: FieldChangeIcon, Prop: PropClass, Value: "fas fa-caret-" + format.Direction(change)},
		text(FieldChangeValue, format.Percent(change)),

		text(FieldMarketCap, format.CurrencyCompact(snap.MarketCapUSD)),
		text(FieldVolume, format.CurrencyCompact(snap.Volume24hUSD)),
		text(FieldSupply, format.Supply(snap.CirculatingSupply, coin.Symbol)),
		text(FieldAth, format.Currency(snap.AthUSD)),
		text(FieldRank, format.Rank(snap.MarketCapRank)),
		text(FieldHigh24, format.Currency(snap.High24hUSD)),
		text(FieldLow24, format.Currency(snap.Low24hUSD)),

		text(FieldBuyButton, "Buy "+coin.Name),
		text(FieldSidebarSymbol, symbol),
		Update{Field: FieldSidebarIcon, Prop: PropSrc, Value: coin.IconRef},
		text(FieldConvSymbol, symbol),
		text(FieldConvPrice, format.Currency(snap.PriceUSD)),
	)

	r.RenderCalculator(sel, usdAmount)
	return true
}

// RenderCalculator 价格已知且为正时写入 usd / price (8 位小数)，否则不修改输出框
func (r *Renderer) RenderCalculator(sel state.Selected, usdAmount float64) {
	crypto, ok := state.Convert(usdAmount, sel.PriceUSD, sel.PriceKnown)
	if !ok {
		return
	}
	r.writer.Write(Update{Field: FieldCryptoInput, Prop: PropValue, Value: state.FormatCrypto(crypto)})
}

// RenderAmount 回写 USD 输入框 (预设金额按钮)
func (r *Renderer) RenderAmount(raw string) {
	r.writer.Write(Update{Field: FieldUSDInput, Prop: PropValue, Value: raw})
}

// RenderRange 标记当前时间范围按钮
func (r *Renderer) RenderRange(days int) {
	r.RenderChoice(GroupRange, strconv.Itoa(days))
}

// RenderChoice 标记选项组中的唯一选中项
func (r *Renderer) RenderChoice(group, key string) {
	r.writer.Write(Update{Field: group, Prop: PropActive, Value: key})
}

// RenderPicker 打开或关闭币种下拉列表
func (r *Renderer) RenderPicker(open bool) {
	r.writer.Write(Update{Field: FieldCoinDropdown, Prop: PropOpen, Value: strconv.FormatBool(open)})
}

// Notify 透传用户提示
func (r *Renderer) Notify(n Notice) {
	r.writer.Notify(n)
}

// RenderSeries 用新序列替换当前图表：旧实例先销毁，再创建新实例
// 序列的币种或时间范围与当前状态不一致时丢弃，返回 false
func (r *Renderer) RenderSeries(sel state.Selected, series model.PriceSeries) (bool, error) {
	if !sel.MatchesSeries(series.CoinID, series.RangeDays) {
		return false, nil
	}

	spec := r.BuildChartSpec(series)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chart != nil {
		r.chart.Destroy()
		r.chart = nil
	}

	chart, err := r.charts.Create(spec)
	if err != nil {
		return true, fmt.Errorf("create chart for %s/%dd: %w", series.CoinID, series.RangeDays, err)
	}
	r.chart = chart

	r.logger.Debug("Chart rendered",
		zap.String("coin", series.CoinID),
		zap.Int("days", series.RangeDays),
		zap.Int("points", len(series.Points)),
		zap.String("trend", string(spec.Trend)))
	return true, nil
}

// Close 释放当前图表实例
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chart != nil {
		r.chart.Destroy()
		r.chart = nil
	}
}

// TrendOf 最后价格不低于第一个价格为上涨；空序列按上涨处理
func TrendOf(prices []float64) Trend {
	if len(prices) == 0 || prices[len(prices)-1] >= prices[0] {
		return TrendPositive
	}
	return TrendNegative
}

// BuildChartSpec 把价格序列转换成图表描述 (纯函数)
func (r *Renderer) BuildChartSpec(series model.PriceSeries) ChartSpec {
	prices := series.Prices()

	layout := dateLayout
	if series.RangeDays == 1 {
		layout = timeOfDayLayout
	}
	labels := make([]string, len(series.Points))
	for i, p := range series.Points {
		labels[i] = p.Time().In(r.opts.Location).Format(layout)
	}

	trend := TrendOf(prices)
	p := r.opts.Palette
	border, fill := p.Positive, p.PositiveFill
	if trend == TrendNegative {
		border, fill = p.Negative, p.NegativeFill
	}

	datasets := []Dataset{{
		Label:       "Price (USD)",
		Data:        prices,
		BorderColor: border,
		Background: &Gradient{
			X0: 0, Y0: 0, X1: 0, Y1: 400,
			Stops: []GradientStop{
				{Offset: 0, Color: fill},
				{Offset: 1, Color: p.FillEnd},
			},
		},
		BorderWidth:      2,
		PointRadius:      0,
		PointHoverRadius: 6,
		Fill:             true,
		Tension:          0.1,
	}}

	if overlay, ok := ta.MovingAverage(prices, r.opts.MovingAveragePeriod); ok {
		datasets = append(datasets, Dataset{
			Label:            fmt.Sprintf("SMA %d", overlay.Period),
			Data:             overlay.Values,
			Offset:           overlay.Offset,
			BorderColor:      "#b7bdc6",
			BorderWidth:      1,
			PointRadius:      0,
			PointHoverRadius: 0,
			Tension:          0.1,
		})
	}

	return ChartSpec{
		Element:  FieldChart,
		Type:     "line",
		CoinID:   series.CoinID,
		Days:     series.RangeDays,
		Trend:    trend,
		Labels:   labels,
		Datasets: datasets,
		Options: ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Animation:           false,
			Legend:              false,
			Tooltip: Tooltip{
				Mode:            "index",
				Intersect:       false,
				BackgroundColor: "#161a1e",
				TitleColor:      "#b7bdc6",
				BodyColor:       "#fff",
				BorderColor:     "#2c3035",
				BorderWidth:     1,
				ValuePrefix:     "$",
			},
			XAxis: Axis{Display: false},
			YAxis: Axis{
				Display:     true,
				Position:    "right",
				TickColor:   "#b7bdc6",
				FontSize:    13,
				FontWeight:  "600",
				ValuePrefix: "$",
			},
			Interaction: Interaction{Mode: "nearest", Axis: "x", Intersect: false},
		},
	}
}
