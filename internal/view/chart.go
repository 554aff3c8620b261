package view

// 图表渲染协作方接收的声明式描述 (结构与 Chart.js 配置对应)

type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Gradient 纵向线性渐变填充
type Gradient struct {
	X0    float64        `json:"x0"`
	Y0    float64        `json:"y0"`
	X1    float64        `json:"x1"`
	Y1    float64        `json:"y1"`
	Stops []GradientStop `json:"stops"`
}

type Dataset struct {
	Label            string    `json:"label"`
	Data             []float64 `json:"data"`
	Offset           int       `json:"offset,omitempty"` // 数据从第 Offset 个标签开始
	BorderColor      string    `json:"borderColor"`
	Background       *Gradient `json:"backgroundGradient,omitempty"`
	BorderWidth      float64   `json:"borderWidth"`
	PointRadius      float64   `json:"pointRadius"`
	PointHoverRadius float64   `json:"pointHoverRadius"`
	Fill             bool      `json:"fill"`
	Tension          float64   `json:"tension"`
}

type Tooltip struct {
	Mode            string  `json:"mode"`
	Intersect       bool    `json:"intersect"`
	BackgroundColor string  `json:"backgroundColor"`
	TitleColor      string  `json:"titleColor"`
	BodyColor       string  `json:"bodyColor"`
	BorderColor     string  `json:"borderColor"`
	BorderWidth     float64 `json:"borderWidth"`
	ValuePrefix     string  `json:"valuePrefix"`
}

type Axis struct {
	Display     bool   `json:"display"`
	Position    string `json:"position,omitempty"`
	TickColor   string `json:"tickColor,omitempty"`
	FontSize    int    `json:"fontSize,omitempty"`
	FontWeight  string `json:"fontWeight,omitempty"`
	ValuePrefix string `json:"valuePrefix,omitempty"`
}

type Interaction struct {
	Mode      string `json:"mode"`
	Axis      string `json:"axis"`
	Intersect bool   `json:"intersect"`
}

type ChartOptions struct {
	Responsive          bool        `json:"responsive"`
	MaintainAspectRatio bool        `json:"maintainAspectRatio"`
	Animation           bool        `json:"animation"`
	Legend              bool        `json:"legend"`
	Tooltip             Tooltip     `json:"tooltip"`
	XAxis               Axis        `json:"x"`
	YAxis               Axis        `json:"y"`
	Interaction         Interaction `json:"interaction"`
}

// Trend 由序列首尾价格决定
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
)

// ChartSpec 一次完整的图表描述
type ChartSpec struct {
	Element  string       `json:"element"`
	Type     string       `json:"type"`
	CoinID   string       `json:"coin"`
	Days     int          `json:"days"`
	Trend    Trend        `json:"trend"`
	Labels   []string     `json:"labels"`
	Datasets []Dataset    `json:"datasets"`
	Options  ChartOptions `json:"options"`
}

// Chart 是一个已创建的图表实例，重新渲染前必须 Destroy
type Chart interface {
	Destroy()
}

// ChartSurface 图表渲染协作方
type ChartSurface interface {
	Create(spec ChartSpec) (Chart, error)
}
